package services

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"RoomWatch.mongoDB/models"
)

// AlertNotifier forwards CRITICAL alerts to an external webhook. Delivery is
// best-effort: failures are logged and never block the ingestion cycle.
type AlertNotifier struct {
	client     *resty.Client
	webhookURL string
}

// NewAlertNotifier creates a notifier for the given webhook URL. An empty
// URL disables notification entirely.
func NewAlertNotifier(webhookURL string) *AlertNotifier {
	client := resty.New().SetTimeout(5 * time.Second)
	return &AlertNotifier{client: client, webhookURL: webhookURL}
}

type webhookPayload struct {
	Timestamp time.Time       `json:"timestamp"`
	Metadata  models.Metadata `json:"metadata"`
	Alert     models.Alert    `json:"alert"`
}

// NotifyCritical posts each CRITICAL alert of the reading to the webhook.
func (n *AlertNotifier) NotifyCritical(reading *models.Reading, alerts []models.Alert) {
	if n.webhookURL == "" {
		return
	}

	for _, alert := range alerts {
		if alert.Severity != models.SeverityCritical {
			continue
		}
		payload := webhookPayload{
			Timestamp: reading.Timestamp,
			Metadata:  reading.Metadata,
			Alert:     alert,
		}
		resp, err := n.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(n.webhookURL)
		if err != nil {
			log.Printf("❌ Error sending alert webhook: %v", err)
			continue
		}
		if resp.IsError() {
			log.Printf("⚠️ Alert webhook returned status %d", resp.StatusCode())
			continue
		}
		log.Printf("✅ Alert webhook delivered: %s", alert.Type)
	}
}
