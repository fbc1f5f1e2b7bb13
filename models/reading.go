package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Metadata is the immutable sensor/location tag set stored in the
// time-series meta field. It is used for filtering, never for ordering.
type Metadata struct {
	Location   string `bson:"location" json:"location"`
	Building   string `bson:"building" json:"building"`
	Room       string `bson:"room" json:"room"`
	SensorID   string `bson:"sensor_id,omitempty" json:"sensor_id,omitempty"`
	SensorType string `bson:"sensor_type,omitempty" json:"sensor_type,omitempty"`
}

// Metrics holds the measured values. Each metric is independently optional;
// a nil pointer means the field is absent from the document, not zero.
type Metrics struct {
	Temperature *float64 `bson:"temperature,omitempty" json:"temperature,omitempty"`
	Humidity    *float64 `bson:"humidity,omitempty" json:"humidity,omitempty"`
}

// Reading is one telemetry document in the time-series collection.
// Alerts are persisted as three index-aligned arrays (alert_type[i],
// alert_message[i], severity[i] describe one alert); all three are omitted
// when the reading is optimal. Health-status documents reuse the same shape
// with no metrics and a status/message pair.
type Reading struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	Metadata     Metadata           `bson:"metadata" json:"metadata"`
	Metrics      *Metrics           `bson:"metrics,omitempty" json:"metrics,omitempty"`
	AlertType    []AlertType        `bson:"alert_type,omitempty" json:"alert_type,omitempty"`
	AlertMessage []string           `bson:"alert_message,omitempty" json:"alert_message,omitempty"`
	Severity     []Severity         `bson:"severity,omitempty" json:"severity,omitempty"`

	// Health-status fields, absent on regular readings.
	Status  string `bson:"status,omitempty" json:"status,omitempty"`
	Message string `bson:"message,omitempty" json:"message,omitempty"`
}

// IsHealthStatus reports whether the document is a health-status entry
// rather than a metric reading.
func (r *Reading) IsHealthStatus() bool {
	return r.Status != ""
}

// HasAlerts reports whether any alert was attached at write time.
func (r *Reading) HasAlerts() bool {
	return len(r.AlertType) > 0
}

// Alerts reassembles the embedded alert triples from the aligned arrays.
func (r *Reading) Alerts() []Alert {
	alerts := make([]Alert, 0, len(r.AlertType))
	for i, t := range r.AlertType {
		a := Alert{Type: t}
		if i < len(r.AlertMessage) {
			a.Message = r.AlertMessage[i]
		}
		if i < len(r.Severity) {
			a.Severity = r.Severity[i]
		}
		alerts = append(alerts, a)
	}
	return alerts
}

// ApplyAlerts attaches generated alerts to the reading as the aligned
// persisted arrays. A nil or empty slice leaves the reading untouched.
func (r *Reading) ApplyAlerts(alerts []Alert) {
	if len(alerts) == 0 {
		return
	}
	r.AlertType = make([]AlertType, len(alerts))
	r.AlertMessage = make([]string, len(alerts))
	r.Severity = make([]Severity, len(alerts))
	for i, a := range alerts {
		r.AlertType[i] = a.Type
		r.AlertMessage[i] = a.Message
		r.Severity[i] = a.Severity
	}
}
