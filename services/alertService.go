package services

import (
	"fmt"
	"log"

	"RoomWatch.mongoDB/models"
)

// warningBand is the absolute distance from a violated bound (in the
// metric's own unit) inside which a violation is a WARNING rather than
// CRITICAL.
const warningBand = 2.0

// Thresholds holds the process-wide safety bounds. It is passed explicitly
// into evaluation so nothing races on an implicit global.
type Thresholds struct {
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	HumidityMin float64 `json:"humidity_min"`
	HumidityMax float64 `json:"humidity_max"`
}

// AlertManager evaluates readings against configurable thresholds and
// generates alerts. Evaluation itself is pure; logging is layered on top.
type AlertManager struct {
	thresholds Thresholds
}

// NewAlertManager returns a manager with the default server-room bounds
// (63-80 °F, 40-60 %).
func NewAlertManager() *AlertManager {
	return &AlertManager{
		thresholds: Thresholds{TempMin: 63, TempMax: 80, HumidityMin: 40, HumidityMax: 60},
	}
}

// SetThresholds replaces the current bounds. Invalid bounds are applied
// anyway; callers are expected to surface ValidateThresholds warnings.
func (a *AlertManager) SetThresholds(t Thresholds) {
	a.thresholds = t
	log.Printf("✅ Thresholds updated - Temp: %g°F to %g°F, Humidity: %g%% to %g%%",
		t.TempMin, t.TempMax, t.HumidityMin, t.HumidityMax)
}

// GetThresholds returns the current bounds.
func (a *AlertManager) GetThresholds() Thresholds {
	return a.thresholds
}

// ValidateThresholds returns human-readable warnings for suspicious bounds.
// An inverted range is deliberately a warning, not a rejection: the
// ingestion loop must not be taken down by an operator typo mid-run.
func (a *AlertManager) ValidateThresholds() []string {
	var warnings []string
	t := a.thresholds

	if t.TempMin < 50 || t.TempMax > 100 {
		warnings = append(warnings, "Temperature thresholds are outside recommended range (50°F - 100°F)")
	}
	if t.HumidityMin < 20 || t.HumidityMax > 80 {
		warnings = append(warnings, "Humidity thresholds are outside recommended range (20% - 80%)")
	}
	if t.TempMin >= t.TempMax {
		warnings = append(warnings, "Temperature minimum must be less than maximum")
	}
	if t.HumidityMin >= t.HumidityMax {
		warnings = append(warnings, "Humidity minimum must be less than maximum")
	}
	return warnings
}

// CheckAllThresholds evaluates both metrics independently against the given
// bounds. A missing metric produces no alert. Bounds are inclusive: a value
// at exactly min or max is in range.
func CheckAllThresholds(metrics *models.Metrics, t Thresholds) []models.Alert {
	if metrics == nil {
		return nil
	}

	var alerts []models.Alert
	if metrics.Temperature != nil {
		alerts = append(alerts, checkTemperature(*metrics.Temperature, t)...)
	}
	if metrics.Humidity != nil {
		alerts = append(alerts, checkHumidity(*metrics.Humidity, t)...)
	}
	return alerts
}

// CheckReading evaluates a reading against the manager's current bounds.
func (a *AlertManager) CheckReading(reading *models.Reading) []models.Alert {
	return CheckAllThresholds(reading.Metrics, a.thresholds)
}

func checkTemperature(temperature float64, t Thresholds) []models.Alert {
	switch {
	case temperature < t.TempMin:
		return []models.Alert{{
			Type:     models.AlertTemperatureLow,
			Message:  fmt.Sprintf("Temperature %g°F is below minimum threshold %g°F", temperature, t.TempMin),
			Severity: determineSeverity(temperature, t.TempMin),
		}}
	case temperature > t.TempMax:
		return []models.Alert{{
			Type:     models.AlertTemperatureHigh,
			Message:  fmt.Sprintf("Temperature %g°F is above maximum threshold %g°F", temperature, t.TempMax),
			Severity: determineSeverity(temperature, t.TempMax),
		}}
	}
	return nil
}

func checkHumidity(humidity float64, t Thresholds) []models.Alert {
	switch {
	case humidity < t.HumidityMin:
		return []models.Alert{{
			Type:     models.AlertHumidityLow,
			Message:  fmt.Sprintf("Humidity %g%% is below minimum threshold %g%%", humidity, t.HumidityMin),
			Severity: determineSeverity(humidity, t.HumidityMin),
		}}
	case humidity > t.HumidityMax:
		return []models.Alert{{
			Type:     models.AlertHumidityHigh,
			Message:  fmt.Sprintf("Humidity %g%% is above maximum threshold %g%%", humidity, t.HumidityMax),
			Severity: determineSeverity(humidity, t.HumidityMax),
		}}
	}
	return nil
}

// determineSeverity applies the fixed absolute-distance rule: within
// warningBand of the violated threshold is WARNING, further out is CRITICAL.
func determineSeverity(value, threshold float64) models.Severity {
	d := value - threshold
	if d < 0 {
		d = -d
	}
	if d <= warningBand {
		return models.SeverityWarning
	}
	return models.SeverityCritical
}

// LogAlerts logs generated alerts at a level matching their severity.
func LogAlerts(alerts []models.Alert) {
	for _, alert := range alerts {
		switch alert.Severity {
		case models.SeverityCritical:
			log.Printf("🚨 CRITICAL ALERT: %s", alert.Message)
		case models.SeverityWarning:
			log.Printf("⚠️ WARNING: %s", alert.Message)
		default:
			log.Printf("ℹ️ INFO: %s", alert.Message)
		}
	}
}
