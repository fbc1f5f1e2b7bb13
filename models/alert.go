package models

// AlertType identifies which check produced an alert.
type AlertType string

const (
	AlertTemperatureLow  AlertType = "TEMPERATURE_LOW"
	AlertTemperatureHigh AlertType = "TEMPERATURE_HIGH"
	AlertHumidityLow     AlertType = "HUMIDITY_LOW"
	AlertHumidityHigh    AlertType = "HUMIDITY_HIGH"
	AlertHealthStatus    AlertType = "HEALTH_STATUS"
)

// Severity levels for generated alerts.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Alert is generated at write time and lives only embedded in a Reading.
// It is never stored or updated on its own.
type Alert struct {
	Type     AlertType `json:"type"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}
