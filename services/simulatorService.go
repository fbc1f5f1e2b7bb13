package services

import (
	"math"
	"math/rand"
	"time"

	"RoomWatch.mongoDB/models"
)

// SensorSimulator generates synthetic temperature and humidity readings in
// the persisted document schema. It plays the role of the external producer
// during development and load testing.
type SensorSimulator struct {
	location   string
	building   string
	room       string
	sensorID   string
	sensorType string

	tempSafeMin     float64
	tempSafeMax     float64
	humiditySafeMin float64
	humiditySafeMax float64

	// Probability of generating an out-of-range value to exercise alerts.
	outOfRangeProbability float64
}

// NewSensorSimulator returns a simulator with the default server-room
// configuration and safe ranges (65-75 °F, 45-55 %).
func NewSensorSimulator() *SensorSimulator {
	return &SensorSimulator{
		location:              "MCW Porur SEZ",
		building:              "B9",
		room:                  "ServerRoom",
		sensorID:              "SR001",
		sensorType:            "environmental",
		tempSafeMin:           65,
		tempSafeMax:           75,
		humiditySafeMin:       45,
		humiditySafeMax:       55,
		outOfRangeProbability: 0.1,
	}
}

// SetLocation sets the location details for the sensor.
func (s *SensorSimulator) SetLocation(location, building, room string) {
	s.location = location
	s.building = building
	s.room = room
}

// SetSensorID sets the sensor identifier.
func (s *SensorSimulator) SetSensorID(sensorID string) {
	s.sensorID = sensorID
}

// SetSafeRanges sets the in-range bands for both metrics.
func (s *SensorSimulator) SetSafeRanges(tempMin, tempMax, humidityMin, humidityMax float64) {
	s.tempSafeMin = tempMin
	s.tempSafeMax = tempMax
	s.humiditySafeMin = humidityMin
	s.humiditySafeMax = humidityMax
}

// SetOutOfRangeProbability clamps and sets the out-of-range probability.
func (s *SensorSimulator) SetOutOfRangeProbability(p float64) {
	s.outOfRangeProbability = math.Max(0, math.Min(1, p))
}

// generateValue produces a value inside [safeMin, safeMax] most of the time,
// and 3-10 units beyond one of the bounds otherwise.
func (s *SensorSimulator) generateValue(safeMin, safeMax float64) float64 {
	var v float64
	if rand.Float64() > s.outOfRangeProbability {
		v = safeMin + rand.Float64()*(safeMax-safeMin)
	} else if rand.Float64() < 0.5 {
		v = safeMin - 10 + rand.Float64()*7
	} else {
		v = safeMax + 3 + rand.Float64()*7
	}
	return round2(v)
}

// GenerateTemperature generates a realistic temperature value.
func (s *SensorSimulator) GenerateTemperature() float64 {
	return s.generateValue(s.tempSafeMin, s.tempSafeMax)
}

// GenerateHumidity generates a realistic humidity value.
func (s *SensorSimulator) GenerateHumidity() float64 {
	return s.generateValue(s.humiditySafeMin, s.humiditySafeMax)
}

// GenerateReading generates one complete sensor reading, without alerts.
func (s *SensorSimulator) GenerateReading() *models.Reading {
	temperature := s.GenerateTemperature()
	humidity := s.GenerateHumidity()

	return &models.Reading{
		Timestamp: time.Now().UTC(),
		Metadata: models.Metadata{
			Location:   s.location,
			Building:   s.building,
			Room:       s.room,
			SensorID:   s.sensorID,
			SensorType: s.sensorType,
		},
		Metrics: &models.Metrics{
			Temperature: &temperature,
			Humidity:    &humidity,
		},
	}
}

// GenerateHealthStatus generates the slow-cadence health document. It
// carries no metrics, only a status/message pair and the fixed
// HEALTH_STATUS/INFO alert, bypassing numeric evaluation.
func (s *SensorSimulator) GenerateHealthStatus() *models.Reading {
	reading := &models.Reading{
		Timestamp: time.Now().UTC(),
		Metadata: models.Metadata{
			Location:   s.location,
			Building:   s.building,
			Room:       s.room,
			SensorType: "health_status",
		},
		Status:  "OPTIMAL",
		Message: "Server room environment is running within optimal parameters",
	}
	reading.ApplyAlerts([]models.Alert{{
		Type:     models.AlertHealthStatus,
		Message:  "System health status",
		Severity: models.SeverityInfo,
	}})
	return reading
}

// SensorInfo is a snapshot of the simulator configuration.
type SensorInfo struct {
	Location              string  `json:"location"`
	Building              string  `json:"building"`
	Room                  string  `json:"room"`
	SensorID              string  `json:"sensor_id"`
	SensorType            string  `json:"sensor_type"`
	TempSafeMin           float64 `json:"temp_safe_min"`
	TempSafeMax           float64 `json:"temp_safe_max"`
	HumiditySafeMin       float64 `json:"humidity_safe_min"`
	HumiditySafeMax       float64 `json:"humidity_safe_max"`
	OutOfRangeProbability float64 `json:"out_of_range_probability"`
}

// GetSensorInfo returns the current simulator configuration.
func (s *SensorSimulator) GetSensorInfo() SensorInfo {
	return SensorInfo{
		Location:              s.location,
		Building:              s.building,
		Room:                  s.room,
		SensorID:              s.sensorID,
		SensorType:            s.sensorType,
		TempSafeMin:           s.tempSafeMin,
		TempSafeMax:           s.tempSafeMax,
		HumiditySafeMin:       s.humiditySafeMin,
		HumiditySafeMax:       s.humiditySafeMax,
		OutOfRangeProbability: s.outOfRangeProbability,
	}
}

// round2 rounds to the 2-decimal precision the schema stores.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
