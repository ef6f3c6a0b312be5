package api

import "time"

// AggregationPeriod selects the bucket size for aggregated metrics.
type AggregationPeriod string

// Supported aggregation periods.
const (
	PeriodHourly AggregationPeriod = "hourly"
	PeriodDaily  AggregationPeriod = "daily"
	PeriodWeekly AggregationPeriod = "weekly"
)

// StepsPayload is the backend's step summary for the current day.
type StepsPayload struct {
	// Total is the step count accumulated so far today.
	Total int `json:"total"`

	// Change is a signed percentage string like "+12%" relative to yesterday.
	// Absent when the backend has no comparison data.
	Change *string `json:"change,omitempty"`
}

// HeartRateTrendPoint is one sample in the day's heart-rate trend.
type HeartRateTrendPoint struct {
	Hour int     `json:"hour"`
	BPM  float64 `json:"bpm"`
}

// HeartRatePayload is the backend's heart-rate summary for the current day.
type HeartRatePayload struct {
	Avg    float64               `json:"avg"`
	Change *string               `json:"change,omitempty"`
	Trend  []HeartRateTrendPoint `json:"trend,omitempty"`
}

// CaloriesPayload is the backend's calorie summary for the current day.
type CaloriesPayload struct {
	Total  int     `json:"total"`
	Change *string `json:"change,omitempty"`
}

// SleepPayload is the backend's sleep summary for the previous night.
// Durations are in hours.
type SleepPayload struct {
	TimeInBed  float64 `json:"time_in_bed"`
	TimeAsleep float64 `json:"time_asleep"`
}

// SummaryPayload is the raw today-summary response from
// GET /api/v1/wearables/summary. MetricsMapper converts it into the
// UI-ready HealthSummary view model.
type SummaryPayload struct {
	Steps      StepsPayload     `json:"steps"`
	HeartRate  HeartRatePayload `json:"heart_rate"`
	Calories   CaloriesPayload  `json:"calories"`
	Sleep      SleepPayload     `json:"sleep"`
	DataPoints int              `json:"data_points"`
	LastSync   *time.Time       `json:"last_sync,omitempty"`
}

// AggregatePoint is one bucket in an aggregated-metrics response.
type AggregatePoint struct {
	// Label identifies the bucket ("2025-11-12", "14:00", …).
	Label string `json:"label"`

	Steps        int     `json:"steps"`
	AvgHeartRate float64 `json:"avg_heart_rate"`
	Calories     int     `json:"calories"`
	SleepHours   float64 `json:"sleep_hours"`
}

// MetricsAggregate is the response from the aggregated-metrics endpoint for a
// single (period, day-window) pair.
type MetricsAggregate struct {
	Period AggregationPeriod `json:"period"`
	Days   int               `json:"days"`
	Points []AggregatePoint  `json:"points"`
}

// PairedDevice describes one wearable paired with the user's account, from
// GET /api/v1/wearables/devices/paired.
type PairedDevice struct {
	PairingID          string     `json:"pairing_id"`
	DeviceID           string     `json:"ios_device_id"`
	DeviceName         string     `json:"device_name"`
	DeviceType         string     `json:"device_type"`
	PairedAt           time.Time  `json:"paired_at"`
	IsActive           bool       `json:"is_active"`
	LastSync           *time.Time `json:"last_sync,omitempty"`
	TotalMetricsSynced int        `json:"total_metrics_synced"`
}

// Profile is a patient profile record from GET /api/v1/patient/{id}/profile.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	BloodType string `json:"blood_type"`
	Contact   string `json:"contact"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}
