// Package metrics converts backend-shaped health payloads into UI-ready
// aggregates.
//
// Every function here is pure: no I/O, no shared state, deterministic output
// for identical input. Malformed input degrades to zero values — the mapper
// never returns an error and never panics, because it runs on every fetch
// result including partially populated ones.
package metrics

import (
	"math"
	"strconv"
	"strings"

	"github.com/rshade/healthsync/internal/api"
)

// BaselineBPM is the fixed reference heart rate used for above/below-center
// chart rendering.
const BaselineBPM = 72.0

// Heart-rate classification thresholds in BPM.
const (
	lowHeartRateBPM      = 60
	elevatedHeartRateBPM = 100
)

// Heart-rate status labels shown by the UI.
const (
	HeartRateNoData   = "No data"
	HeartRateLow      = "Low"
	HeartRateElevated = "Elevated"
	HeartRateNormal   = "Normal"
)

// TrendPoint is one heart-rate sample expressed as a signed offset from the
// baseline, ready for chart rendering.
type TrendPoint struct {
	Hour   int
	Offset float64
}

// HealthSummary is the UI-ready view model for the today-summary screen.
type HealthSummary struct {
	Steps       int
	StepsChange int

	HeartRateAvg    float64
	HeartRateStatus string
	HeartRateChange int
	HeartRateTrend  []TrendPoint

	Calories           int
	CaloriesChange     int
	CaloriesPercentage int

	SleepHours      float64
	SleepEfficiency float64

	DataPoints int
}

// ParsePercentChange converts a signed percentage string like "+12%" or "-4%"
// to an integer. Absent or unparsable input yields 0.
func ParsePercentChange(raw *string) int {
	if raw == nil {
		return 0
	}

	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(*raw), "%"))
	if trimmed == "" {
		return 0
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0
	}
	return value
}

// ClassifyHeartRate maps an average BPM to a display status.
func ClassifyHeartRate(avgBPM float64) string {
	switch {
	case avgBPM == 0:
		return HeartRateNoData
	case avgBPM < lowHeartRateBPM:
		return HeartRateLow
	case avgBPM > elevatedHeartRateBPM:
		return HeartRateElevated
	default:
		return HeartRateNormal
	}
}

// CaloriesPercentage returns round(total/goal*100), or 0 when goal <= 0.
func CaloriesPercentage(total, goal int) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(goal) * 100))
}

// BaselineOffset returns the signed difference between bpm and the fixed
// 72 BPM reference baseline.
func BaselineOffset(bpm float64) float64 {
	return bpm - BaselineBPM
}

// SleepEfficiency returns timeAsleep/timeInBed*100, defined as 0 when
// timeInBed is not positive so the mapper never divides by zero.
func SleepEfficiency(timeAsleep, timeInBed float64) float64 {
	if timeInBed <= 0 {
		return 0
	}
	return timeAsleep / timeInBed * 100
}

// MapSummary converts a backend summary payload into the UI view model.
// calorieGoal is the configured daily goal used for percentage mapping.
func MapSummary(payload *api.SummaryPayload, calorieGoal int) HealthSummary {
	if payload == nil {
		return HealthSummary{HeartRateStatus: HeartRateNoData}
	}

	trend := make([]TrendPoint, 0, len(payload.HeartRate.Trend))
	for _, point := range payload.HeartRate.Trend {
		trend = append(trend, TrendPoint{
			Hour:   point.Hour,
			Offset: BaselineOffset(point.BPM),
		})
	}

	return HealthSummary{
		Steps:       payload.Steps.Total,
		StepsChange: ParsePercentChange(payload.Steps.Change),

		HeartRateAvg:    payload.HeartRate.Avg,
		HeartRateStatus: ClassifyHeartRate(payload.HeartRate.Avg),
		HeartRateChange: ParsePercentChange(payload.HeartRate.Change),
		HeartRateTrend:  trend,

		Calories:           payload.Calories.Total,
		CaloriesChange:     ParsePercentChange(payload.Calories.Change),
		CaloriesPercentage: CaloriesPercentage(payload.Calories.Total, calorieGoal),

		SleepHours:      payload.Sleep.TimeAsleep,
		SleepEfficiency: SleepEfficiency(payload.Sleep.TimeAsleep, payload.Sleep.TimeInBed),

		DataPoints: payload.DataPoints,
	}
}
