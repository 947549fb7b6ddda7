package models

import "time"

// CorrelationType represents the sign of a habit correlation
type CorrelationType string

const (
	CorrelationPositive CorrelationType = "positive"
	CorrelationNegative CorrelationType = "negative"
	CorrelationNone     CorrelationType = "none"
)

// CorrelationStrength buckets the magnitude of a correlation coefficient
type CorrelationStrength string

const (
	StrengthStrong   CorrelationStrength = "strong"
	StrengthModerate CorrelationStrength = "moderate"
	StrengthWeak     CorrelationStrength = "weak"
)

// RiskLevel labels a streak-survival prediction
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TrendDirection labels the recent-months trajectory of a completion rate
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// DayOfWeekStats holds completion figures for a single weekday.
// CompletionRate is a percentage; Attempts counts distinct observed dates.
type DayOfWeekStats struct {
	Weekday        time.Weekday `json:"weekday"`
	DayName        string       `json:"day_name"`
	Completions    int          `json:"completions"`
	Attempts       int          `json:"attempts"`
	CompletionRate float64      `json:"completion_rate"`
}

// BestWorstDays reports the strongest and weakest weekdays plus all seven
// buckets. Nil when no dated check-ins exist.
type BestWorstDays struct {
	Best  DayOfWeekStats    `json:"best"`
	Worst DayOfWeekStats    `json:"worst"`
	Days  [7]DayOfWeekStats `json:"days"`
}

// SurvivalPrediction is the weighted-sum streak-survival heuristic output.
// This is a product heuristic, not a statistically validated model.
type SurvivalPrediction struct {
	Probability float64   `json:"probability"`
	Risk        RiskLevel `json:"risk"`
	Confidence  float64   `json:"confidence"`
}

// HabitCorrelation is the pairwise relationship between two habits' daily
// completion signals over their common observed dates.
type HabitCorrelation struct {
	CorrelationCoefficient float64             `json:"correlation_coefficient"`
	CorrelationType        CorrelationType     `json:"correlation_type"`
	Strength               CorrelationStrength `json:"strength"`
	SampleSize             int                 `json:"sample_size"`
	Insight                string              `json:"insight"`
}

// PeriodRate is one calendar-month or calendar-year completion rollup.
type PeriodRate struct {
	Period         string  `json:"period"`
	Completions    int     `json:"completions"`
	Attempts       int     `json:"attempts"`
	CompletionRate float64 `json:"completion_rate"`
}

// HabitTrends bundles monthly and yearly rollups with a direction label
// derived from the slope over the most recent monthly rates.
type HabitTrends struct {
	Monthly   []PeriodRate   `json:"monthly"`
	Yearly    []PeriodRate   `json:"yearly"`
	Direction TrendDirection `json:"direction"`
}
