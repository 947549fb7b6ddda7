package models

// StreakResult holds the continuity figures for one habit (or, for the
// account-wide calendar, all habits combined).
type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// HabitStreakResponse is the per-habit streak payload, including the count
// accumulated in the active period (today or the current ISO week).
type HabitStreakResponse struct {
	HabitID     string       `json:"habit_id"`
	Cadence     Cadence      `json:"cadence"`
	Streak      StreakResult `json:"streak"`
	PeriodCount int          `json:"period_count"`
}

// HabitSummary is the minimal per-habit view the risk scan operates on.
type HabitSummary struct {
	HabitID       string `json:"habit_id"`
	Name          string `json:"name"`
	CurrentStreak int    `json:"current_streak"`
	TodayCount    int    `json:"today_count"`
}

// StreakRiskReport flags habits whose streak is live but unserved today.
type StreakRiskReport struct {
	IsAtRisk        bool          `json:"is_at_risk"`
	MostAtRiskHabit *HabitSummary `json:"most_at_risk_habit,omitempty"`
	RiskCount       int           `json:"risk_count"`
}
