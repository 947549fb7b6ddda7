package service

import "github.com/z3st/habits-api/internal/models"

// CheckStreakRisk flags habits whose streak is live but which have no
// check-in yet today. Among at-risk habits the one with the largest current
// streak is reported as most at risk; ties keep the first found.
func CheckStreakRisk(summaries []models.HabitSummary) models.StreakRiskReport {
	report := models.StreakRiskReport{}

	for i := range summaries {
		s := summaries[i]
		if s.CurrentStreak <= 0 || s.TodayCount != 0 {
			continue
		}
		report.RiskCount++
		if report.MostAtRiskHabit == nil || s.CurrentStreak > report.MostAtRiskHabit.CurrentStreak {
			copied := s
			report.MostAtRiskHabit = &copied
		}
	}

	report.IsAtRisk = report.RiskCount > 0
	return report
}
