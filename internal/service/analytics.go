package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/z3st/habits-api/internal/cache"
	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/internal/repository"
)

// survivalRateWindowDays is the lookback window for the recent
// completion rate fed into the survival prediction.
const survivalRateWindowDays = 30

type insightsService struct {
	habitRepo   repository.HabitRepository
	checkinRepo repository.CheckinRepository
	cache       *cache.InsightsCache
	now         func() time.Time
}

// NewInsightsService creates a new insights service
func NewInsightsService(habitRepo repository.HabitRepository, checkinRepo repository.CheckinRepository, insightsCache *cache.InsightsCache) InsightsService {
	return &insightsService{
		habitRepo:   habitRepo,
		checkinRepo: checkinRepo,
		cache:       insightsCache,
		now:         time.Now,
	}
}

// EntriesFromCheckins maps stored check-in rows to the computation
// core's input shape.
func EntriesFromCheckins(checkins []models.Checkin) []models.CheckinEntry {
	entries := make([]models.CheckinEntry, 0, len(checkins))
	for _, c := range checkins {
		entries = append(entries, models.CheckinEntry{
			Count:     c.Count,
			LocalDate: c.LocalDate,
		})
	}
	return entries
}

func (s *insightsService) habitEntries(ctx context.Context, userID, habitID string) (*models.Habit, []models.CheckinEntry, error) {
	habit, err := s.habitRepo.GetByID(ctx, userID, habitID)
	if err != nil {
		return nil, nil, err
	}
	checkins, err := s.checkinRepo.GetByHabitID(ctx, userID, habitID)
	if err != nil {
		return nil, nil, err
	}
	return habit, EntriesFromCheckins(checkins), nil
}

func (s *insightsService) GetHabitStreak(ctx context.Context, userID, habitID string) (*models.HabitStreakResponse, error) {
	habit, entries, err := s.habitEntries(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	streak, err := ComputeStreak(habit.Cadence, habit.Target, habit.Timezone, entries, now, habit.GraceHour)
	if err != nil {
		return nil, err
	}
	periodCount, err := PeriodCount(habit.Cadence, habit.Timezone, entries, now, habit.GraceHour)
	if err != nil {
		return nil, err
	}

	return &models.HabitStreakResponse{
		HabitID:     habit.ID,
		Cadence:     habit.Cadence,
		Streak:      streak,
		PeriodCount: periodCount,
	}, nil
}

func (s *insightsService) GetAccountStreak(ctx context.Context, userID string) (*models.StreakResult, error) {
	habits, err := s.habitRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The account calendar is anchored on the first habit's timezone
	// and grace hour; stored rows carry resolved local dates, so the
	// anchor only decides where "today" falls.
	timezone := "UTC"
	graceHour := DefaultGraceHour
	if len(habits) > 0 {
		timezone = habits[0].Timezone
		graceHour = habits[0].GraceHour
	}

	allEntries := make([][]models.CheckinEntry, 0, len(habits))
	for _, habit := range habits {
		checkins, err := s.checkinRepo.GetByHabitID(ctx, userID, habit.ID)
		if err != nil {
			return nil, err
		}
		allEntries = append(allEntries, EntriesFromCheckins(checkins))
	}

	streak, err := ComputeAccountStreak(timezone, allEntries, s.now(), graceHour)
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func (s *insightsService) GetDayInsights(ctx context.Context, userID, habitID string) (*models.BestWorstDays, error) {
	key := cache.Key(userID, habitID, "days")
	var cached models.BestWorstDays
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	habit, entries, err := s.habitEntries(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	days, err := BestWorstDays(habit.Timezone, entries, habit.Target, habit.GraceHour)
	if err != nil {
		return nil, err
	}
	if days != nil {
		s.cache.Set(ctx, key, days)
	}
	return days, nil
}

func (s *insightsService) GetTrends(ctx context.Context, userID, habitID string) (*models.HabitTrends, error) {
	key := cache.Key(userID, habitID, "trends")
	var cached models.HabitTrends
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	habit, entries, err := s.habitEntries(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	trends, err := CalculateMonthlyYearlyTrends(habit.Timezone, entries, habit.Target, habit.GraceHour)
	if err != nil {
		return nil, err
	}
	if trends != nil {
		s.cache.Set(ctx, key, trends)
	}
	return trends, nil
}

func (s *insightsService) GetSurvival(ctx context.Context, userID, habitID string) (*models.SurvivalPrediction, error) {
	key := cache.Key(userID, habitID, "survival")
	var cached models.SurvivalPrediction
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	habit, entries, err := s.habitEntries(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	streak, err := ComputeStreak(habit.Cadence, habit.Target, habit.Timezone, entries, now, habit.GraceHour)
	if err != nil {
		return nil, err
	}
	history, err := ExtractHistoricalStreaks(habit.Timezone, entries, habit.Target, habit.GraceHour)
	if err != nil {
		return nil, err
	}
	recentRate, err := recentCompletionRate(habit, entries, now)
	if err != nil {
		return nil, err
	}

	days, err := BestWorstDays(habit.Timezone, entries, habit.Target, habit.GraceHour)
	if err != nil {
		return nil, err
	}
	today, err := parseLocalDate(ResolveLocalDate(habit.Timezone, now, habit.GraceHour))
	if err != nil {
		return nil, err
	}
	factor := DayOfWeekFactor(today.Weekday(), days)

	prediction := PredictStreakSurvival(streak.Current, history, recentRate, factor)
	s.cache.Set(ctx, key, &prediction)
	return &prediction, nil
}

// recentCompletionRate is the percentage of the trailing window's days
// whose summed count met the habit's target.
func recentCompletionRate(habit *models.Habit, entries []models.CheckinEntry, now time.Time) (float64, error) {
	totals, err := observedDayTotals(habit.Timezone, entries, habit.GraceHour)
	if err != nil {
		return 0, err
	}

	today, err := parseLocalDate(ResolveLocalDate(habit.Timezone, now, habit.GraceHour))
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := 0; i < survivalRateWindowDays; i++ {
		date := today.AddDate(0, 0, -i).Format(LocalDateLayout)
		if totals[date] >= habit.Target {
			completed++
		}
	}
	return float64(completed) / survivalRateWindowDays * 100, nil
}

func (s *insightsService) GetCorrelation(ctx context.Context, userID, habitAID, habitBID string) (*models.HabitCorrelation, error) {
	if habitAID == habitBID {
		return nil, errors.New("correlation requires two distinct habits")
	}

	key := cache.Key(userID, habitAID+":"+habitBID, "correlation")
	var cached models.HabitCorrelation
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	habitA, entriesA, err := s.habitEntries(ctx, userID, habitAID)
	if err != nil {
		return nil, err
	}
	habitB, entriesB, err := s.habitEntries(ctx, userID, habitBID)
	if err != nil {
		return nil, err
	}

	correlation, err := CalculateHabitCorrelation(habitA.Timezone, entriesA, habitA.GraceHour, habitB.Timezone, entriesB, habitB.GraceHour)
	if err != nil {
		return nil, err
	}
	if correlation != nil {
		s.cache.Set(ctx, key, correlation)
	}
	return correlation, nil
}

func (s *insightsService) GetRiskReport(ctx context.Context, userID string) (*models.StreakRiskReport, error) {
	habits, err := s.habitRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.buildSummaries(ctx, userID, habits)
	if err != nil {
		return nil, err
	}

	report := CheckStreakRisk(summaries)
	return &report, nil
}

// buildSummaries computes the per-habit current streak and today's
// count that the risk scan operates on.
func (s *insightsService) buildSummaries(ctx context.Context, userID string, habits []models.Habit) ([]models.HabitSummary, error) {
	now := s.now()
	summaries := make([]models.HabitSummary, 0, len(habits))
	for _, habit := range habits {
		checkins, err := s.checkinRepo.GetByHabitID(ctx, userID, habit.ID)
		if err != nil {
			return nil, fmt.Errorf("habit %s: %w", habit.ID, err)
		}
		entries := EntriesFromCheckins(checkins)

		streak, err := ComputeStreak(habit.Cadence, habit.Target, habit.Timezone, entries, now, habit.GraceHour)
		if err != nil {
			return nil, fmt.Errorf("habit %s: %w", habit.ID, err)
		}
		// Today's count, not the cadence period's: a weekly habit that
		// met its week can still be flagged for an unserved day.
		todayCount, err := PeriodCount(models.CadenceDaily, habit.Timezone, entries, now, habit.GraceHour)
		if err != nil {
			return nil, fmt.Errorf("habit %s: %w", habit.ID, err)
		}

		summaries = append(summaries, models.HabitSummary{
			HabitID:       habit.ID,
			Name:          habit.Name,
			CurrentStreak: streak.Current,
			TodayCount:    todayCount,
		})
	}
	return summaries, nil
}
