package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/internal/repository"
)

func newTestInsightsService(habitRepo *mockHabitRepository, checkinRepo *mockCheckinRepository) *insightsService {
	return &insightsService{
		habitRepo:   habitRepo,
		checkinRepo: checkinRepo,
		now:         func() time.Time { return testNow },
	}
}

func seedHabit(t *testing.T, repo *mockHabitRepository, userID string, cadence models.Cadence, target int) *models.Habit {
	t.Helper()
	habit, err := repo.Create(context.Background(), &models.Habit{
		UserID:    userID,
		Name:      "Habit",
		Cadence:   cadence,
		Target:    target,
		Timezone:  "UTC",
		GraceHour: DefaultGraceHour,
	})
	if err != nil {
		t.Fatalf("failed to seed habit: %v", err)
	}
	return habit
}

func seedCheckin(repo *mockCheckinRepository, userID, habitID, localDate string, count int) {
	repo.Create(context.Background(), &models.Checkin{
		UserID:    userID,
		HabitID:   habitID,
		Count:     count,
		LocalDate: localDate,
	})
}

func TestGetHabitStreak(t *testing.T) {
	habitRepo := newMockHabitRepository()
	checkinRepo := newMockCheckinRepository()
	svc := newTestInsightsService(habitRepo, checkinRepo)

	habit := seedHabit(t, habitRepo, "user-1", models.CadenceDaily, 1)
	seedCheckin(checkinRepo, "user-1", habit.ID, "2024-03-13", 1)
	seedCheckin(checkinRepo, "user-1", habit.ID, "2024-03-14", 2)

	resp, err := svc.GetHabitStreak(context.Background(), "user-1", habit.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Streak.Current != 2 || resp.Streak.Longest != 2 {
		t.Errorf("streak = %+v, want {Current:2 Longest:2}", resp.Streak)
	}
	if resp.PeriodCount != 2 {
		t.Errorf("PeriodCount = %d, want 2", resp.PeriodCount)
	}
	if resp.Cadence != models.CadenceDaily {
		t.Errorf("Cadence = %q, want daily", resp.Cadence)
	}

	// A different user cannot see the habit
	if _, err := svc.GetHabitStreak(context.Background(), "user-2", habit.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetAccountStreakSpansHabits(t *testing.T) {
	habitRepo := newMockHabitRepository()
	checkinRepo := newMockCheckinRepository()
	svc := newTestInsightsService(habitRepo, checkinRepo)

	reading := seedHabit(t, habitRepo, "user-1", models.CadenceDaily, 1)
	running := seedHabit(t, habitRepo, "user-1", models.CadenceWeekly, 3)

	// Alternating habits still form one continuous account calendar
	seedCheckin(checkinRepo, "user-1", reading.ID, "2024-03-14", 1)
	seedCheckin(checkinRepo, "user-1", running.ID, "2024-03-13", 1)
	seedCheckin(checkinRepo, "user-1", reading.ID, "2024-03-12", 1)

	streak, err := svc.GetAccountStreak(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak.Current != 3 || streak.Longest != 3 {
		t.Errorf("account streak = %+v, want {Current:3 Longest:3}", streak)
	}
}

func TestGetAccountStreakNoHabits(t *testing.T) {
	svc := newTestInsightsService(newMockHabitRepository(), newMockCheckinRepository())

	streak, err := svc.GetAccountStreak(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak.Current != 0 || streak.Longest != 0 {
		t.Errorf("account streak = %+v, want zero", streak)
	}
}

func TestGetRiskReport(t *testing.T) {
	habitRepo := newMockHabitRepository()
	checkinRepo := newMockCheckinRepository()
	svc := newTestInsightsService(habitRepo, checkinRepo)

	// Ten-day streak ending yesterday: live but unserved today
	longStreak := seedHabit(t, habitRepo, "user-1", models.CadenceDaily, 1)
	for day := 4; day <= 13; day++ {
		seedCheckin(checkinRepo, "user-1", longStreak.ID, time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC).Format(LocalDateLayout), 1)
	}

	// Short streak ending yesterday
	shortStreak := seedHabit(t, habitRepo, "user-1", models.CadenceDaily, 1)
	seedCheckin(checkinRepo, "user-1", shortStreak.ID, "2024-03-12", 1)
	seedCheckin(checkinRepo, "user-1", shortStreak.ID, "2024-03-13", 1)

	// Already served today: not at risk
	servedToday := seedHabit(t, habitRepo, "user-1", models.CadenceDaily, 1)
	seedCheckin(checkinRepo, "user-1", servedToday.ID, "2024-03-13", 1)
	seedCheckin(checkinRepo, "user-1", servedToday.ID, "2024-03-14", 1)

	report, err := svc.GetRiskReport(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.IsAtRisk {
		t.Fatal("expected account to be at risk")
	}
	if report.RiskCount != 2 {
		t.Errorf("RiskCount = %d, want 2", report.RiskCount)
	}
	if report.MostAtRiskHabit == nil || report.MostAtRiskHabit.HabitID != longStreak.ID {
		t.Errorf("MostAtRiskHabit = %+v, want habit %s", report.MostAtRiskHabit, longStreak.ID)
	}
	if report.MostAtRiskHabit.CurrentStreak != 10 {
		t.Errorf("CurrentStreak = %d, want 10", report.MostAtRiskHabit.CurrentStreak)
	}
}

func TestGetSurvivalSaturated(t *testing.T) {
	habitRepo := newMockHabitRepository()
	checkinRepo := newMockCheckinRepository()
	svc := newTestInsightsService(habitRepo, checkinRepo)

	habit := seedHabit(t, habitRepo, "user-1", models.CadenceDaily, 1)
	// 30 consecutive completed days ending today
	for i := 0; i < 30; i++ {
		date := testNow.AddDate(0, 0, -i).Format(LocalDateLayout)
		seedCheckin(checkinRepo, "user-1", habit.ID, date, 1)
	}

	prediction, err := svc.GetSurvival(context.Background(), "user-1", habit.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.Probability != 100 {
		t.Errorf("Probability = %v, want 100", prediction.Probability)
	}
	if prediction.Risk != models.RiskLow {
		t.Errorf("Risk = %q, want low", prediction.Risk)
	}
	if prediction.Confidence <= 0 {
		t.Errorf("Confidence = %v, want > 0", prediction.Confidence)
	}
}

func TestGetCorrelationValidation(t *testing.T) {
	habitRepo := newMockHabitRepository()
	checkinRepo := newMockCheckinRepository()
	svc := newTestInsightsService(habitRepo, checkinRepo)

	a := seedHabit(t, habitRepo, "user-1", models.CadenceDaily, 1)
	b := seedHabit(t, habitRepo, "user-1", models.CadenceDaily, 1)
	other := seedHabit(t, habitRepo, "user-2", models.CadenceDaily, 1)

	if _, err := svc.GetCorrelation(context.Background(), "user-1", a.ID, a.ID); err == nil {
		t.Error("expected error for identical habits")
	}
	if _, err := svc.GetCorrelation(context.Background(), "user-1", a.ID, other.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for another user's habit", err)
	}

	// Two habits completed together every day for two weeks
	for i := 0; i < 14; i++ {
		date := testNow.AddDate(0, 0, -i).Format(LocalDateLayout)
		seedCheckin(checkinRepo, "user-1", a.ID, date, 1)
		seedCheckin(checkinRepo, "user-1", b.ID, date, 1)
	}

	correlation, err := svc.GetCorrelation(context.Background(), "user-1", a.ID, b.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if correlation == nil {
		t.Fatal("expected a correlation result")
	}
	if correlation.SampleSize != 14 {
		t.Errorf("SampleSize = %d, want 14", correlation.SampleSize)
	}
}
