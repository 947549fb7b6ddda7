package service

import (
	"context"

	"github.com/z3st/habits-api/internal/models"
)

// HabitService defines the interface for habit business logic
type HabitService interface {
	CreateHabit(ctx context.Context, userID string, req *models.CreateHabitRequest) (*models.Habit, error)
	GetHabit(ctx context.Context, userID, habitID string) (*models.Habit, error)
	GetUserHabits(ctx context.Context, userID string) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, userID, habitID string, req *models.UpdateHabitRequest) (*models.Habit, error)
	DeleteHabit(ctx context.Context, userID, habitID string) error
}

// CheckinService defines the interface for check-in business logic
type CheckinService interface {
	CreateCheckin(ctx context.Context, userID, habitID string, req *models.CreateCheckinRequest) (*models.Checkin, error)
	GetHabitCheckins(ctx context.Context, userID, habitID, fromDate, toDate string) ([]models.Checkin, error)
}

// InsightsService defines the interface for streak and analytics computations
type InsightsService interface {
	GetHabitStreak(ctx context.Context, userID, habitID string) (*models.HabitStreakResponse, error)
	GetAccountStreak(ctx context.Context, userID string) (*models.StreakResult, error)
	GetDayInsights(ctx context.Context, userID, habitID string) (*models.BestWorstDays, error)
	GetTrends(ctx context.Context, userID, habitID string) (*models.HabitTrends, error)
	GetSurvival(ctx context.Context, userID, habitID string) (*models.SurvivalPrediction, error)
	GetCorrelation(ctx context.Context, userID, habitAID, habitBID string) (*models.HabitCorrelation, error)
	GetRiskReport(ctx context.Context, userID string) (*models.StreakRiskReport, error)
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
}
