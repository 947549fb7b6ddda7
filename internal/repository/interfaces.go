package repository

import (
	"context"
	"errors"

	"github.com/z3st/habits-api/internal/models"
)

// ErrNotFound is returned when a row does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("not found")

// HabitRepository defines the interface for habit data access
type HabitRepository interface {
	Create(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	GetByID(ctx context.Context, userID, habitID string) (*models.Habit, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Habit, error)
	Update(ctx context.Context, userID, habitID string, fields map[string]any) (*models.Habit, error)
	Delete(ctx context.Context, userID, habitID string) error
	// ListAll returns every habit across users; service-key only, used by
	// the periodic risk sweep.
	ListAll(ctx context.Context) ([]models.Habit, error)
}

// CheckinRepository defines the interface for check-in data access
type CheckinRepository interface {
	Create(ctx context.Context, checkin *models.Checkin) (*models.Checkin, error)
	GetByHabitID(ctx context.Context, userID, habitID string) ([]models.Checkin, error)
	GetByHabitIDAndDateRange(ctx context.Context, userID, habitID, fromDate, toDate string) ([]models.Checkin, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Checkin, error)
	DeleteByHabitID(ctx context.Context, userID, habitID string) error
}
