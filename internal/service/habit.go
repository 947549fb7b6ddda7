package service

import (
	"context"
	"fmt"
	"time"

	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/internal/repository"
)

type habitService struct {
	habitRepo   repository.HabitRepository
	checkinRepo repository.CheckinRepository
}

// NewHabitService creates a new habit service
func NewHabitService(habitRepo repository.HabitRepository, checkinRepo repository.CheckinRepository) HabitService {
	return &habitService{
		habitRepo:   habitRepo,
		checkinRepo: checkinRepo,
	}
}

func (s *habitService) CreateHabit(ctx context.Context, userID string, req *models.CreateHabitRequest) (*models.Habit, error) {
	if !req.Cadence.Valid() {
		return nil, fmt.Errorf("cadence must be %q or %q", models.CadenceDaily, models.CadenceWeekly)
	}
	if req.Target < 1 {
		return nil, fmt.Errorf("target must be at least 1")
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, fmt.Errorf("unknown timezone %q", req.Timezone)
	}

	graceHour := DefaultGraceHour
	if req.GraceHour != nil {
		if *req.GraceHour < 0 || *req.GraceHour > 23 {
			return nil, fmt.Errorf("grace hour must be between 0 and 23")
		}
		graceHour = *req.GraceHour
	}

	habit := &models.Habit{
		UserID:    userID,
		Name:      req.Name,
		Emoji:     req.Emoji,
		Color:     req.Color,
		Cadence:   req.Cadence,
		Target:    req.Target,
		Timezone:  req.Timezone,
		GraceHour: graceHour,
		IsPublic:  req.IsPublic,
	}

	return s.habitRepo.Create(ctx, habit)
}

func (s *habitService) GetHabit(ctx context.Context, userID, habitID string) (*models.Habit, error) {
	return s.habitRepo.GetByID(ctx, userID, habitID)
}

func (s *habitService) GetUserHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	return s.habitRepo.GetByUserID(ctx, userID)
}

func (s *habitService) UpdateHabit(ctx context.Context, userID, habitID string, req *models.UpdateHabitRequest) (*models.Habit, error) {
	// Verify the habit exists and belongs to the user before updating
	if _, err := s.habitRepo.GetByID(ctx, userID, habitID); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Emoji != nil {
		fields["emoji"] = *req.Emoji
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	if req.Cadence != nil {
		if !req.Cadence.Valid() {
			return nil, fmt.Errorf("cadence must be %q or %q", models.CadenceDaily, models.CadenceWeekly)
		}
		fields["cadence"] = *req.Cadence
	}
	if req.Target != nil {
		if *req.Target < 1 {
			return nil, fmt.Errorf("target must be at least 1")
		}
		fields["target"] = *req.Target
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, fmt.Errorf("unknown timezone %q", *req.Timezone)
		}
		fields["timezone"] = *req.Timezone
	}
	if req.GraceHour != nil {
		if *req.GraceHour < 0 || *req.GraceHour > 23 {
			return nil, fmt.Errorf("grace hour must be between 0 and 23")
		}
		fields["grace_hour"] = *req.GraceHour
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
	}

	if len(fields) == 0 {
		return s.habitRepo.GetByID(ctx, userID, habitID)
	}
	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	return s.habitRepo.Update(ctx, userID, habitID, fields)
}

func (s *habitService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	if _, err := s.habitRepo.GetByID(ctx, userID, habitID); err != nil {
		return err
	}

	// Remove the habit's check-ins first so no orphaned rows remain
	if err := s.checkinRepo.DeleteByHabitID(ctx, userID, habitID); err != nil {
		return fmt.Errorf("failed to delete check-ins: %w", err)
	}

	return s.habitRepo.Delete(ctx, userID, habitID)
}
