package service

import (
	"context"
	"fmt"
	"time"

	"github.com/z3st/habits-api/internal/cache"
	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/internal/repository"
)

type checkinService struct {
	habitRepo   repository.HabitRepository
	checkinRepo repository.CheckinRepository
	cache       *cache.InsightsCache
}

// NewCheckinService creates a new check-in service
func NewCheckinService(habitRepo repository.HabitRepository, checkinRepo repository.CheckinRepository, insightsCache *cache.InsightsCache) CheckinService {
	return &checkinService{
		habitRepo:   habitRepo,
		checkinRepo: checkinRepo,
		cache:       insightsCache,
	}
}

func (s *checkinService) CreateCheckin(ctx context.Context, userID, habitID string, req *models.CreateCheckinRequest) (*models.Checkin, error) {
	habit, err := s.habitRepo.GetByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	// An omitted count means one unit done; an explicit zero is stored
	// as a zero-count observation so analytics can see the attempt.
	count := 1
	if req.Count != nil {
		count = *req.Count
	}
	if count < 0 {
		return nil, fmt.Errorf("count cannot be negative")
	}

	// Resolve the local date server-side when the client sent a raw
	// timestamp (or nothing at all, meaning "now").
	localDate := req.LocalDate
	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}
	if localDate == "" {
		localDate = ResolveLocalDate(habit.Timezone, occurredAt, habit.GraceHour)
	} else if _, err := parseLocalDate(localDate); err != nil {
		return nil, err
	}

	checkin := &models.Checkin{
		UserID:     userID,
		HabitID:    habitID,
		Count:      count,
		LocalDate:  localDate,
		OccurredAt: occurredAt,
	}

	created, err := s.checkinRepo.Create(ctx, checkin)
	if err != nil {
		return nil, err
	}

	// New data invalidates every cached insight for this user
	s.cache.InvalidateUser(ctx, userID)

	return created, nil
}

func (s *checkinService) GetHabitCheckins(ctx context.Context, userID, habitID, fromDate, toDate string) ([]models.Checkin, error) {
	if _, err := s.habitRepo.GetByID(ctx, userID, habitID); err != nil {
		return nil, err
	}

	if fromDate == "" && toDate == "" {
		return s.checkinRepo.GetByHabitID(ctx, userID, habitID)
	}

	if fromDate != "" {
		if _, err := parseLocalDate(fromDate); err != nil {
			return nil, err
		}
	}
	if toDate != "" {
		if _, err := parseLocalDate(toDate); err != nil {
			return nil, err
		}
	}

	return s.checkinRepo.GetByHabitIDAndDateRange(ctx, userID, habitID, fromDate, toDate)
}
