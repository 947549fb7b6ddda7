package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/pkg/supabase"
)

type checkinRepository struct {
	client *supabase.Client
}

// NewCheckinRepository creates a new check-in repository
func NewCheckinRepository(client *supabase.Client) CheckinRepository {
	return &checkinRepository{client: client}
}

func (r *checkinRepository) Create(ctx context.Context, checkin *models.Checkin) (*models.Checkin, error) {
	data := map[string]any{
		"user_id":     checkin.UserID,
		"habit_id":    checkin.HabitID,
		"count":       checkin.Count,
		"local_date":  checkin.LocalDate,
		"occurred_at": checkin.OccurredAt,
	}

	body, err := r.client.Insert(ctx, "checkins", data, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create checkin: %w", err)
	}

	var checkins []models.Checkin
	if err := json.Unmarshal(body, &checkins); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(checkins) == 0 {
		return nil, fmt.Errorf("no checkin returned")
	}
	return &checkins[0], nil
}

func (r *checkinRepository) GetByHabitID(ctx context.Context, userID, habitID string) ([]models.Checkin, error) {
	filters := supabase.Filters{
		"user_id":  "eq." + userID,
		"habit_id": "eq." + habitID,
		"select":   "*",
		"order":    "local_date.asc",
	}
	return r.query(ctx, filters)
}

func (r *checkinRepository) GetByHabitIDAndDateRange(ctx context.Context, userID, habitID, fromDate, toDate string) ([]models.Checkin, error) {
	filters := supabase.Filters{
		"user_id":  "eq." + userID,
		"habit_id": "eq." + habitID,
		"select":   "*",
		"order":    "local_date.asc",
	}
	switch {
	case fromDate != "" && toDate != "":
		// PostgREST allows one operator per key; combine via and=()
		filters["and"] = fmt.Sprintf("(local_date.gte.%s,local_date.lte.%s)", fromDate, toDate)
	case fromDate != "":
		filters["local_date"] = "gte." + fromDate
	case toDate != "":
		filters["local_date"] = "lte." + toDate
	}
	return r.query(ctx, filters)
}

func (r *checkinRepository) GetByUserID(ctx context.Context, userID string) ([]models.Checkin, error) {
	filters := supabase.Filters{
		"user_id": "eq." + userID,
		"select":  "*",
		"order":   "local_date.asc",
	}
	return r.query(ctx, filters)
}

func (r *checkinRepository) DeleteByHabitID(ctx context.Context, userID, habitID string) error {
	filters := supabase.Filters{
		"user_id":  "eq." + userID,
		"habit_id": "eq." + habitID,
	}
	if err := r.client.DeleteWhere(ctx, "checkins", filters, ""); err != nil {
		return fmt.Errorf("failed to delete checkins: %w", err)
	}
	return nil
}

func (r *checkinRepository) query(ctx context.Context, filters supabase.Filters) ([]models.Checkin, error) {
	body, err := r.client.Query(ctx, "checkins", filters, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get checkins: %w", err)
	}

	var checkins []models.Checkin
	if err := json.Unmarshal(body, &checkins); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return checkins, nil
}
