package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/pkg/supabase"
)

type habitRepository struct {
	client *supabase.Client
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(client *supabase.Client) HabitRepository {
	return &habitRepository{client: client}
}

func (r *habitRepository) Create(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	data := map[string]any{
		"user_id":    habit.UserID,
		"name":       habit.Name,
		"emoji":      habit.Emoji,
		"color":      habit.Color,
		"cadence":    habit.Cadence,
		"target":     habit.Target,
		"timezone":   habit.Timezone,
		"grace_hour": habit.GraceHour,
		"is_public":  habit.IsPublic,
	}
	if habit.ID != "" {
		data["id"] = habit.ID
	}

	body, err := r.client.Insert(ctx, "habits", data, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	return firstHabit(body)
}

func (r *habitRepository) GetByID(ctx context.Context, userID, habitID string) (*models.Habit, error) {
	filters := supabase.Filters{
		"id":      "eq." + habitID,
		"user_id": "eq." + userID,
		"select":  "*",
	}

	body, err := r.client.Query(ctx, "habits", filters, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	var habits []models.Habit
	if err := json.Unmarshal(body, &habits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(habits) == 0 {
		return nil, ErrNotFound
	}
	return &habits[0], nil
}

func (r *habitRepository) GetByUserID(ctx context.Context, userID string) ([]models.Habit, error) {
	filters := supabase.Filters{
		"user_id": "eq." + userID,
		"select":  "*",
		"order":   "created_at.asc",
	}

	body, err := r.client.Query(ctx, "habits", filters, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}

	var habits []models.Habit
	if err := json.Unmarshal(body, &habits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return habits, nil
}

func (r *habitRepository) Update(ctx context.Context, userID, habitID string, fields map[string]any) (*models.Habit, error) {
	filters := supabase.Filters{
		"id":      "eq." + habitID,
		"user_id": "eq." + userID,
	}

	body, err := r.client.UpdateWhere(ctx, "habits", filters, fields, "")
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return firstHabit(body)
}

func (r *habitRepository) Delete(ctx context.Context, userID, habitID string) error {
	filters := supabase.Filters{
		"id":      "eq." + habitID,
		"user_id": "eq." + userID,
	}

	if err := r.client.DeleteWhere(ctx, "habits", filters, ""); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

func (r *habitRepository) ListAll(ctx context.Context) ([]models.Habit, error) {
	filters := supabase.Filters{
		"select": "*",
		"order":  "user_id.asc",
	}

	body, err := r.client.Query(ctx, "habits", filters, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	var habits []models.Habit
	if err := json.Unmarshal(body, &habits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return habits, nil
}

func firstHabit(body []byte) (*models.Habit, error) {
	var habits []models.Habit
	if err := json.Unmarshal(body, &habits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(habits) == 0 {
		return nil, ErrNotFound
	}
	return &habits[0], nil
}
