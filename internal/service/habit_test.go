package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/internal/repository"
)

// mockHabitRepository is a mock implementation of HabitRepository for testing
type mockHabitRepository struct {
	habits      map[string]*models.Habit // id -> habit
	nextID      int
	createCalls int
}

func newMockHabitRepository() *mockHabitRepository {
	return &mockHabitRepository{
		habits: make(map[string]*models.Habit),
	}
}

func (m *mockHabitRepository) Create(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	m.createCalls++
	if habit.ID == "" {
		m.nextID++
		habit.ID = fmt.Sprintf("habit-%d", m.nextID)
	}
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = time.Now()
	m.habits[habit.ID] = habit
	return habit, nil
}

func (m *mockHabitRepository) GetByID(ctx context.Context, userID, habitID string) (*models.Habit, error) {
	if habit, ok := m.habits[habitID]; ok && habit.UserID == userID {
		return habit, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockHabitRepository) GetByUserID(ctx context.Context, userID string) ([]models.Habit, error) {
	var result []models.Habit
	for _, habit := range m.habits {
		if habit.UserID == userID {
			result = append(result, *habit)
		}
	}
	return result, nil
}

func (m *mockHabitRepository) Update(ctx context.Context, userID, habitID string, fields map[string]any) (*models.Habit, error) {
	habit, ok := m.habits[habitID]
	if !ok || habit.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if name, ok := fields["name"].(string); ok {
		habit.Name = name
	}
	if cadence, ok := fields["cadence"].(models.Cadence); ok {
		habit.Cadence = cadence
	}
	if target, ok := fields["target"].(int); ok {
		habit.Target = target
	}
	if timezone, ok := fields["timezone"].(string); ok {
		habit.Timezone = timezone
	}
	if graceHour, ok := fields["grace_hour"].(int); ok {
		habit.GraceHour = graceHour
	}
	habit.UpdatedAt = time.Now()
	return habit, nil
}

func (m *mockHabitRepository) Delete(ctx context.Context, userID, habitID string) error {
	habit, ok := m.habits[habitID]
	if !ok || habit.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.habits, habitID)
	return nil
}

func (m *mockHabitRepository) ListAll(ctx context.Context) ([]models.Habit, error) {
	var result []models.Habit
	for _, habit := range m.habits {
		result = append(result, *habit)
	}
	return result, nil
}

// mockCheckinRepository is a mock implementation of CheckinRepository for testing
type mockCheckinRepository struct {
	checkins []models.Checkin
	nextID   int
}

func newMockCheckinRepository() *mockCheckinRepository {
	return &mockCheckinRepository{}
}

func (m *mockCheckinRepository) Create(ctx context.Context, checkin *models.Checkin) (*models.Checkin, error) {
	m.nextID++
	checkin.ID = fmt.Sprintf("checkin-%d", m.nextID)
	checkin.CreatedAt = time.Now()
	m.checkins = append(m.checkins, *checkin)
	return checkin, nil
}

func (m *mockCheckinRepository) GetByHabitID(ctx context.Context, userID, habitID string) ([]models.Checkin, error) {
	var result []models.Checkin
	for _, c := range m.checkins {
		if c.UserID == userID && c.HabitID == habitID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCheckinRepository) GetByHabitIDAndDateRange(ctx context.Context, userID, habitID, fromDate, toDate string) ([]models.Checkin, error) {
	var result []models.Checkin
	for _, c := range m.checkins {
		if c.UserID != userID || c.HabitID != habitID {
			continue
		}
		if fromDate != "" && c.LocalDate < fromDate {
			continue
		}
		if toDate != "" && c.LocalDate > toDate {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (m *mockCheckinRepository) GetByUserID(ctx context.Context, userID string) ([]models.Checkin, error) {
	var result []models.Checkin
	for _, c := range m.checkins {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCheckinRepository) DeleteByHabitID(ctx context.Context, userID, habitID string) error {
	var kept []models.Checkin
	for _, c := range m.checkins {
		if c.UserID == userID && c.HabitID == habitID {
			continue
		}
		kept = append(kept, c)
	}
	m.checkins = kept
	return nil
}

func TestCreateHabitValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateHabitRequest
		wantErr bool
	}{
		{
			name: "valid daily habit",
			req: models.CreateHabitRequest{
				Name:     "Read",
				Cadence:  models.CadenceDaily,
				Target:   1,
				Timezone: "America/New_York",
			},
			wantErr: false,
		},
		{
			name: "valid weekly habit",
			req: models.CreateHabitRequest{
				Name:     "Long run",
				Cadence:  models.CadenceWeekly,
				Target:   3,
				Timezone: "UTC",
			},
			wantErr: false,
		},
		{
			name: "invalid cadence",
			req: models.CreateHabitRequest{
				Name:     "Read",
				Cadence:  "fortnightly",
				Target:   1,
				Timezone: "UTC",
			},
			wantErr: true,
		},
		{
			name: "zero target",
			req: models.CreateHabitRequest{
				Name:     "Read",
				Cadence:  models.CadenceDaily,
				Target:   0,
				Timezone: "UTC",
			},
			wantErr: true,
		},
		{
			name: "unknown timezone",
			req: models.CreateHabitRequest{
				Name:     "Read",
				Cadence:  models.CadenceDaily,
				Target:   1,
				Timezone: "Mars/Olympus_Mons",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHabitService(newMockHabitRepository(), newMockCheckinRepository())
			habit, err := svc.CreateHabit(context.Background(), "user-1", &tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if habit.UserID != "user-1" {
				t.Errorf("UserID = %q, want %q", habit.UserID, "user-1")
			}
		})
	}
}

func TestCreateHabitDefaultsGraceHour(t *testing.T) {
	svc := NewHabitService(newMockHabitRepository(), newMockCheckinRepository())

	habit, err := svc.CreateHabit(context.Background(), "user-1", &models.CreateHabitRequest{
		Name:     "Read",
		Cadence:  models.CadenceDaily,
		Target:   1,
		Timezone: "UTC",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if habit.GraceHour != DefaultGraceHour {
		t.Errorf("GraceHour = %d, want %d", habit.GraceHour, DefaultGraceHour)
	}

	custom := 5
	habit, err = svc.CreateHabit(context.Background(), "user-1", &models.CreateHabitRequest{
		Name:      "Write",
		Cadence:   models.CadenceDaily,
		Target:    1,
		Timezone:  "UTC",
		GraceHour: &custom,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if habit.GraceHour != 5 {
		t.Errorf("GraceHour = %d, want 5", habit.GraceHour)
	}
}

func TestUpdateHabitOwnership(t *testing.T) {
	habitRepo := newMockHabitRepository()
	svc := NewHabitService(habitRepo, newMockCheckinRepository())

	habit, err := svc.CreateHabit(context.Background(), "user-1", &models.CreateHabitRequest{
		Name:     "Read",
		Cadence:  models.CadenceDaily,
		Target:   1,
		Timezone: "UTC",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newName := "Read more"
	_, err = svc.UpdateHabit(context.Background(), "user-2", habit.ID, &models.UpdateHabitRequest{Name: &newName})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("update by other user: err = %v, want ErrNotFound", err)
	}

	updated, err := svc.UpdateHabit(context.Background(), "user-1", habit.ID, &models.UpdateHabitRequest{Name: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Read more" {
		t.Errorf("Name = %q, want %q", updated.Name, "Read more")
	}
}

func TestUpdateHabitRejectsInvalidFields(t *testing.T) {
	habitRepo := newMockHabitRepository()
	svc := NewHabitService(habitRepo, newMockCheckinRepository())

	habit, _ := svc.CreateHabit(context.Background(), "user-1", &models.CreateHabitRequest{
		Name:     "Read",
		Cadence:  models.CadenceDaily,
		Target:   1,
		Timezone: "UTC",
	})

	badCadence := models.Cadence("hourly")
	if _, err := svc.UpdateHabit(context.Background(), "user-1", habit.ID, &models.UpdateHabitRequest{Cadence: &badCadence}); err == nil {
		t.Error("expected error for invalid cadence")
	}

	badTarget := -1
	if _, err := svc.UpdateHabit(context.Background(), "user-1", habit.ID, &models.UpdateHabitRequest{Target: &badTarget}); err == nil {
		t.Error("expected error for invalid target")
	}

	badGrace := 24
	if _, err := svc.UpdateHabit(context.Background(), "user-1", habit.ID, &models.UpdateHabitRequest{GraceHour: &badGrace}); err == nil {
		t.Error("expected error for invalid grace hour")
	}
}

func TestDeleteHabitCascadesCheckins(t *testing.T) {
	habitRepo := newMockHabitRepository()
	checkinRepo := newMockCheckinRepository()
	svc := NewHabitService(habitRepo, checkinRepo)

	habit, _ := svc.CreateHabit(context.Background(), "user-1", &models.CreateHabitRequest{
		Name:     "Read",
		Cadence:  models.CadenceDaily,
		Target:   1,
		Timezone: "UTC",
	})

	checkinRepo.Create(context.Background(), &models.Checkin{
		UserID: "user-1", HabitID: habit.ID, Count: 1, LocalDate: "2024-03-14",
	})

	if err := svc.DeleteHabit(context.Background(), "user-1", habit.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	remaining, _ := checkinRepo.GetByHabitID(context.Background(), "user-1", habit.ID)
	if len(remaining) != 0 {
		t.Errorf("expected check-ins to be deleted, found %d", len(remaining))
	}
	if _, err := svc.GetHabit(context.Background(), "user-1", habit.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("habit still accessible after delete: err = %v", err)
	}
}
