package models

import "time"

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Cadence is the target period of a habit: one day or one ISO week.
type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
)

// Valid reports whether the cadence is one of the supported values.
func (c Cadence) Valid() bool {
	return c == CadenceDaily || c == CadenceWeekly
}

// Habit represents a tracked habit
type Habit struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Color     string    `json:"color"`
	Cadence   Cadence   `json:"cadence"`
	Target    int       `json:"target"`
	Timezone  string    `json:"timezone"`
	GraceHour int       `json:"grace_hour"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Checkin represents a stored check-in row
type Checkin struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	HabitID    string    `json:"habit_id"`
	Count      int       `json:"count"`
	LocalDate  string    `json:"local_date"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// CheckinEntry is the shape the computation core consumes. Exactly one of
// LocalDate/OccurredAt is authoritative; when LocalDate is empty the entry's
// date is resolved from OccurredAt via the habit's timezone and grace hour.
type CheckinEntry struct {
	Count      int        `json:"count"`
	LocalDate  string     `json:"local_date,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// CreateHabitRequest represents the request to create a habit
type CreateHabitRequest struct {
	Name      string  `json:"name" binding:"required"`
	Emoji     string  `json:"emoji"`
	Color     string  `json:"color"`
	Cadence   Cadence `json:"cadence" binding:"required"`
	Target    int     `json:"target" binding:"required"`
	Timezone  string  `json:"timezone" binding:"required"`
	GraceHour *int    `json:"grace_hour"`
	IsPublic  bool    `json:"is_public"`
}

// UpdateHabitRequest represents the request to update a habit
type UpdateHabitRequest struct {
	Name      *string  `json:"name"`
	Emoji     *string  `json:"emoji"`
	Color     *string  `json:"color"`
	Cadence   *Cadence `json:"cadence"`
	Target    *int     `json:"target"`
	Timezone  *string  `json:"timezone"`
	GraceHour *int     `json:"grace_hour"`
	IsPublic  *bool    `json:"is_public"`
}

// CreateCheckinRequest represents the request to record a check-in.
// LocalDate takes precedence when both fields are supplied. Count is a
// pointer so an explicit zero ("attempted, not done") is distinguishable
// from an omitted count, which defaults to one unit done.
type CreateCheckinRequest struct {
	Count      *int       `json:"count"`
	LocalDate  string     `json:"local_date"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents the signup request
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}
