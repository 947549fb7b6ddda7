package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/z3st/habits-api/internal/apierror"
	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/internal/service"
)

type HabitHandler struct {
	habitService service.HabitService
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(habitService service.HabitService) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
	}
}

// validateHabitFields aggregates field-level validation errors so the
// client sees every problem at once.
func validateHabitFields(name *string, cadence *models.Cadence, target *int, timezone *string, graceHour *int) []apierror.FieldError {
	var fieldErrors []apierror.FieldError

	if name != nil && *name == "" {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "name", Message: "is required", Code: "required",
		})
	}
	if cadence != nil && !cadence.Valid() {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "cadence", Message: "must be daily or weekly", Code: "invalid_cadence",
		})
	}
	if target != nil && *target < 1 {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "target", Message: "must be at least 1", Code: "invalid_target",
		})
	}
	if timezone != nil {
		if _, err := time.LoadLocation(*timezone); err != nil {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field: "timezone", Message: "must be a valid IANA timezone", Code: "invalid_timezone",
			})
		}
	}
	if graceHour != nil && (*graceHour < 0 || *graceHour > 23) {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "grace_hour", Message: "must be between 0 and 23", Code: "invalid_grace_hour",
		})
	}

	return fieldErrors
}

// CreateHabit handles POST /api/v1/habits
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	fieldErrors := validateHabitFields(&req.Name, &req.Cadence, &req.Target, &req.Timezone, req.GraceHour)
	if len(fieldErrors) > 0 {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	habit, err := h.habitService.CreateHabit(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "Habit", "")
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// GetHabits handles GET /api/v1/habits
func (h *HabitHandler) GetHabits(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habits, err := h.habitService.GetUserHabits(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Habit", "")
		return
	}

	c.JSON(http.StatusOK, habits)
}

// GetHabit handles GET /api/v1/habits/:id
func (h *HabitHandler) GetHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	habitID := c.Param("id")

	habit, err := h.habitService.GetHabit(c.Request.Context(), userID, habitID)
	if err != nil {
		writeServiceError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// UpdateHabit handles PUT /api/v1/habits/:id
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	habitID := c.Param("id")

	var req models.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	fieldErrors := validateHabitFields(req.Name, req.Cadence, req.Target, req.Timezone, req.GraceHour)
	if len(fieldErrors) > 0 {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	habit, err := h.habitService.UpdateHabit(c.Request.Context(), userID, habitID, &req)
	if err != nil {
		writeServiceError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// DeleteHabit handles DELETE /api/v1/habits/:id
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	habitID := c.Param("id")

	if err := h.habitService.DeleteHabit(c.Request.Context(), userID, habitID); err != nil {
		writeServiceError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "habit deleted"})
}
