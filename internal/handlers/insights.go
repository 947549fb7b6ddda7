package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/z3st/habits-api/internal/apierror"
	"github.com/z3st/habits-api/internal/service"
)

// reasonInsufficientData marks analytics responses that could not be
// computed because the habit has too little history.
const reasonInsufficientData = "insufficient_data"

type InsightsHandler struct {
	insightsService service.InsightsService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightsService service.InsightsService) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
	}
}

// GetHabitStreak handles GET /api/v1/habits/:id/streak
func (h *InsightsHandler) GetHabitStreak(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	habitID := c.Param("id")

	resp, err := h.insightsService.GetHabitStreak(c.Request.Context(), userID, habitID)
	if err != nil {
		writeServiceError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAccountStreak handles GET /api/v1/account/streak
func (h *InsightsHandler) GetAccountStreak(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	streak, err := h.insightsService.GetAccountStreak(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Account", userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"streak": streak})
}

// GetDayInsights handles GET /api/v1/habits/:id/insights/days
func (h *InsightsHandler) GetDayInsights(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	habitID := c.Param("id")

	days, err := h.insightsService.GetDayInsights(c.Request.Context(), userID, habitID)
	if err != nil {
		writeServiceError(c, err, "Habit", habitID)
		return
	}

	if days == nil {
		c.JSON(http.StatusOK, gin.H{"habit_id": habitID, "days": nil, "reason": reasonInsufficientData})
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit_id": habitID, "days": days})
}

// GetTrends handles GET /api/v1/habits/:id/insights/trends
func (h *InsightsHandler) GetTrends(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	habitID := c.Param("id")

	trends, err := h.insightsService.GetTrends(c.Request.Context(), userID, habitID)
	if err != nil {
		writeServiceError(c, err, "Habit", habitID)
		return
	}

	if trends == nil {
		c.JSON(http.StatusOK, gin.H{"habit_id": habitID, "trends": nil, "reason": reasonInsufficientData})
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit_id": habitID, "trends": trends})
}

// GetSurvival handles GET /api/v1/habits/:id/insights/survival
func (h *InsightsHandler) GetSurvival(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	habitID := c.Param("id")

	prediction, err := h.insightsService.GetSurvival(c.Request.Context(), userID, habitID)
	if err != nil {
		writeServiceError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit_id": habitID, "survival": prediction})
}

// GetCorrelation handles GET /api/v1/insights/correlation?habit_a=&habit_b=
func (h *InsightsHandler) GetCorrelation(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habitA := c.Query("habit_a")
	habitB := c.Query("habit_b")

	var fieldErrors []apierror.FieldError
	if habitA == "" {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "habit_a", Message: "is required", Code: "required",
		})
	}
	if habitB == "" {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "habit_b", Message: "is required", Code: "required",
		})
	}
	if habitA != "" && habitA == habitB {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "habit_b", Message: "must differ from habit_a", Code: "same_habit",
		})
	}
	if len(fieldErrors) > 0 {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	correlation, err := h.insightsService.GetCorrelation(c.Request.Context(), userID, habitA, habitB)
	if err != nil {
		writeServiceError(c, err, "Habit", habitA)
		return
	}

	if correlation == nil {
		c.JSON(http.StatusOK, gin.H{"correlation": nil, "reason": reasonInsufficientData})
		return
	}
	c.JSON(http.StatusOK, gin.H{"correlation": correlation})
}

// GetRiskReport handles GET /api/v1/account/risk
func (h *InsightsHandler) GetRiskReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	report, err := h.insightsService.GetRiskReport(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Account", userID)
		return
	}

	c.JSON(http.StatusOK, report)
}
