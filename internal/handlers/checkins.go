package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/z3st/habits-api/internal/apierror"
	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/internal/service"
)

type CheckinHandler struct {
	checkinService service.CheckinService
}

// NewCheckinHandler creates a new check-in handler
func NewCheckinHandler(checkinService service.CheckinService) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
	}
}

// CreateCheckin handles POST /api/v1/habits/:id/checkins
func (h *CheckinHandler) CreateCheckin(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	habitID := c.Param("id")

	var req models.CreateCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	if req.Count != nil && *req.Count < 0 {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "count", Message: "cannot be negative", Code: "invalid_count"},
		}))
		return
	}

	checkin, err := h.checkinService.CreateCheckin(c.Request.Context(), userID, habitID, &req)
	if err != nil {
		writeServiceError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusCreated, checkin)
}

// GetCheckins handles GET /api/v1/habits/:id/checkins
// Optional from/to query parameters bound the local-date range.
func (h *CheckinHandler) GetCheckins(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	habitID := c.Param("id")
	fromDate := c.Query("from")
	toDate := c.Query("to")

	checkins, err := h.checkinService.GetHabitCheckins(c.Request.Context(), userID, habitID, fromDate, toDate)
	if err != nil {
		writeServiceError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, checkins)
}
