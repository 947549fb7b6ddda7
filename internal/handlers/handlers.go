// Package handlers contains the gin HTTP handlers. Handlers validate
// input, delegate to the service layer, and translate errors into
// RFC 9457 problem responses.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/z3st/habits-api/internal/apierror"
	"github.com/z3st/habits-api/internal/logger"
	"github.com/z3st/habits-api/internal/repository"
	"github.com/z3st/habits-api/internal/service"
)

// requireUserID pulls the authenticated user from the gin context,
// writing a 401 problem when the auth middleware did not run.
func requireUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return "", false
	}
	return id, true
}

// writeServiceError maps service/repository errors onto problem
// responses. resource and id describe the target for 404 detail text.
func writeServiceError(c *gin.Context, err error, resource, id string) {
	requestID := apierror.GetRequestID(c)

	switch {
	case errors.Is(err, repository.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, id))
	case errors.Is(err, service.ErrInvalidLocalDate):
		apierror.WriteProblem(c, apierror.NewInvalidLocalDateError(requestID, "local_date", ""))
	default:
		logger.Ctx(c.Request.Context()).Error("request failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
