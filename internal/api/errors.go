package api

import (
	"errors"
	"net/http"
	"time"

	"fittrack/internal/service"
	"fittrack/pkg/auth"
	"fittrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidSignature),
		errors.Is(err, service.ErrUnknownPlan):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRewardAccountNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrMealNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrTelegramIDTaken),
		errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError answers with the status for err. Client errors carry their
// message; server errors are logged and answered generically.
func respondError(c *gin.Context, err error, msg string) {
	status := errorStatus(err)

	switch status {
	case http.StatusInternalServerError:
		logger.Logger().Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
	case http.StatusBadGateway:
		logger.Logger().Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "payment provider unavailable"})
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

func currentUserID(c *gin.Context) (int64, bool) {
	id, ok := auth.UserID(c)
	if !ok {
		logger.Logger().Error("user id not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return id, true
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, *s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, errors.New("date must be YYYY-MM-DD or RFC 3339")
	}
	return &t, nil
}
