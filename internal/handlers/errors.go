package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
)

// statusFor maps an error chain to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNoChanges):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnsavedChanges), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrPrecondition):
		return http.StatusPreconditionFailed
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes the JSON error body for err. The message of an AppError in
// the chain wins; client errors echo the error text; anything else uses fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	message := fallback

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		message = appErr.Message
	case status < http.StatusInternalServerError:
		message = err.Error()
	case status == http.StatusBadGateway:
		message = fallback + ": " + err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, gin.H{"error": message})
}
