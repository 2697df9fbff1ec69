package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusFor maps an error of the apperrors taxonomy to an HTTP status.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrRatesUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &appErr) && appErr.Code >= http.StatusBadRequest:
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondError writes the error body matching err. Server errors are logged
// with their cause and answered with the generic message only.
func respondError(c *gin.Context, err error, message string) {
	logger := middleware.GetLoggerFromContext(c)
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error(message, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": message})
		return
	}

	logger.Warn(message, slog.String("error", err.Error()), slog.Int("status", status))
	body := gin.H{"error": err.Error()}
	var fields apperrors.FieldErrors
	if errors.As(err, &fields) {
		body["error"] = apperrors.ErrValidation.Error()
		body["fields"] = fields
	}
	c.JSON(status, body)
}

// respondBindError answers a request whose body or query failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Failed to bind request", slog.String("error", err.Error()))
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	fields := apperrors.FieldErrors{}
	for _, fe := range verrs {
		fields.Add(fieldPath(fe), validationMessage(fe))
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrValidation.Error(), "fields": fields})
}
