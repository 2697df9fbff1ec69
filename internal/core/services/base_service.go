package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/geocurrency/internal/core/batch"
	"github.com/SscSPs/geocurrency/internal/middleware"
)

// BaseService gives services the request-scoped logger.
type BaseService struct{}

// GetLogger returns the logger stored in ctx by the logging middleware, or
// the default logger outside a request.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	if logger := middleware.GetLoggerFromCtx(ctx); logger != nil {
		return logger
	}
	return slog.Default()
}

// LogError logs a failed operation with its cause.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	s.GetLogger(ctx).Error(msg, append([]any{slog.String("error", err.Error())}, keyvals...)...)
}

// LogWarn logs a failure the service recovered from.
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, append([]any{slog.String("error", err.Error())}, keyvals...)...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LogBatchFinished records the outcome of a finalized batch: how many items
// evaluated and how many ended in the errors list.
func (s *BaseService) LogBatchFinished(ctx context.Context, kind batch.Kind, id string, status string, evaluated, failed int) {
	level := slog.LevelInfo
	if failed > 0 {
		level = slog.LevelWarn
	}
	s.GetLogger(ctx).Log(ctx, level, "Batch finished",
		slog.String("batch_id", id),
		slog.String("kind", string(kind)),
		slog.String("status", status),
		slog.Int("evaluated", evaluated),
		slog.Int("failed", failed))
}
