package services

import (
	"context"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/batch"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/google/uuid"
)

// watchService implements the WatchSvc interface
type watchService struct {
	BaseService
	cache batch.Cache
}

// NewWatchService creates a service reporting batch progress
func NewWatchService(cache batch.Cache) portssvc.WatchSvc {
	return &watchService{cache: cache}
}

var _ portssvc.WatchSvc = (*watchService)(nil)

func (s *watchService) Watch(ctx context.Context, id string) (*domain.BatchStatus, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewValidationError("batch id must be a UUID")
	}
	h, err := batch.Peek(ctx, s.cache, id)
	if err != nil {
		return nil, err
	}
	return &domain.BatchStatus{ID: h.ID, Status: string(h.Status)}, nil
}
