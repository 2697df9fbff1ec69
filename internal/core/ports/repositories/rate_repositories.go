package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/geocurrency/internal/core/domain"
)

// RateReader defines read operations for rate data
type RateReader interface {
	// GetRate returns the rate of exactly this scope, pair and date.
	GetRate(ctx context.Context, scope domain.RateScope, currency, baseCurrency string, date time.Time) (*domain.Rate, error)

	// GetRateByID retrieves one rate.
	GetRateByID(ctx context.Context, id string) (*domain.Rate, error)

	// ScanRates lists rates matching a filter, one page at a time.
	ScanRates(ctx context.Context, filter domain.RateFilter) (*domain.RatePage, error)

	// LatestRates returns, per counterpart, the visible row with the greatest value date.
	LatestRates(ctx context.Context, filter domain.LatestFilter) ([]domain.Rate, error)

	// ListRatesAtDate returns every rate visible to scope at date.
	ListRatesAtDate(ctx context.Context, scope domain.RateScope, date time.Time) ([]domain.Rate, error)
}

// RateWriter defines write operations for rate data
type RateWriter interface {
	// SaveRate inserts a rate and its reverse in one transaction.
	// It fails with apperrors.ErrDuplicate when the scope already holds the tuple.
	SaveRate(ctx context.Context, rate domain.Rate) (*domain.Rate, error)

	// SaveRates inserts rates and their reverses atomically.
	SaveRates(ctx context.Context, rates []domain.Rate) ([]domain.Rate, error)

	// DeleteRate removes one rate. Its reverse is kept.
	DeleteRate(ctx context.Context, id string) error
}

// RateRepositoryFacade combines all rate-related repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
