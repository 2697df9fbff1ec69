package services

import (
	"context"
	"time"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/SscSPs/geocurrency/internal/dto"
)

// RateReaderSvc defines read operations for rate data
type RateReaderSvc interface {
	// GetRate retrieves a rate visible to viewer.
	GetRate(ctx context.Context, id, viewer string) (*domain.Rate, error)

	// ListRates lists the rates matching a filter.
	ListRates(ctx context.Context, filter domain.RateFilter) (*domain.RatePage, error)

	// LatestRates returns the most recent rate per counterpart.
	LatestRates(ctx context.Context, filter domain.LatestFilter) ([]domain.Rate, error)

	// RateStats aggregates rates per currency pair and period.
	RateStats(ctx context.Context, query domain.RateStatsQuery) ([]domain.RateStat, error)
}

// RateWriterSvc defines write operations for rate data
type RateWriterSvc interface {
	// CreateRate stores a rate and its reverse for userID.
	CreateRate(ctx context.Context, req dto.CreateRateRequest, userID string) (*domain.Rate, error)

	// CreateBulkRates stores one rate per day of the requested range.
	CreateBulkRates(ctx context.Context, req dto.BulkRateRequest, userID string) ([]domain.Rate, error)

	// DeleteRate removes a rate owned by userID.
	DeleteRate(ctx context.Context, id, userID string) error
}

// RateSvcFacade combines all rate-related service interfaces
type RateSvcFacade interface {
	RateReaderSvc
	RateWriterSvc
}

// RateResolverSvc finds the rate between two currencies at a date, directly
// or by composing stored rates.
type RateResolverSvc interface {
	RateAt(ctx context.Context, scope domain.RateScope, base, currency string, date time.Time) (*domain.RateResolution, error)
}

// RateFetcherSvc pulls rates from the active provider into the store.
type RateFetcherSvc interface {
	// FetchRates stores the rates of base between from and to, both included,
	// and returns how many rows were written.
	FetchRates(ctx context.Context, base string, from, to time.Time) (int, error)

	// ProviderName names the active provider.
	ProviderName() string
}

// RateConverterSvc converts amounts between currencies in batches.
type RateConverterSvc interface {
	Convert(ctx context.Context, req dto.ConvertRatesRequest, userID string) (*domain.RateConversionResult, error)
}
