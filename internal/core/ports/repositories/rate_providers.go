package repositories

import (
	"context"

	"github.com/SscSPs/geocurrency/internal/core/domain"
)

// RateProvider fetches rates from an external source.
type RateProvider interface {
	// Name returns the registry name of the provider.
	Name() string

	// Fetch returns the rates of req.Base. Errors match apperrors.ErrRatesUnavailable
	// when the source cannot answer.
	Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Rate, error)

	// AvailableCurrencies lists the currency codes the provider can price.
	AvailableCurrencies(ctx context.Context) ([]string, error)
}
