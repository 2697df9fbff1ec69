package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
)

// rateFetcher implements the RateFetcherSvc interface
type rateFetcher struct {
	BaseService
	rateRepo portsrepo.RateRepositoryFacade
	provider portsrepo.RateProvider
}

// NewRateFetcher creates a fetcher storing the rates of provider
func NewRateFetcher(rateRepo portsrepo.RateRepositoryFacade, provider portsrepo.RateProvider) portssvc.RateFetcherSvc {
	return &rateFetcher{rateRepo: rateRepo, provider: provider}
}

var _ portssvc.RateFetcherSvc = (*rateFetcher)(nil)

func (f *rateFetcher) ProviderName() string {
	return f.provider.Name()
}

// FetchRates stores provider rates as unscoped rows. Rows already present
// are skipped and not counted.
func (f *rateFetcher) FetchRates(ctx context.Context, base string, from, to time.Time) (int, error) {
	from, to = domain.Day(from), domain.Day(to)
	if to.Before(from) {
		return 0, apperrors.NewValidationError("to date must not be before from date")
	}
	req := domain.FetchRequest{Base: base, Date: from}
	if to.After(from) {
		req.ToDate = to
	}
	rates, err := f.provider.Fetch(ctx, req)
	if err != nil {
		f.LogError(ctx, err, "Failed to fetch rates",
			slog.String("provider", f.provider.Name()), slog.String("base", base))
		return 0, err
	}

	stored := 0
	for _, rate := range rates {
		rate.UserID, rate.Key = nil, nil
		_, err := f.rateRepo.SaveRate(ctx, rate)
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			continue
		case err != nil:
			return stored, fmt.Errorf("storing %s/%s at %s: %w",
				rate.Currency, rate.BaseCurrency, rate.ValueDate.Format(domain.DateLayout), err)
		}
		stored++
	}
	f.LogInfo(ctx, "Provider rates stored",
		slog.String("provider", f.provider.Name()),
		slog.String("base", base),
		slog.Int("fetched", len(rates)),
		slog.Int("stored", stored))
	return stored, nil
}
