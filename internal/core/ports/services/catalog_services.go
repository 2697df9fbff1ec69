package services

import (
	"context"

	"github.com/SscSPs/geocurrency/internal/catalog"
)

// CatalogSvc exposes the country and currency reference catalog.
type CatalogSvc interface {
	ListCountries(ctx context.Context, search, ordering string) []catalog.Country
	GetCountry(ctx context.Context, alpha2 string) (*catalog.Country, error)
	CountryCurrencies(ctx context.Context, alpha2 string) ([]catalog.Currency, error)
	CountryTimezones(ctx context.Context, alpha2 string) ([]catalog.Timezone, error)
	CountriesByColor(ctx context.Context, color string, proximity float64) ([]catalog.Country, error)

	ListCurrencies(ctx context.Context, search, ordering string) []catalog.Currency
	GetCurrency(ctx context.Context, code string) (*catalog.Currency, error)
	CurrencyCountries(ctx context.Context, code string) ([]catalog.Country, error)
}
