package services

import (
	"context"
	"time"

	"github.com/SscSPs/geocurrency/internal/catalog"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
)

// catalogService implements the CatalogSvc interface
type catalogService struct {
	BaseService
	catalog *catalog.Catalog
	now     func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(c *catalog.Catalog) portssvc.CatalogSvc {
	return &catalogService{catalog: c, now: time.Now}
}

var _ portssvc.CatalogSvc = (*catalogService)(nil)

func (s *catalogService) ListCountries(_ context.Context, search, ordering string) []catalog.Country {
	return s.catalog.Countries(search, ordering)
}

func (s *catalogService) GetCountry(_ context.Context, alpha2 string) (*catalog.Country, error) {
	c, err := s.catalog.Country(alpha2)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *catalogService) CountryCurrencies(_ context.Context, alpha2 string) ([]catalog.Currency, error) {
	return s.catalog.CurrenciesForCountry(alpha2)
}

func (s *catalogService) CountryTimezones(_ context.Context, alpha2 string) ([]catalog.Timezone, error) {
	return s.catalog.Timezones(alpha2, s.now())
}

func (s *catalogService) CountriesByColor(_ context.Context, color string, proximity float64) ([]catalog.Country, error) {
	return s.catalog.CountriesByColor(color, proximity)
}

func (s *catalogService) ListCurrencies(_ context.Context, search, ordering string) []catalog.Currency {
	return s.catalog.Currencies(search, ordering)
}

func (s *catalogService) GetCurrency(_ context.Context, code string) (*catalog.Currency, error) {
	c, err := s.catalog.Currency(code)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *catalogService) CurrencyCountries(_ context.Context, code string) ([]catalog.Country, error) {
	return s.catalog.CountriesForCurrency(code)
}
