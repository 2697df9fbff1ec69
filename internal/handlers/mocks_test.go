package handlers_test

import (
	"context"

	"github.com/SscSPs/geocurrency/internal/catalog"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateService ---
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) GetRate(ctx context.Context, id, viewer string) (*domain.Rate, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

func (m *MockRateService) ListRates(ctx context.Context, filter domain.RateFilter) (*domain.RatePage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatePage), args.Error(1)
}

func (m *MockRateService) LatestRates(ctx context.Context, filter domain.LatestFilter) ([]domain.Rate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateService) RateStats(ctx context.Context, query domain.RateStatsQuery) ([]domain.RateStat, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateStat), args.Error(1)
}

func (m *MockRateService) CreateRate(ctx context.Context, req dto.CreateRateRequest, userID string) (*domain.Rate, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

func (m *MockRateService) CreateBulkRates(ctx context.Context, req dto.BulkRateRequest, userID string) ([]domain.Rate, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateService) DeleteRate(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

var _ portssvc.RateSvcFacade = (*MockRateService)(nil)

// --- Mock RateConverter ---
type MockRateConverter struct {
	mock.Mock
}

func (m *MockRateConverter) Convert(ctx context.Context, req dto.ConvertRatesRequest, userID string) (*domain.RateConversionResult, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateConversionResult), args.Error(1)
}

var _ portssvc.RateConverterSvc = (*MockRateConverter)(nil)

// --- Mock UnitService ---
type MockUnitService struct {
	mock.Mock
}

func (m *MockUnitService) ListSystems(ctx context.Context) []domain.UnitSystemInfo {
	args := m.Called(ctx)
	return args.Get(0).([]domain.UnitSystemInfo)
}

func (m *MockUnitService) GetSystem(ctx context.Context, name string) (*domain.UnitSystemInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnitSystemInfo), args.Error(1)
}

func (m *MockUnitService) ListDimensions(ctx context.Context, q domain.UnitQuery, ordering string) ([]domain.DimensionInfo, error) {
	args := m.Called(ctx, q, ordering)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DimensionInfo), args.Error(1)
}

func (m *MockUnitService) ListUnits(ctx context.Context, q domain.UnitQuery, dimension string) ([]domain.UnitInfo, error) {
	args := m.Called(ctx, q, dimension)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnitInfo), args.Error(1)
}

func (m *MockUnitService) GetUnit(ctx context.Context, q domain.UnitQuery, code string) (*domain.UnitInfo, error) {
	args := m.Called(ctx, q, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnitInfo), args.Error(1)
}

func (m *MockUnitService) CompatibleUnits(ctx context.Context, q domain.UnitQuery, code string) ([]domain.UnitInfo, error) {
	args := m.Called(ctx, q, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnitInfo), args.Error(1)
}

var _ portssvc.UnitSvc = (*MockUnitService)(nil)

// --- Mock UnitConverter ---
type MockUnitConverter struct {
	mock.Mock
}

func (m *MockUnitConverter) Convert(ctx context.Context, req dto.ConvertUnitsRequest, userID string) (*domain.UnitConversionResult, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnitConversionResult), args.Error(1)
}

var _ portssvc.UnitConverterSvc = (*MockUnitConverter)(nil)

// --- Mock CustomUnitService ---
type MockCustomUnitService struct {
	mock.Mock
}

func (m *MockCustomUnitService) ListCustomUnits(ctx context.Context, filter domain.CustomUnitFilter) ([]domain.CustomUnit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomUnit), args.Error(1)
}

func (m *MockCustomUnitService) GetCustomUnit(ctx context.Context, system, id, viewer string) (*domain.CustomUnit, error) {
	args := m.Called(ctx, system, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomUnit), args.Error(1)
}

func (m *MockCustomUnitService) CreateCustomUnit(ctx context.Context, system string, req dto.CustomUnitRequest, userID string) (*domain.CustomUnit, error) {
	args := m.Called(ctx, system, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomUnit), args.Error(1)
}

func (m *MockCustomUnitService) UpdateCustomUnit(ctx context.Context, system, id string, req dto.CustomUnitRequest, userID string) (*domain.CustomUnit, error) {
	args := m.Called(ctx, system, id, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomUnit), args.Error(1)
}

func (m *MockCustomUnitService) DeleteCustomUnit(ctx context.Context, system, id, userID string) error {
	args := m.Called(ctx, system, id, userID)
	return args.Error(0)
}

var _ portssvc.CustomUnitSvcFacade = (*MockCustomUnitService)(nil)

// --- Mock CalculationService ---
type MockCalculationService struct {
	mock.Mock
}

func (m *MockCalculationService) Calculate(ctx context.Context, system string, req dto.CalculationRequest, userID string) (*domain.CalculationResult, error) {
	args := m.Called(ctx, system, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalculationResult), args.Error(1)
}

func (m *MockCalculationService) Validate(ctx context.Context, system string, req dto.CalculationRequest, userID string) ([]domain.CalculationError, error) {
	args := m.Called(ctx, system, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalculationError), args.Error(1)
}

var _ portssvc.CalculationSvc = (*MockCalculationService)(nil)

// --- Mock CatalogService ---
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCountries(ctx context.Context, search, ordering string) []catalog.Country {
	args := m.Called(ctx, search, ordering)
	return args.Get(0).([]catalog.Country)
}

func (m *MockCatalogService) GetCountry(ctx context.Context, alpha2 string) (*catalog.Country, error) {
	args := m.Called(ctx, alpha2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Country), args.Error(1)
}

func (m *MockCatalogService) CountryCurrencies(ctx context.Context, alpha2 string) ([]catalog.Currency, error) {
	args := m.Called(ctx, alpha2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Currency), args.Error(1)
}

func (m *MockCatalogService) CountryTimezones(ctx context.Context, alpha2 string) ([]catalog.Timezone, error) {
	args := m.Called(ctx, alpha2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Timezone), args.Error(1)
}

func (m *MockCatalogService) CountriesByColor(ctx context.Context, color string, proximity float64) ([]catalog.Country, error) {
	args := m.Called(ctx, color, proximity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Country), args.Error(1)
}

func (m *MockCatalogService) ListCurrencies(ctx context.Context, search, ordering string) []catalog.Currency {
	args := m.Called(ctx, search, ordering)
	return args.Get(0).([]catalog.Currency)
}

func (m *MockCatalogService) GetCurrency(ctx context.Context, code string) (*catalog.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Currency), args.Error(1)
}

func (m *MockCatalogService) CurrencyCountries(ctx context.Context, code string) ([]catalog.Country, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Country), args.Error(1)
}

var _ portssvc.CatalogSvc = (*MockCatalogService)(nil)

// --- Mock WatchService ---
type MockWatchService struct {
	mock.Mock
}

func (m *MockWatchService) Watch(ctx context.Context, id string) (*domain.BatchStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchStatus), args.Error(1)
}

var _ portssvc.WatchSvc = (*MockWatchService)(nil)
