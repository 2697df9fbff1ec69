package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockRateRepository is a mock type for the RateRepositoryFacade interface
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) GetRate(ctx context.Context, scope domain.RateScope, currency, baseCurrency string, date time.Time) (*domain.Rate, error) {
	args := m.Called(ctx, scope, currency, baseCurrency, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

func (m *MockRateRepository) GetRateByID(ctx context.Context, id string) (*domain.Rate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

func (m *MockRateRepository) ScanRates(ctx context.Context, filter domain.RateFilter) (*domain.RatePage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatePage), args.Error(1)
}

func (m *MockRateRepository) LatestRates(ctx context.Context, filter domain.LatestFilter) ([]domain.Rate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateRepository) ListRatesAtDate(ctx context.Context, scope domain.RateScope, date time.Time) ([]domain.Rate, error) {
	args := m.Called(ctx, scope, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateRepository) SaveRate(ctx context.Context, rate domain.Rate) (*domain.Rate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

func (m *MockRateRepository) SaveRates(ctx context.Context, rates []domain.Rate) ([]domain.Rate, error) {
	args := m.Called(ctx, rates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateRepository) DeleteRate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRateProvider is a mock type for the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Name() string {
	return "mock"
}

func (m *MockRateProvider) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Rate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateProvider) AvailableCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCustomUnitRepository is a mock type for the CustomUnitRepositoryFacade interface
type MockCustomUnitRepository struct {
	mock.Mock
}

func (m *MockCustomUnitRepository) GetCustomUnitByID(ctx context.Context, id string) (*domain.CustomUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomUnit), args.Error(1)
}

func (m *MockCustomUnitRepository) ListCustomUnits(ctx context.Context, filter domain.CustomUnitFilter) ([]domain.CustomUnit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomUnit), args.Error(1)
}

func (m *MockCustomUnitRepository) SaveCustomUnit(ctx context.Context, unit domain.CustomUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockCustomUnitRepository) UpdateCustomUnit(ctx context.Context, unit domain.CustomUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockCustomUnitRepository) DeleteCustomUnit(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string {
	return &s
}
