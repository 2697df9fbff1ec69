package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/core/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RateServiceTestSuite struct {
	suite.Suite
	repo    *MockRateRepository
	service portssvc.RateSvcFacade
	ctx     context.Context
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.repo = new(MockRateRepository)
	suite.service = services.NewRateService(suite.repo)
	suite.ctx = context.Background()
}

func TestRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (suite *RateServiceTestSuite) TestCreateRate_Success() {
	userID := uuid.NewString()
	req := dto.CreateRateRequest{
		Currency:     "USD",
		BaseCurrency: "EUR",
		Key:          "K",
		ValueDate:    "2020-07-22",
		Value:        decPtr("0.85"),
	}
	suite.repo.On("SaveRate", suite.ctx, mock.MatchedBy(func(r domain.Rate) bool {
		return *r.UserID == userID && *r.Key == "K" && r.ValueDate.Equal(time.Date(2020, 7, 22, 0, 0, 0, 0, time.UTC))
	})).Return(&domain.Rate{ID: "r1", UserID: &userID}, nil).Once()

	rate, err := suite.service.CreateRate(suite.ctx, req, userID)
	suite.Require().NoError(err)
	suite.Equal("r1", rate.ID)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestCreateRate_Validation() {
	_, err := suite.service.CreateRate(suite.ctx, dto.CreateRateRequest{Currency: "USD", BaseCurrency: "USD", Value: decPtr("1")}, "u1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateRate(suite.ctx, dto.CreateRateRequest{Currency: "USD", BaseCurrency: "EUR", Value: decPtr("-1")}, "u1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateRate(suite.ctx, dto.CreateRateRequest{Currency: "USD", BaseCurrency: "EUR", Value: decPtr("1")}, "")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.repo.AssertNotCalled(suite.T(), "SaveRate", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestCreateRate_Duplicate() {
	suite.repo.On("SaveRate", suite.ctx, mock.AnythingOfType("domain.Rate")).Return(nil, apperrors.NewConflictError("rate")).Once()

	_, err := suite.service.CreateRate(suite.ctx, dto.CreateRateRequest{Currency: "USD", BaseCurrency: "EUR", Value: decPtr("1")}, "u1")
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *RateServiceTestSuite) TestCreateBulkRates() {
	suite.repo.On("SaveRates", suite.ctx, mock.MatchedBy(func(rates []domain.Rate) bool {
		return len(rates) == 3 && rates[2].ValueDate.Equal(time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC))
	})).Return([]domain.Rate{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil).Once()

	saved, err := suite.service.CreateBulkRates(suite.ctx, dto.BulkRateRequest{
		Currency: "USD", BaseCurrency: "EUR", Value: decPtr("1.1"),
		FromDate: "2020-01-01", ToDate: "2020-01-03",
	}, "u1")
	suite.Require().NoError(err)
	suite.Len(saved, 3)

	_, err = suite.service.CreateBulkRates(suite.ctx, dto.BulkRateRequest{
		Currency: "USD", BaseCurrency: "EUR", Value: decPtr("1.1"),
		FromDate: "2020-02-01", ToDate: "2020-01-03",
	}, "u1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RateServiceTestSuite) TestGetRate_HidesOtherUsersRates() {
	suite.repo.On("GetRateByID", suite.ctx, "r1").Return(&domain.Rate{ID: "r1", UserID: strPtr("u2")}, nil)

	_, err := suite.service.GetRate(suite.ctx, "r1", "u1")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	rate, err := suite.service.GetRate(suite.ctx, "r1", "u2")
	suite.Require().NoError(err)
	suite.Equal("r1", rate.ID)
}

func (suite *RateServiceTestSuite) TestDeleteRate() {
	suite.repo.On("GetRateByID", suite.ctx, "mine").Return(&domain.Rate{ID: "mine", UserID: strPtr("u1")}, nil)
	suite.repo.On("GetRateByID", suite.ctx, "shared").Return(&domain.Rate{ID: "shared"}, nil)
	suite.repo.On("DeleteRate", suite.ctx, "mine").Return(nil).Once()

	suite.NoError(suite.service.DeleteRate(suite.ctx, "mine", "u1"))
	suite.ErrorIs(suite.service.DeleteRate(suite.ctx, "shared", "u1"), apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.DeleteRate(suite.ctx, "mine", ""), apperrors.ErrUnauthorized)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestLatestRatesNeedsACurrency() {
	_, err := suite.service.LatestRates(suite.ctx, domain.LatestFilter{})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RateServiceTestSuite) TestRateStats() {
	day := func(m time.Month, d int) time.Time { return time.Date(2020, m, d, 0, 0, 0, 0, time.UTC) }
	rate := func(date time.Time, v string) domain.Rate {
		return domain.Rate{Currency: "USD", BaseCurrency: "EUR", ValueDate: date, Value: decimal.RequireFromString(v)}
	}
	key := strPtr("K")
	suite.repo.On("ScanRates", suite.ctx, mock.MatchedBy(func(f domain.RateFilter) bool {
		return f.KeyOrNull == key && f.Viewer == "u1"
	})).Return(&domain.RatePage{Rates: []domain.Rate{
		rate(day(6, 1), "1"),
		rate(day(6, 15), "3"),
		rate(day(7, 1), "2"),
	}}, nil).Once()

	stats, err := suite.service.RateStats(suite.ctx, domain.RateStatsQuery{Viewer: "u1", Key: key, Period: domain.PeriodMonth})
	suite.Require().NoError(err)
	suite.Require().Len(stats, 2)

	suite.Equal("2020-07", stats[0].Period)
	suite.Equal(1, stats[0].Count)

	june := stats[1]
	suite.Equal("2020-06", june.Period)
	suite.Equal(2, june.Count)
	suite.True(june.Avg.Equal(decimal.NewFromInt(2)))
	suite.True(june.Min.Equal(decimal.NewFromInt(1)))
	suite.True(june.Max.Equal(decimal.NewFromInt(3)))
	suite.True(june.StdDev.Equal(decimal.NewFromInt(1)))

	_, err = suite.service.RateStats(suite.ctx, domain.RateStatsQuery{Period: "decade"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}
