package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/geocurrency/internal/core/batch"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/core/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/SscSPs/geocurrency/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// RateConverterStoreTestSuite converts through the real resolver over the
// in-memory rate store.
type RateConverterStoreTestSuite struct {
	suite.Suite
	repo      *memory.RateRepository
	converter portssvc.RateConverterSvc
	ctx       context.Context
	date      time.Time
}

func (suite *RateConverterStoreTestSuite) SetupTest() {
	suite.repo = memory.NewRateRepository()
	suite.converter = services.NewRateConverterService(testBatchSettings(), services.NewRateResolver(suite.repo),
		knownCurrencies{"USD": true, "EUR": true, "GBP": true})
	suite.ctx = context.Background()
	suite.date = time.Date(2020, 7, 22, 0, 0, 0, 0, time.UTC)

	for _, r := range []domain.Rate{
		{ValueDate: suite.date, Currency: "USD", BaseCurrency: "EUR", Value: decimal.RequireFromString("0.85")},
		{ValueDate: suite.date, Currency: "GBP", BaseCurrency: "EUR", Value: decimal.RequireFromString("1.1")},
	} {
		_, err := suite.repo.SaveRate(suite.ctx, r)
		suite.Require().NoError(err)
	}
}

func TestRateConverterStoreTestSuite(t *testing.T) {
	suite.Run(t, new(RateConverterStoreTestSuite))
}

func (suite *RateConverterStoreTestSuite) storedRates() int {
	page, err := suite.repo.ScanRates(suite.ctx, domain.RateFilter{})
	suite.Require().NoError(err)
	return len(page.Rates)
}

func (suite *RateConverterStoreTestSuite) convert() *domain.RateConversionResult {
	res, err := suite.converter.Convert(suite.ctx, dto.ConvertRatesRequest{
		Target: "GBP",
		Data: []dto.AmountRequest{
			{Currency: "USD", Amount: decimal.NewFromInt(100), Date: "2020-07-22"},
			{Currency: "EUR", Amount: decimal.NewFromInt(50), Date: "2020-07-22"},
			{Currency: "GBP", Amount: decimal.NewFromInt(10), Date: "2020-07-22"},
		},
	}, "")
	suite.Require().NoError(err)
	suite.Require().Equal(string(batch.StatusFinished), res.Status)
	suite.Require().Len(res.Detail, 3)
	return res
}

func (suite *RateConverterStoreTestSuite) TestRepeatedConversionIsStable() {
	seeded := suite.storedRates()

	first := suite.convert()
	afterFirst := suite.storedRates()
	suite.Greater(afterFirst, seeded, "the composed USD/GBP rate is stored")

	second := suite.convert()
	suite.Equal(afterFirst, suite.storedRates())

	suite.True(first.Sum.Equal(second.Sum), "%s != %s", first.Sum, second.Sum)
	for i := range first.Detail {
		suite.True(first.Detail[i].ConversionRate.Equal(second.Detail[i].ConversionRate))
		suite.True(first.Detail[i].ConvertedValue.Equal(second.Detail[i].ConvertedValue))
	}

	direct, err := suite.repo.GetRate(suite.ctx, domain.RateScope{}, "USD", "GBP", suite.date)
	suite.Require().NoError(err)
	suite.True(direct.Value.Equal(first.Detail[0].ConversionRate))
}
