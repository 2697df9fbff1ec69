package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RateRepositoryTestSuite struct {
	suite.Suite
	repo *RateRepository
	ctx  context.Context
	day  time.Time
}

func (suite *RateRepositoryTestSuite) SetupTest() {
	suite.repo = NewRateRepository()
	suite.ctx = context.Background()
	suite.day = time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
}

func TestRateRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RateRepositoryTestSuite))
}

func (suite *RateRepositoryTestSuite) rate(currency, base, value string, user, key *string) domain.Rate {
	return domain.Rate{
		UserID:       user,
		Key:          key,
		ValueDate:    suite.day,
		Currency:     currency,
		BaseCurrency: base,
		Value:        decimal.RequireFromString(value),
	}
}

func strPtr(s string) *string { return &s }

func (suite *RateRepositoryTestSuite) TestSaveStoresReverse() {
	saved, err := suite.repo.SaveRate(suite.ctx, suite.rate("USD", "EUR", "1.25", nil, nil))
	suite.Require().NoError(err)
	suite.NotEmpty(saved.ID)

	rev, err := suite.repo.GetRate(suite.ctx, domain.RateScope{}, "EUR", "USD", suite.day)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("0.8").Equal(rev.Value))

	// deleting keeps the reverse
	suite.Require().NoError(suite.repo.DeleteRate(suite.ctx, saved.ID))
	_, err = suite.repo.GetRate(suite.ctx, domain.RateScope{}, "EUR", "USD", suite.day)
	suite.NoError(err)
	suite.ErrorIs(suite.repo.DeleteRate(suite.ctx, saved.ID), apperrors.ErrNotFound)
}

func (suite *RateRepositoryTestSuite) TestStoredReverseConflicts() {
	direct := suite.rate("EUR", "USD", "0.9", nil, nil)
	_, err := suite.repo.SaveRate(suite.ctx, direct)
	suite.Require().NoError(err)

	// USD/EUR already exists as the reverse of EUR/USD
	_, err = suite.repo.SaveRate(suite.ctx, suite.rate("USD", "EUR", "1.25", nil, nil))
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	want, ok := direct.Reverse()
	suite.Require().True(ok)
	rev, err := suite.repo.GetRate(suite.ctx, domain.RateScope{}, "USD", "EUR", suite.day)
	suite.Require().NoError(err)
	suite.True(want.Value.Equal(rev.Value), "reverse keeps %s, got %s", want.Value, rev.Value)

	got, err := suite.repo.GetRate(suite.ctx, domain.RateScope{}, "EUR", "USD", suite.day)
	suite.Require().NoError(err)
	suite.Equal("0.9", got.Value.String())
}

func (suite *RateRepositoryTestSuite) TestZeroValueHasNoReverse() {
	_, err := suite.repo.SaveRate(suite.ctx, suite.rate("USD", "EUR", "0", nil, nil))
	suite.Require().NoError(err)
	_, err = suite.repo.GetRate(suite.ctx, domain.RateScope{}, "EUR", "USD", suite.day)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RateRepositoryTestSuite) TestScopesCoexist() {
	_, err := suite.repo.SaveRate(suite.ctx, suite.rate("USD", "EUR", "1.25", nil, nil))
	suite.Require().NoError(err)
	_, err = suite.repo.SaveRate(suite.ctx, suite.rate("USD", "EUR", "1.25", nil, nil))
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	_, err = suite.repo.SaveRate(suite.ctx, suite.rate("USD", "EUR", "1.3", strPtr("alice"), nil))
	suite.NoError(err)
	_, err = suite.repo.SaveRate(suite.ctx, suite.rate("USD", "EUR", "1.3", strPtr("alice"), strPtr("k")))
	suite.NoError(err)
}

func (suite *RateRepositoryTestSuite) TestSaveRatesIsAtomic() {
	_, err := suite.repo.SaveRate(suite.ctx, suite.rate("USD", "EUR", "1.25", nil, nil))
	suite.Require().NoError(err)

	batch := []domain.Rate{suite.rate("GBP", "EUR", "0.85", nil, nil), suite.rate("USD", "EUR", "1.2", nil, nil)}
	_, err = suite.repo.SaveRates(suite.ctx, batch)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = suite.repo.GetRate(suite.ctx, domain.RateScope{}, "GBP", "EUR", suite.day)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RateRepositoryTestSuite) TestScanVisibilityAndPaging() {
	for _, r := range []domain.Rate{
		suite.rate("USD", "EUR", "1.1", nil, nil),
		suite.rate("GBP", "EUR", "0.85", strPtr("alice"), nil),
		suite.rate("JPY", "EUR", "160", strPtr("alice"), strPtr("k")),
		suite.rate("CHF", "EUR", "0.95", strPtr("bob"), nil),
	} {
		_, err := suite.repo.SaveRate(suite.ctx, r)
		suite.Require().NoError(err)
	}

	page, err := suite.repo.ScanRates(suite.ctx, domain.RateFilter{BaseCurrency: "EUR"})
	suite.Require().NoError(err)
	suite.Len(page.Rates, 1)

	page, err = suite.repo.ScanRates(suite.ctx, domain.RateFilter{Viewer: "alice", BaseCurrency: "EUR", Ordering: "value"})
	suite.Require().NoError(err)
	suite.Require().Len(page.Rates, 3)
	suite.Equal([]string{"GBP", "USD", "JPY"}, []string{page.Rates[0].Currency, page.Rates[1].Currency, page.Rates[2].Currency})

	page, err = suite.repo.ScanRates(suite.ctx, domain.RateFilter{Viewer: "alice", BaseCurrency: "EUR", KeyOrNull: strPtr("k")})
	suite.Require().NoError(err)
	suite.Len(page.Rates, 3)

	page, err = suite.repo.ScanRates(suite.ctx, domain.RateFilter{Viewer: "alice", BaseCurrency: "EUR", KeyIsNull: true, Limit: 1})
	suite.Require().NoError(err)
	suite.Len(page.Rates, 1)
	suite.True(page.HasMore)
	suite.Equal(1, page.NextOffset)

	page, err = suite.repo.ScanRates(suite.ctx, domain.RateFilter{Viewer: "alice", BaseCurrency: "EUR", KeyIsNull: true, Limit: 1, Offset: 1})
	suite.Require().NoError(err)
	suite.Len(page.Rates, 1)
	suite.False(page.HasMore)
}

func (suite *RateRepositoryTestSuite) TestLatestRates() {
	older := suite.rate("USD", "EUR", "1.1", nil, nil)
	older.ValueDate = suite.day.AddDate(0, 0, -3)
	for _, r := range []domain.Rate{older, suite.rate("USD", "EUR", "1.2", nil, nil), suite.rate("USD", "GBP", "1.3", nil, nil)} {
		_, err := suite.repo.SaveRate(suite.ctx, r)
		suite.Require().NoError(err)
	}

	latest, err := suite.repo.LatestRates(suite.ctx, domain.LatestFilter{Currency: "USD"})
	suite.Require().NoError(err)
	suite.Require().Len(latest, 2)
	suite.Equal("EUR", latest[0].BaseCurrency)
	suite.Equal("1.2", latest[0].Value.String())
	suite.Equal("GBP", latest[1].BaseCurrency)
}

func TestListRatesAtDate_Visibility(t *testing.T) {
	repo := NewRateRepository()
	ctx := context.Background()
	day := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	alice, k := "alice", "k"
	for _, r := range []domain.Rate{
		{ValueDate: day, Currency: "USD", BaseCurrency: "EUR", Value: decimal.NewFromInt(0)},
		{UserID: &alice, Key: &k, ValueDate: day, Currency: "GBP", BaseCurrency: "EUR", Value: decimal.NewFromInt(0)},
		{UserID: &alice, ValueDate: day.AddDate(0, 0, 1), Currency: "JPY", BaseCurrency: "EUR", Value: decimal.NewFromInt(0)},
	} {
		_, err := repo.SaveRate(ctx, r)
		require.NoError(t, err)
	}

	edges, err := repo.ListRatesAtDate(ctx, domain.RateScope{UserID: alice}, day)
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	edges, err = repo.ListRatesAtDate(ctx, domain.RateScope{UserID: alice, Key: k}, day)
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}
