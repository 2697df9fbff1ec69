package pgsql

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rateRowColumns = []string{"id", "user_id", "key", "value_date", "currency", "base_currency", "value", "created_at"}

func newRateRepoMock(t *testing.T) (*PgxRateRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	repo := newPgxRateRepository(mock)
	repo.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return repo, mock
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestRateRepository_GetRate(t *testing.T) {
	day := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	id := uuid.NewString()

	t.Run("found", func(t *testing.T) {
		repo, mock := newRateRepoMock(t)
		user := "u1"
		rows := pgxmock.NewRows(rateRowColumns).
			AddRow(id, &user, (*string)(nil), day, "USD", "EUR", "1.0842", day)
		mock.ExpectQuery(`SELECT (.+) FROM rates WHERE (.+)key IS NULL`).
			WithArgs(anyArgs(4)...).
			WillReturnRows(rows)

		rate, err := repo.GetRate(context.Background(), domain.RateScope{UserID: user}, "USD", "EUR", day)
		require.NoError(t, err)
		assert.Equal(t, id, rate.ID)
		assert.Equal(t, "u1", *rate.UserID)
		assert.Nil(t, rate.Key)
		assert.True(t, decimal.RequireFromString("1.0842").Equal(rate.Value))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRateRepoMock(t)
		mock.ExpectQuery(`SELECT (.+) FROM rates WHERE`).
			WithArgs(anyArgs(3)...).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetRate(context.Background(), domain.RateScope{}, "USD", "EUR", day)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateRepository_GetRateByID_InvalidID(t *testing.T) {
	repo, mock := newRateRepoMock(t)
	_, err := repo.GetRateByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_SaveRate(t *testing.T) {
	day := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	rate := domain.Rate{
		ValueDate:    day,
		Currency:     "USD",
		BaseCurrency: "EUR",
		Value:        decimal.RequireFromString("2"),
	}

	t.Run("inserts rate and reverse", func(t *testing.T) {
		repo, mock := newRateRepoMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO rates`).
			WithArgs(pgxmock.AnyArg(), (*string)(nil), (*string)(nil), pgxmock.AnyArg(), "USD", "EUR", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO rates (.+) ON CONFLICT DO NOTHING`).
			WithArgs(pgxmock.AnyArg(), (*string)(nil), (*string)(nil), pgxmock.AnyArg(), "EUR", "USD", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectCommit()

		saved, err := repo.SaveRate(context.Background(), rate)
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, repo.now().UTC(), saved.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero value has no reverse", func(t *testing.T) {
		repo, mock := newRateRepoMock(t)
		zero := rate
		zero.Value = decimal.Zero
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO rates`).
			WithArgs(anyArgs(8)...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		_, err := repo.SaveRate(context.Background(), zero)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate rolls back", func(t *testing.T) {
		repo, mock := newRateRepoMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO rates`).
			WithArgs(anyArgs(8)...).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
		mock.ExpectRollback()

		_, err := repo.SaveRate(context.Background(), rate)
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateRepository_SaveRates_Atomic(t *testing.T) {
	repo, mock := newRateRepoMock(t)
	day := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	rates := []domain.Rate{
		{ValueDate: day, Currency: "USD", BaseCurrency: "EUR", Value: decimal.NewFromInt(2)},
		{ValueDate: day.AddDate(0, 0, 1), Currency: "USD", BaseCurrency: "EUR", Value: decimal.NewFromInt(2)},
	}
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO rates`).WithArgs(anyArgs(8)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO rates`).WithArgs(anyArgs(8)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO rates`).WithArgs(anyArgs(8)...).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	mock.ExpectRollback()

	saved, err := repo.SaveRates(context.Background(), rates)
	assert.Nil(t, saved)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_ScanRates_Pagination(t *testing.T) {
	repo, mock := newRateRepoMock(t)
	day := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(rateRowColumns).
		AddRow(uuid.NewString(), (*string)(nil), (*string)(nil), day, "USD", "EUR", "1.1", day).
		AddRow(uuid.NewString(), (*string)(nil), (*string)(nil), day, "GBP", "EUR", "0.85", day).
		AddRow(uuid.NewString(), (*string)(nil), (*string)(nil), day, "JPY", "EUR", "160", day)
	mock.ExpectQuery(`SELECT (.+) FROM rates WHERE \(user_id IS NULL AND base_currency = \$1\) ORDER BY value_date DESC, id ASC LIMIT 3 OFFSET 4`).
		WithArgs("EUR").
		WillReturnRows(rows)

	page, err := repo.ScanRates(context.Background(), domain.RateFilter{BaseCurrency: "EUR", Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page.Rates, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, 6, page.NextOffset)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_LatestRates_DistinctOnCounterpart(t *testing.T) {
	repo, mock := newRateRepoMock(t)
	day := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(rateRowColumns).
		AddRow(uuid.NewString(), (*string)(nil), (*string)(nil), day, "USD", "EUR", "1.1", day)
	mock.ExpectQuery(`SELECT DISTINCT ON \(base_currency\) (.+) FROM rates WHERE \(user_id IS NULL AND currency = \$1\) ORDER BY base_currency`).
		WithArgs("USD").
		WillReturnRows(rows)

	rates, err := repo.LatestRates(context.Background(), domain.LatestFilter{Currency: "USD"})
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "EUR", rates[0].BaseCurrency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_DeleteRate(t *testing.T) {
	id := uuid.NewString()

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newRateRepoMock(t)
		mock.ExpectExec(`DELETE FROM rates WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.DeleteRate(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newRateRepoMock(t)
		mock.ExpectExec(`DELETE FROM rates WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.DeleteRate(context.Background(), id), apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "value_date DESC", orderClause(""))
	assert.Equal(t, "value ASC", orderClause("value"))
	assert.Equal(t, "currency DESC", orderClause("-currency"))
	assert.Equal(t, "value_date DESC", orderClause("user_id; DROP TABLE rates"))
}
