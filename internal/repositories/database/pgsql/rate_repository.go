package pgsql

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	"github.com/SscSPs/geocurrency/internal/models"
	"github.com/SscSPs/geocurrency/internal/utils/mapping"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var rateColumns = []string{"id", "user_id", "key", "value_date", "currency", "base_currency", "value", "created_at"}

// sortable columns of a rate listing
var rateOrderings = map[string]string{
	"key":           "key",
	"value":         "value",
	"value_date":    "value_date",
	"base_currency": "base_currency",
	"currency":      "currency",
}

// PgxRateRepository implements portsrepo.RateRepositoryFacade using pgx.
type PgxRateRepository struct {
	BaseRepository
	now func() time.Time
}

func newPgxRateRepository(db DB) *PgxRateRepository {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: db},
		now:            time.Now,
	}
}

var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

func (r *PgxRateRepository) GetRate(ctx context.Context, scope domain.RateScope, currency, baseCurrency string, date time.Time) (*domain.Rate, error) {
	query, args, err := psql.Select(rateColumns...).From("rates").Where(squirrel.Eq{
		"user_id":       scope.UserPtr(),
		"key":           scope.KeyPtr(),
		"currency":      currency,
		"base_currency": baseCurrency,
		"value_date":    domain.Day(date),
	}).Limit(1).ToSql()
	if err != nil {
		return nil, mapError(err, "rate", currency+"/"+baseCurrency)
	}
	var row models.Rate
	if err := pgxscan.Get(ctx, r.Pool, &row, query, args...); err != nil {
		return nil, mapError(err, "rate", currency+"/"+baseCurrency)
	}
	rate := mapping.ToDomainRate(row)
	return &rate, nil
}

func (r *PgxRateRepository) GetRateByID(ctx context.Context, id string) (*domain.Rate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, mapError(pgx.ErrNoRows, "rate", id)
	}
	query, args, err := psql.Select(rateColumns...).From("rates").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, mapError(err, "rate", id)
	}
	var row models.Rate
	if err := pgxscan.Get(ctx, r.Pool, &row, query, args...); err != nil {
		return nil, mapError(err, "rate", id)
	}
	rate := mapping.ToDomainRate(row)
	return &rate, nil
}

// viewerCondition restricts rows to the unscoped ones and the viewer's own.
func viewerCondition(viewer string) squirrel.Sqlizer {
	if viewer == "" {
		return squirrel.Eq{"user_id": nil}
	}
	return squirrel.Or{squirrel.Eq{"user_id": nil}, squirrel.Eq{"user_id": viewer}}
}

// keyOrNullCondition keeps unkeyed rows plus the viewer's rows under key.
func keyOrNullCondition(viewer, key string) squirrel.Sqlizer {
	if viewer == "" {
		return squirrel.Eq{"user_id": nil}
	}
	return squirrel.Or{
		squirrel.Eq{"key": nil},
		squirrel.Eq{"user_id": viewer, "key": key},
	}
}

func scanConditions(f domain.RateFilter) squirrel.And {
	conds := squirrel.And{viewerCondition(f.Viewer)}
	viewer := domain.RateScope{UserID: f.Viewer}.UserPtr()
	if f.OnlyViewer {
		conds = append(conds, squirrel.Eq{"user_id": viewer})
	}
	if f.Key != nil {
		if viewer == nil {
			conds = append(conds, squirrel.Eq{"user_id": nil})
		} else {
			conds = append(conds, squirrel.Eq{"user_id": *viewer, "key": *f.Key})
		}
	}
	if f.KeyOrNull != nil {
		conds = append(conds, keyOrNullCondition(f.Viewer, *f.KeyOrNull))
	}
	if f.KeyIsNull {
		conds = append(conds, squirrel.Eq{"key": nil})
	}
	if f.Currency != "" {
		conds = append(conds, squirrel.Eq{"currency": f.Currency})
	}
	if f.BaseCurrency != "" {
		conds = append(conds, squirrel.Eq{"base_currency": f.BaseCurrency})
	}
	if f.ValueDate != nil {
		conds = append(conds, squirrel.Eq{"value_date": domain.Day(*f.ValueDate)})
	}
	if f.From != nil {
		conds = append(conds, squirrel.GtOrEq{"value_date": domain.Day(*f.From)})
	}
	if f.To != nil {
		conds = append(conds, squirrel.LtOrEq{"value_date": domain.Day(*f.To)})
	}
	if f.Value != nil {
		conds = append(conds, squirrel.Eq{"value": *f.Value})
	}
	if f.LowerBound != nil {
		conds = append(conds, squirrel.GtOrEq{"value": *f.LowerBound})
	}
	if f.HigherBound != nil {
		conds = append(conds, squirrel.LtOrEq{"value": *f.HigherBound})
	}
	return conds
}

// orderClause translates an ordering such as "-value_date". Unknown
// columns fall back to the default.
func orderClause(ordering string) string {
	dir := "ASC"
	if strings.HasPrefix(ordering, "-") {
		dir = "DESC"
		ordering = ordering[1:]
	}
	col, ok := rateOrderings[ordering]
	if !ok {
		col, dir = "value_date", "DESC"
	}
	return col + " " + dir
}

func (r *PgxRateRepository) ScanRates(ctx context.Context, filter domain.RateFilter) (*domain.RatePage, error) {
	q := psql.Select(rateColumns...).From("rates").
		Where(scanConditions(filter)).
		OrderBy(orderClause(filter.Ordering), "id ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit + 1))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, mapError(err, "rates", "scan")
	}
	var rows []models.Rate
	if err := pgxscan.Select(ctx, r.Pool, &rows, query, args...); err != nil {
		return nil, mapError(err, "rates", "scan")
	}

	page := &domain.RatePage{}
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
		page.HasMore = true
		page.NextOffset = filter.Offset + filter.Limit
	}
	page.Rates = mapping.ToDomainRates(rows)
	return page, nil
}

func (r *PgxRateRepository) LatestRates(ctx context.Context, filter domain.LatestFilter) ([]domain.Rate, error) {
	counterpart := "currency"
	if filter.BaseCurrency == "" {
		counterpart = "base_currency"
	}
	conds := squirrel.And{viewerCondition(filter.Viewer)}
	if filter.Key != nil {
		conds = append(conds, keyOrNullCondition(filter.Viewer, *filter.Key))
	}
	if filter.Currency != "" {
		conds = append(conds, squirrel.Eq{"currency": filter.Currency})
	}
	if filter.BaseCurrency != "" {
		conds = append(conds, squirrel.Eq{"base_currency": filter.BaseCurrency})
	}
	query, args, err := psql.Select(rateColumns...).
		Options("DISTINCT ON (" + counterpart + ")").
		From("rates").
		Where(conds).
		OrderBy(counterpart, "value_date DESC", "user_id NULLS LAST", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, mapError(err, "rates", "latest")
	}
	var rows []models.Rate
	if err := pgxscan.Select(ctx, r.Pool, &rows, query, args...); err != nil {
		return nil, mapError(err, "rates", "latest")
	}
	return mapping.ToDomainRates(rows), nil
}

func (r *PgxRateRepository) ListRatesAtDate(ctx context.Context, scope domain.RateScope, date time.Time) ([]domain.Rate, error) {
	conds := squirrel.And{viewerCondition(scope.UserID), squirrel.Eq{"value_date": domain.Day(date)}}
	if scope.Key == "" {
		conds = append(conds, squirrel.Eq{"key": nil})
	} else {
		conds = append(conds, squirrel.Or{squirrel.Eq{"key": nil}, squirrel.Eq{"key": scope.Key}})
	}
	query, args, err := psql.Select(rateColumns...).From("rates").
		Where(conds).
		OrderBy("currency", "base_currency", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, mapError(err, "rates", "at date")
	}
	var rows []models.Rate
	if err := pgxscan.Select(ctx, r.Pool, &rows, query, args...); err != nil {
		return nil, mapError(err, "rates", "at date")
	}
	return mapping.ToDomainRates(rows), nil
}

func (r *PgxRateRepository) SaveRate(ctx context.Context, rate domain.Rate) (*domain.Rate, error) {
	var saved domain.Rate
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		saved, err = r.insertWithReverse(ctx, tx, rate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *PgxRateRepository) SaveRates(ctx context.Context, rates []domain.Rate) ([]domain.Rate, error) {
	saved := make([]domain.Rate, 0, len(rates))
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		for _, rate := range rates {
			s, err := r.insertWithReverse(ctx, tx, rate)
			if err != nil {
				return err
			}
			saved = append(saved, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// insertWithReverse inserts rate, then its reverse unless the scope already
// holds it or the value is zero.
func (r *PgxRateRepository) insertWithReverse(ctx context.Context, q Querier, rate domain.Rate) (domain.Rate, error) {
	if rate.ID == "" {
		rate.ID = uuid.NewString()
	}
	if rate.CreatedAt.IsZero() {
		rate.CreatedAt = r.now().UTC()
	}
	rate.ValueDate = domain.Day(rate.ValueDate)
	if err := r.insert(ctx, q, rate, false); err != nil {
		return domain.Rate{}, err
	}
	if rev, ok := rate.Reverse(); ok {
		rev.ID = uuid.NewString()
		if err := r.insert(ctx, q, rev, true); err != nil {
			return domain.Rate{}, err
		}
	}
	return rate, nil
}

func (r *PgxRateRepository) insert(ctx context.Context, q Querier, rate domain.Rate, skipExisting bool) error {
	m := mapping.ToModelRate(rate)
	ins := psql.Insert("rates").Columns(rateColumns...).
		Values(m.ID, m.UserID, m.Key, m.ValueDate, m.Currency, m.BaseCurrency, m.Value, m.CreatedAt)
	if skipExisting {
		ins = ins.Suffix("ON CONFLICT DO NOTHING")
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return mapError(err, "rate", m.ID)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return mapError(err, "rate", m.Currency+"/"+m.BaseCurrency+"@"+m.ValueDate.Format(domain.DateLayout))
	}
	return nil
}

func (r *PgxRateRepository) DeleteRate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return mapError(pgx.ErrNoRows, "rate", id)
	}
	query, args, err := psql.Delete("rates").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return mapError(err, "rate", id)
	}
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "rate", id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "rate", id)
	}
	return nil
}
