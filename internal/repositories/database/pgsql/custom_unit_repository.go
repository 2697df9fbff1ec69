package pgsql

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	"github.com/SscSPs/geocurrency/internal/models"
	"github.com/SscSPs/geocurrency/internal/utils/mapping"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var customUnitColumns = []string{
	"id", "user_id", "key", "unit_system", "code", "name", "relation", "symbol", "alias",
	"created_at", "created_by", "last_updated_at", "last_updated_by",
}

// PgxCustomUnitRepository implements portsrepo.CustomUnitRepositoryFacade using pgx.
type PgxCustomUnitRepository struct {
	BaseRepository
}

func newPgxCustomUnitRepository(db DB) *PgxCustomUnitRepository {
	return &PgxCustomUnitRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.CustomUnitRepositoryFacade = (*PgxCustomUnitRepository)(nil)

func (r *PgxCustomUnitRepository) GetCustomUnitByID(ctx context.Context, id string) (*domain.CustomUnit, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, mapError(pgx.ErrNoRows, "custom unit", id)
	}
	query, args, err := psql.Select(customUnitColumns...).From("custom_units").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, mapError(err, "custom unit", id)
	}
	var row models.CustomUnit
	if err := pgxscan.Get(ctx, r.Pool, &row, query, args...); err != nil {
		return nil, mapError(err, "custom unit", id)
	}
	u := mapping.ToDomainCustomUnit(row)
	return &u, nil
}

func (r *PgxCustomUnitRepository) ListCustomUnits(ctx context.Context, filter domain.CustomUnitFilter) ([]domain.CustomUnit, error) {
	conds := squirrel.And{viewerCondition(filter.Viewer)}
	if filter.UnitSystem != "" {
		conds = append(conds, squirrel.Eq{"unit_system": filter.UnitSystem})
	}
	if filter.Key != nil {
		conds = append(conds, squirrel.Eq{"key": *filter.Key})
	}
	query, args, err := psql.Select(customUnitColumns...).From("custom_units").
		Where(conds).
		OrderBy("code", "user_id NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, mapError(err, "custom units", filter.UnitSystem)
	}
	var rows []models.CustomUnit
	if err := pgxscan.Select(ctx, r.Pool, &rows, query, args...); err != nil {
		return nil, mapError(err, "custom units", filter.UnitSystem)
	}
	return mapping.ToDomainCustomUnits(rows), nil
}

func (r *PgxCustomUnitRepository) SaveCustomUnit(ctx context.Context, unit domain.CustomUnit) error {
	m := mapping.ToModelCustomUnit(unit)
	query, args, err := psql.Insert("custom_units").Columns(customUnitColumns...).
		Values(m.ID, m.UserID, m.Key, m.UnitSystem, m.Code, m.Name, m.Relation, m.Symbol, m.Alias,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy).
		ToSql()
	if err != nil {
		return mapError(err, "custom unit", m.Code)
	}
	if _, err := r.Pool.Exec(ctx, query, args...); err != nil {
		return mapError(err, "custom unit", m.Code)
	}
	return nil
}

func (r *PgxCustomUnitRepository) UpdateCustomUnit(ctx context.Context, unit domain.CustomUnit) error {
	m := mapping.ToModelCustomUnit(unit)
	query, args, err := psql.Update("custom_units").
		Set("code", m.Code).
		Set("name", m.Name).
		Set("relation", m.Relation).
		Set("symbol", m.Symbol).
		Set("alias", m.Alias).
		Set("last_updated_at", m.LastUpdatedAt).
		Set("last_updated_by", m.LastUpdatedBy).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return mapError(err, "custom unit", m.ID)
	}
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "custom unit", m.ID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "custom unit", m.ID)
	}
	return nil
}

func (r *PgxCustomUnitRepository) DeleteCustomUnit(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return mapError(pgx.ErrNoRows, "custom unit", id)
	}
	query, args, err := psql.Delete("custom_units").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return mapError(err, "custom unit", id)
	}
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "custom unit", id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "custom unit", id)
	}
	return nil
}
