package pgsql

import (
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the Postgres repositories over db, usually a *pgxpool.Pool.
func NewRepositoryProvider(db DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:       newPgxRateRepository(db),
		CustomUnitRepo: newPgxCustomUnitRepository(db),
	}
}
