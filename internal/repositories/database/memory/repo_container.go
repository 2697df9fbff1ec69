package memory

import (
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
)

// NewRepositoryProvider builds empty in-memory repositories.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:       NewRateRepository(),
		CustomUnitRepo: NewCustomUnitRepository(),
	}
}
