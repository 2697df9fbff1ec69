package repositories

import (
	"context"

	"github.com/SscSPs/geocurrency/internal/core/domain"
)

// CustomUnitReader defines read operations for custom unit data
type CustomUnitReader interface {
	GetCustomUnitByID(ctx context.Context, id string) (*domain.CustomUnit, error)

	// ListCustomUnits returns the viewer's units plus anonymous ones, ordered by code.
	ListCustomUnits(ctx context.Context, filter domain.CustomUnitFilter) ([]domain.CustomUnit, error)
}

// CustomUnitWriter defines write operations for custom unit data
type CustomUnitWriter interface {
	// SaveCustomUnit inserts a unit. (user, key, unit_system, code) is unique.
	SaveCustomUnit(ctx context.Context, unit domain.CustomUnit) error

	UpdateCustomUnit(ctx context.Context, unit domain.CustomUnit) error

	DeleteCustomUnit(ctx context.Context, id string) error
}

// CustomUnitRepositoryFacade combines all custom unit-related repository interfaces
type CustomUnitRepositoryFacade interface {
	CustomUnitReader
	CustomUnitWriter
}
