package services

import (
	"context"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/SscSPs/geocurrency/internal/dto"
)

// UnitSvc answers unit registry lookups, with the caller's custom units
// overlaid on the built-in registry.
type UnitSvc interface {
	ListSystems(ctx context.Context) []domain.UnitSystemInfo
	GetSystem(ctx context.Context, name string) (*domain.UnitSystemInfo, error)
	ListDimensions(ctx context.Context, q domain.UnitQuery, ordering string) ([]domain.DimensionInfo, error)

	// ListUnits lists units of a system, optionally restricted to a dimension.
	ListUnits(ctx context.Context, q domain.UnitQuery, dimension string) ([]domain.UnitInfo, error)
	GetUnit(ctx context.Context, q domain.UnitQuery, code string) (*domain.UnitInfo, error)

	// CompatibleUnits lists the units sharing the dimensionality of code.
	CompatibleUnits(ctx context.Context, q domain.UnitQuery, code string) ([]domain.UnitInfo, error)
}

// UnitConverterSvc converts quantities between units in batches.
type UnitConverterSvc interface {
	Convert(ctx context.Context, req dto.ConvertUnitsRequest, userID string) (*domain.UnitConversionResult, error)
}

// CustomUnitReaderSvc defines read operations for custom units
type CustomUnitReaderSvc interface {
	ListCustomUnits(ctx context.Context, filter domain.CustomUnitFilter) ([]domain.CustomUnit, error)
	GetCustomUnit(ctx context.Context, system, id, viewer string) (*domain.CustomUnit, error)
}

// CustomUnitWriterSvc defines write operations for custom units. Writes
// require a user and only touch rows the user owns.
type CustomUnitWriterSvc interface {
	CreateCustomUnit(ctx context.Context, system string, req dto.CustomUnitRequest, userID string) (*domain.CustomUnit, error)
	UpdateCustomUnit(ctx context.Context, system, id string, req dto.CustomUnitRequest, userID string) (*domain.CustomUnit, error)
	DeleteCustomUnit(ctx context.Context, system, id, userID string) error
}

// CustomUnitSvcFacade combines all custom unit-related service interfaces
type CustomUnitSvcFacade interface {
	CustomUnitReaderSvc
	CustomUnitWriterSvc
}

// CalculationSvc validates and evaluates expressions over quantities.
type CalculationSvc interface {
	Calculate(ctx context.Context, system string, req dto.CalculationRequest, userID string) (*domain.CalculationResult, error)

	// Validate runs every check but evaluation. An empty slice means every
	// expression is valid.
	Validate(ctx context.Context, system string, req dto.CalculationRequest, userID string) ([]domain.CalculationError, error)
}

// WatchSvc reports the status of batches of any kind.
type WatchSvc interface {
	Watch(ctx context.Context, id string) (*domain.BatchStatus, error)
}
