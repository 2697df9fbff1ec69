package units

import (
	"fmt"

	"github.com/SscSPs/geocurrency/internal/apperrors"
)

var (
	ErrUnknownSystem    = fmt.Errorf("%w: unknown unit system", apperrors.ErrNotFound)
	ErrUnknownDimension = fmt.Errorf("%w: unknown dimension", apperrors.ErrNotFound)
	// ErrUndefinedUnit is returned when a name resolves to nothing in the registry.
	ErrUndefinedUnit = fmt.Errorf("%w: undefined unit in the registry", apperrors.ErrNotFound)
	// ErrIncompatibleUnits is returned when two units have different dimensionalities.
	ErrIncompatibleUnits = fmt.Errorf("%w: dimensionality error, incompatible units", apperrors.ErrDimensionMismatch)
	ErrInvalidExpression = fmt.Errorf("%w: invalid unit expression", apperrors.ErrValidation)
	// ErrOffsetUnit is returned when an offset unit (degree Celsius...) appears in a product.
	ErrOffsetUnit = fmt.Errorf("%w: offset units cannot be combined", apperrors.ErrEvaluation)
)

// UnitValueError reports a custom unit relation that does not parse
// as "<float> <unit expression>".
type UnitValueError struct {
	Relation string
	Err      error
}

func (e *UnitValueError) Error() string {
	return fmt.Sprintf("invalid relation %q: %v", e.Relation, e.Err)
}

func (e *UnitValueError) Unwrap() error {
	return apperrors.ErrValidation
}

// UnitDimensionError reports a custom unit relation whose dimensionality
// cannot be determined in the target system.
type UnitDimensionError struct {
	Relation string
	Err      error
}

func (e *UnitDimensionError) Error() string {
	return fmt.Sprintf("undefined dimensionality for %q: %v", e.Relation, e.Err)
}

func (e *UnitDimensionError) Unwrap() error {
	return apperrors.ErrValidation
}
