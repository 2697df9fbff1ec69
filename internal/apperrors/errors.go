package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller is anonymous where a user is required.
var ErrUnauthorized = errors.New("authentication required")

// ErrForbidden indicates that the caller does not own the resource it tries to modify.
var ErrForbidden = errors.New("forbidden")

// ErrRatesUnavailable indicates that a rate provider could not supply rates.
var ErrRatesUnavailable = errors.New("rates unavailable")

// ErrNoRate indicates that no direct or composed rate exists for a currency pair at a date.
var ErrNoRate = errors.New("no rate found")

// ErrDimensionMismatch indicates incompatible unit or expression dimensions.
var ErrDimensionMismatch = errors.New("dimensional mismatch")

// ErrEvaluation indicates an arithmetic failure while evaluating an expression.
var ErrEvaluation = errors.New("evaluation error")

// AppError carries an HTTP-ish status code along with a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a message and status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error matching ErrNotFound.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

// NewValidationError returns an error matching ErrValidation.
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// NewConflictError returns an error matching ErrDuplicate.
func NewConflictError(message string) error {
	return fmt.Errorf("%w: %s", ErrDuplicate, message)
}

// FieldErrors collects validation messages per input field.
// It matches ErrValidation with errors.Is.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Merge copies every message of other under prefix.
func (fe FieldErrors) Merge(prefix string, other FieldErrors) {
	for field, msgs := range other {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		fe[key] = append(fe[key], msgs...)
	}
}

// Empty reports whether no message was recorded.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// OrNil returns fe as an error, or nil when it holds no messages.
func (fe FieldErrors) OrNil() error {
	if fe.Empty() {
		return nil
	}
	return fe
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(fe[field], ", "))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Is(target error) bool {
	return target == ErrValidation
}
