// Package expression validates and evaluates formulas whose operands are
// physical quantities, propagating uncertainties to first order.
package expression

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/SscSPs/geocurrency/internal/apperrors"
)

// Code classifies an expression failure.
type Code string

const (
	CodeMissingOperand             Code = "missing-operand"
	CodeBadExpression              Code = "bad-expression"
	CodeIncoherentDimensions       Code = "incoherent-dimensions"
	CodeIncoherentOutputDimensions Code = "incoherent-output-dimensions"
	CodeEvaluationError            Code = "evaluation-error"
)

// Operand binds a placeholder name to a measured value.
// Uncertainty is an absolute value ("0.01") or a percentage of Value ("10%").
type Operand struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Uncertainty string  `json:"uncertainty,omitempty"`
}

// Expression is a formula with "{name}" placeholders and its operands.
type Expression struct {
	Formula  string    `json:"expression"`
	Operands []Operand `json:"operands"`
	OutUnits string    `json:"out_units,omitempty"`
}

// Result is an evaluated expression.
type Result struct {
	Magnitude   float64
	Uncertainty float64
	Unit        string
}

// Error is a coded expression failure. Field names the offending input
// ("operands[1].unit") when there is one.
type Error struct {
	Code  Code
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error {
	switch e.Code {
	case CodeIncoherentDimensions, CodeIncoherentOutputDimensions:
		return apperrors.ErrDimensionMismatch
	case CodeEvaluationError:
		return apperrors.ErrEvaluation
	}
	return apperrors.ErrValidation
}

func newError(code Code, field, format string, args ...any) *Error {
	return &Error{Code: code, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// ParseUncertainty resolves u against value: "" is 0, "10%" is 10% of |value|.
func ParseUncertainty(u string, value float64) (float64, error) {
	u = strings.TrimSpace(u)
	if u == "" {
		return 0, nil
	}
	pct := strings.HasSuffix(u, "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(u, "%")), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid uncertainty %q", u)
	}
	if v < 0 {
		return 0, fmt.Errorf("uncertainty %q must not be negative", u)
	}
	if pct {
		return math.Abs(value) * v / 100, nil
	}
	return v, nil
}
