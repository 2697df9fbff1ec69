package domain

import "github.com/SscSPs/geocurrency/internal/expression"

// CalculationDetail is one evaluated expression.
type CalculationDetail struct {
	Expression  string               `json:"expression"`
	Operands    []expression.Operand `json:"operands"`
	Magnitude   float64              `json:"magnitude"`
	Uncertainty float64              `json:"uncertainty"`
	Unit        string               `json:"unit"`
}

// CalculationError is an expression that failed a pipeline stage.
type CalculationError struct {
	Expression string               `json:"expression"`
	Operands   []expression.Operand `json:"operands"`
	CalcDate   string               `json:"calc_date"`
	Code       string               `json:"code"`
	Error      string               `json:"error"`
}

// CalculationResult is the outcome of an expression batch.
type CalculationResult struct {
	ID     string              `json:"id"`
	Detail []CalculationDetail `json:"detail"`
	Status string              `json:"status"`
	Errors []CalculationError  `json:"errors"`
}
