package dto

import (
	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/SscSPs/geocurrency/internal/expression"
	"github.com/shopspring/decimal"
)

// BatchRequest holds the fields shared by every conversion payload. Data
// may only be omitted when closing an existing batch.
type BatchRequest struct {
	BatchID string `json:"batch_id" binding:"omitempty,uuid"`
	Key     string `json:"key" binding:"omitempty,max=255"`
	EOB     bool   `json:"eob"`
}

// ClosesWithoutData reports whether the request only finalizes a batch.
func (b BatchRequest) ClosesWithoutData() bool {
	return b.BatchID != "" && b.EOB
}

// AmountRequest is one amount of a rate conversion.
type AmountRequest struct {
	Currency string          `json:"currency" binding:"required,len=3,uppercase"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date" binding:"required,isodate"`
}

// ConvertRatesRequest converts amounts to Target.
type ConvertRatesRequest struct {
	BatchRequest
	Target string          `json:"target" binding:"required,iso4217"`
	Data   []AmountRequest `json:"data" binding:"omitempty,dive"`
}

// QuantityRequest is one quantity of a unit conversion.
type QuantityRequest struct {
	System string  `json:"system" binding:"omitempty,unitsystem"`
	Unit   string  `json:"unit" binding:"required"`
	Value  float64 `json:"value"`
	Date   string  `json:"date" binding:"omitempty,isodate"`
}

// ConvertUnitsRequest converts quantities to BaseUnit of BaseSystem.
type ConvertUnitsRequest struct {
	BatchRequest
	BaseSystem string            `json:"base_system" binding:"required,unitsystem"`
	BaseUnit   string            `json:"base_unit" binding:"required"`
	Data       []QuantityRequest `json:"data" binding:"omitempty,dive"`
}

// CalculationRequest evaluates expressions in a unit system. UnitSystem
// defaults to the system of the request path.
type CalculationRequest struct {
	BatchRequest
	UnitSystem string                  `json:"unit_system" binding:"omitempty,unitsystem"`
	Data       []expression.Expression `json:"data"`
}

// ValidationResponse reports the outcome of a formula validation. Errors
// lists the failing expressions when Valid is false.
type ValidationResponse struct {
	Valid  bool                      `json:"valid"`
	Errors []domain.CalculationError `json:"errors,omitempty"`
}

// BatchStatusResponse is returned for a batch still accepting items.
type BatchStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
