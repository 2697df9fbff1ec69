package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a monetary amount to convert.
type Amount struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}

// ConversionError codes reported per item.
const (
	CodeUnknownCurrency  = "unknown-currency"
	CodeNoRate           = "no-rate"
	CodeZeroRate         = "zero-rate"
	CodeRatesUnavailable = "rates-unavailable"
	CodeUnknownUnit      = "unknown-unit"
	CodeDimensionality   = "dimensionality-error"
)

// RateConversionDetail is one converted amount.
type RateConversionDetail struct {
	Currency       string          `json:"currency"`
	Amount         decimal.Decimal `json:"amount"`
	Date           string          `json:"date"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	ConvertedValue decimal.Decimal `json:"converted_value"`
}

// RateConversionError is an amount that could not be converted.
type RateConversionError struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Code     string          `json:"code"`
	Error    string          `json:"error"`
}

// RateConversionResult is the outcome of a rate conversion batch.
type RateConversionResult struct {
	ID     string                 `json:"id"`
	Target string                 `json:"target"`
	Detail []RateConversionDetail `json:"detail"`
	Sum    decimal.Decimal        `json:"sum"`
	Status string                 `json:"status"`
	Errors []RateConversionError  `json:"errors"`
}

// UnitAmount is a quantity to convert.
type UnitAmount struct {
	System string  `json:"system"`
	Unit   string  `json:"unit"`
	Value  float64 `json:"value"`
	Date   string  `json:"date,omitempty"`
}

// UnitConversionDetail is one converted quantity.
type UnitConversionDetail struct {
	System         string  `json:"system"`
	Unit           string  `json:"unit"`
	Value          float64 `json:"value"`
	Date           string  `json:"date,omitempty"`
	ConvertedValue float64 `json:"converted_value"`
}

// UnitConversionError is a quantity that could not be converted.
type UnitConversionError struct {
	System string  `json:"system"`
	Unit   string  `json:"unit"`
	Value  float64 `json:"value"`
	Date   string  `json:"date,omitempty"`
	Code   string  `json:"code"`
	Error  string  `json:"error"`
}

// UnitConversionResult is the outcome of a unit conversion batch.
type UnitConversionResult struct {
	ID     string                 `json:"id"`
	Target string                 `json:"target"`
	Detail []UnitConversionDetail `json:"detail"`
	Sum    float64                `json:"sum"`
	Status string                 `json:"status"`
	Errors []UnitConversionError  `json:"errors"`
}
