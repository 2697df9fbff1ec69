package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is a row of the rates table.
type Rate struct {
	ID           string          `db:"id"`
	UserID       *string         `db:"user_id"`
	Key          *string         `db:"key"`
	ValueDate    time.Time       `db:"value_date"`
	Currency     string          `db:"currency"`
	BaseCurrency string          `db:"base_currency"`
	Value        decimal.Decimal `db:"value"`
	CreatedAt    time.Time       `db:"created_at"`
}
