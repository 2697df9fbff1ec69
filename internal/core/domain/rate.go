package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of value dates.
const DateLayout = "2006-01-02"

// Rate prices BaseCurrency in Currency at ValueDate: one unit of
// BaseCurrency is worth Value units of Currency.
// A nil UserID or Key marks an unscoped rate.
type Rate struct {
	ID           string          `json:"id"`
	UserID       *string         `json:"user,omitempty"`
	Key          *string         `json:"key,omitempty"`
	ValueDate    time.Time       `json:"value_date"`
	Currency     string          `json:"currency"`
	BaseCurrency string          `json:"base_currency"`
	Value        decimal.Decimal `json:"value"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Reverse returns the rate pricing Currency in BaseCurrency under the same
// scope and date. ok is false when Value is zero.
func (r Rate) Reverse() (rev Rate, ok bool) {
	if r.Value.IsZero() {
		return Rate{}, false
	}
	rev = r
	rev.ID = ""
	rev.Currency, rev.BaseCurrency = r.BaseCurrency, r.Currency
	rev.Value = decimal.NewFromInt(1).DivRound(r.Value, 16)
	return rev, true
}

// Scope returns the (user, key) partition the rate belongs to.
func (r Rate) Scope() RateScope {
	var s RateScope
	if r.UserID != nil {
		s.UserID = *r.UserID
	}
	if r.Key != nil {
		s.Key = *r.Key
	}
	return s
}

// RateScope partitions rates per user and key. Empty strings mean unscoped.
type RateScope struct {
	UserID string
	Key    string
}

// UserPtr returns the user as a nullable column value.
func (s RateScope) UserPtr() *string {
	return nullable(s.UserID)
}

// KeyPtr returns the key as a nullable column value.
func (s RateScope) KeyPtr() *string {
	return nullable(s.Key)
}

// Sees reports whether a rate is visible to the scope when resolving:
// its user is empty or the caller, and its key is empty or the caller's.
func (s RateScope) Sees(r Rate) bool {
	if r.UserID != nil && *r.UserID != s.UserID {
		return false
	}
	if r.Key != nil && *r.Key != s.Key {
		return false
	}
	return true
}

// Owns reports whether the rate was written under exactly this scope.
func (s RateScope) Owns(r Rate) bool {
	return r.Scope() == s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RateFilter selects rates for listing. Viewer is the caller; rates owned by
// other users are never returned.
type RateFilter struct {
	Viewer       string
	OnlyViewer   bool
	Key          *string
	KeyOrNull    *string
	KeyIsNull    bool
	Currency     string
	BaseCurrency string
	ValueDate    *time.Time
	From         *time.Time
	To           *time.Time
	Value        *decimal.Decimal
	LowerBound   *decimal.Decimal
	HigherBound  *decimal.Decimal
	// Ordering is one of key, value, value_date, base_currency, currency,
	// "-" prefixed for descending. Empty means -value_date.
	Ordering string
	Limit    int
	Offset   int
}

// Matches applies the filter to one rate.
func (f RateFilter) Matches(r Rate) bool {
	viewer := nullable(f.Viewer)
	if r.UserID != nil && (viewer == nil || *r.UserID != *viewer) {
		return false
	}
	if f.OnlyViewer && !sameNullable(r.UserID, viewer) {
		return false
	}
	if f.Key != nil {
		if viewer == nil {
			if r.UserID != nil {
				return false
			}
		} else if !sameNullable(r.UserID, viewer) || !sameNullable(r.Key, f.Key) {
			return false
		}
	}
	if f.KeyOrNull != nil {
		if viewer == nil {
			if r.UserID != nil {
				return false
			}
		} else if r.Key != nil && !(sameNullable(r.UserID, viewer) && *r.Key == *f.KeyOrNull) {
			return false
		}
	}
	if f.KeyIsNull && r.Key != nil {
		return false
	}
	if f.Currency != "" && r.Currency != f.Currency {
		return false
	}
	if f.BaseCurrency != "" && r.BaseCurrency != f.BaseCurrency {
		return false
	}
	if f.ValueDate != nil && !r.ValueDate.Equal(*f.ValueDate) {
		return false
	}
	if f.From != nil && r.ValueDate.Before(*f.From) {
		return false
	}
	if f.To != nil && r.ValueDate.After(*f.To) {
		return false
	}
	if f.Value != nil && !r.Value.Equal(*f.Value) {
		return false
	}
	if f.LowerBound != nil && r.Value.LessThan(*f.LowerBound) {
		return false
	}
	if f.HigherBound != nil && r.Value.GreaterThan(*f.HigherBound) {
		return false
	}
	return true
}

func sameNullable(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// RatePage is one page of a rate listing.
type RatePage struct {
	Rates      []Rate
	NextOffset int
	HasMore    bool
}

// LatestFilter selects, per counterpart, the most recent visible rate for a
// currency or a base currency.
type LatestFilter struct {
	Viewer       string
	Key          *string
	Currency     string
	BaseCurrency string
}

// StatPeriod buckets rate statistics.
type StatPeriod string

const (
	PeriodWeek  StatPeriod = "week"
	PeriodMonth StatPeriod = "month"
	PeriodYear  StatPeriod = "year"
)

// Bucket returns the label of the period containing d: "2020", "2020-07"
// or the ISO week "2020-30".
func (p StatPeriod) Bucket(d time.Time) string {
	switch p {
	case PeriodYear:
		return d.Format("2006")
	case PeriodWeek:
		y, w := d.ISOWeek()
		return fmtYearPart(y, w)
	}
	return fmtYearPart(d.Year(), int(d.Month()))
}

// RateStat aggregates the values of one currency pair over one period.
type RateStat struct {
	Currency     string          `json:"currency"`
	BaseCurrency string          `json:"base_currency"`
	Period       string          `json:"period"`
	Count        int             `json:"count"`
	Avg          decimal.Decimal `json:"avg"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	StdDev       decimal.Decimal `json:"std_dev"`
}

// BulkRate expands into one rate per day of [From, To].
type BulkRate struct {
	Currency     string
	BaseCurrency string
	Key          string
	Value        decimal.Decimal
	From         time.Time
	To           time.Time
}

// RateStatsQuery selects the rates aggregated by RateStats.
type RateStatsQuery struct {
	Viewer       string
	Key          *string
	Currency     string
	BaseCurrency string
	From         *time.Time
	To           *time.Time
	Period       StatPeriod
}

// RateResolution is a rate found by the resolver. Path lists the currency
// codes walked from Currency to BaseCurrency; it has two entries for a
// direct rate.
type RateResolution struct {
	Rate     Rate
	Path     []string
	Composed bool
}

// FetchRequest asks a provider for the rates of Base at Date. An empty
// Currency asks for every counterpart; a non-zero ToDate asks for the
// inclusive range [Date, ToDate].
type FetchRequest struct {
	Base     string
	Currency string
	Date     time.Time
	ToDate   time.Time
}
