package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRateRequest defines the structure for creating a new rate.
type CreateRateRequest struct {
	Currency     string           `json:"currency" binding:"required,iso4217"`
	BaseCurrency string           `json:"base_currency" binding:"required,iso4217"`
	Key          string           `json:"key" binding:"omitempty,max=255"`
	ValueDate    string           `json:"value_date" binding:"omitempty,isodate"`
	Value        *decimal.Decimal `json:"value" binding:"required"`
}

// BulkRateRequest expands one value into a rate per day of [FromDate, ToDate].
// Dates default to today.
type BulkRateRequest struct {
	Currency     string           `json:"currency" binding:"required,iso4217"`
	BaseCurrency string           `json:"base_currency" binding:"required,iso4217"`
	Key          string           `json:"key" binding:"omitempty,max=255"`
	Value        *decimal.Decimal `json:"value" binding:"required"`
	FromDate     string           `json:"from_date" binding:"omitempty,isodate"`
	ToDate       string           `json:"to_date" binding:"omitempty,isodate"`
}

// ListRatesQuery holds the query parameters of a rate listing.
type ListRatesQuery struct {
	User         bool   `form:"user"`
	Key          string `form:"key"`
	KeyOrNull    string `form:"key_or_null"`
	KeyIsNull    bool   `form:"key_isnull"`
	Currency     string `form:"currency" binding:"omitempty,iso4217"`
	BaseCurrency string `form:"base_currency" binding:"omitempty,iso4217"`
	ValueDate    string `form:"value_date" binding:"omitempty,isodate"`
	From         string `form:"from" binding:"omitempty,isodate"`
	To           string `form:"to" binding:"omitempty,isodate"`
	Value        string `form:"value" binding:"omitempty,number"`
	LowerBound   string `form:"lower_bound" binding:"omitempty,number"`
	HigherBound  string `form:"higher_bound" binding:"omitempty,number"`
	Ordering     string `form:"ordering" binding:"omitempty,oneof=key -key value -value value_date -value_date base_currency -base_currency currency -currency"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=500"`
	PageToken    string `form:"page_token"`
}

// ToRateFilter builds the repository filter of the query as seen by viewer.
func (q ListRatesQuery) ToRateFilter(viewer string) (domain.RateFilter, error) {
	f := domain.RateFilter{
		Viewer:       viewer,
		OnlyViewer:   q.User,
		KeyIsNull:    q.KeyIsNull,
		Currency:     q.Currency,
		BaseCurrency: q.BaseCurrency,
		Ordering:     q.Ordering,
		Limit:        q.Limit,
	}
	if q.Key != "" {
		f.Key = &q.Key
	}
	if q.KeyOrNull != "" {
		f.KeyOrNull = &q.KeyOrNull
	}
	errs := apperrors.FieldErrors{}
	f.ValueDate = optionalDate(q.ValueDate, "value_date", errs)
	f.From = optionalDate(q.From, "from", errs)
	f.To = optionalDate(q.To, "to", errs)
	f.Value = optionalDecimal(q.Value, "value", errs)
	f.LowerBound = optionalDecimal(q.LowerBound, "lower_bound", errs)
	f.HigherBound = optionalDecimal(q.HigherBound, "higher_bound", errs)
	return f, errs.OrNil()
}

// RateStatsQuery holds the query parameters of the rate statistics endpoint.
type RateStatsQuery struct {
	Currency     string `form:"currency" binding:"omitempty,iso4217"`
	BaseCurrency string `form:"base_currency" binding:"omitempty,iso4217"`
	Key          string `form:"key"`
	From         string `form:"from" binding:"omitempty,isodate"`
	To           string `form:"to" binding:"omitempty,isodate"`
	Period       string `form:"period" binding:"omitempty,oneof=week month year"`
}

// ToDomain converts the query for viewer.
func (q RateStatsQuery) ToDomain(viewer string) (domain.RateStatsQuery, error) {
	out := domain.RateStatsQuery{
		Viewer:       viewer,
		Currency:     q.Currency,
		BaseCurrency: q.BaseCurrency,
		Period:       domain.StatPeriod(q.Period),
	}
	if out.Period == "" {
		out.Period = domain.PeriodMonth
	}
	if q.Key != "" {
		out.Key = &q.Key
	}
	errs := apperrors.FieldErrors{}
	out.From = optionalDate(q.From, "from", errs)
	out.To = optionalDate(q.To, "to", errs)
	return out, errs.OrNil()
}

// RateResponse defines the structure for API responses containing rate details.
type RateResponse struct {
	ID           string          `json:"id"`
	User         *string         `json:"user"`
	Key          *string         `json:"key"`
	ValueDate    string          `json:"value_date"`
	Currency     string          `json:"currency"`
	BaseCurrency string          `json:"base_currency"`
	Value        decimal.Decimal `json:"value"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ListRatesResponse is one page of rates.
type ListRatesResponse struct {
	Rates         []RateResponse `json:"rates"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// ToRateResponse converts a domain.Rate to RateResponse DTO
func ToRateResponse(r domain.Rate) RateResponse {
	return RateResponse{
		ID:           r.ID,
		User:         r.UserID,
		Key:          r.Key,
		ValueDate:    r.ValueDate.Format(domain.DateLayout),
		Currency:     r.Currency,
		BaseCurrency: r.BaseCurrency,
		Value:        r.Value,
		CreatedAt:    r.CreatedAt,
	}
}

// ToListRateResponse converts a slice of domain.Rate to a slice of RateResponse DTOs.
func ToListRateResponse(rates []domain.Rate) []RateResponse {
	responses := make([]RateResponse, len(rates))
	for i, r := range rates {
		responses[i] = ToRateResponse(r)
	}
	return responses
}

func optionalDate(s, field string, errs apperrors.FieldErrors) *time.Time {
	if s == "" {
		return nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		errs.Add(field, "expected a YYYY-MM-DD date")
		return nil
	}
	return &d
}

func optionalDecimal(s, field string, errs apperrors.FieldErrors) *decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		errs.Add(field, "expected a decimal number")
		return nil
	}
	return &d
}

// LatestRatesQuery selects the most recent rate per counterpart of Currency
// or BaseCurrency.
type LatestRatesQuery struct {
	Currency     string `form:"currency" binding:"omitempty,iso4217"`
	BaseCurrency string `form:"base_currency" binding:"omitempty,iso4217"`
	Key          string `form:"key"`
}

// ToDomain converts the query for viewer.
func (q LatestRatesQuery) ToDomain(viewer string) domain.LatestFilter {
	f := domain.LatestFilter{Viewer: viewer, Currency: q.Currency, BaseCurrency: q.BaseCurrency}
	if q.Key != "" {
		f.Key = &q.Key
	}
	return f
}
