package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/batch"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyChecker tells known currency codes apart.
type CurrencyChecker interface {
	IsCurrency(code string) bool
}

// rateBatch is the stored state of a rate conversion batch. Rates caches the
// outcome of each (currency, date) lookup made while appending.
type rateBatch struct {
	Target  string                `json:"target"`
	UserID  string                `json:"user_id,omitempty"`
	Key     string                `json:"key,omitempty"`
	Amounts []domain.Amount       `json:"amounts"`
	Rates   map[string]cachedRate `json:"rates"`
}

type cachedRate struct {
	Value decimal.Decimal `json:"value"`
	Code  string          `json:"code,omitempty"`
	Error string          `json:"error,omitempty"`
}

func rateCacheKey(currency string, date time.Time) string {
	return currency + "|" + date.Format(domain.DateLayout)
}

func (b *rateBatch) scope() domain.RateScope {
	return domain.RateScope{UserID: b.UserID, Key: b.Key}
}

// rateEvaluator converts amounts once the batch is closed
type rateEvaluator struct {
	BaseService
	resolver   portssvc.RateResolverSvc
	currencies CurrencyChecker
}

var _ batch.Evaluator[rateBatch, domain.Amount, domain.RateConversionResult] = (*rateEvaluator)(nil)

func (e *rateEvaluator) Restore(_ context.Context, state *rateBatch) error {
	if state.Rates == nil {
		state.Rates = map[string]cachedRate{}
	}
	return nil
}

// Add looks up the rate of every new (currency, date) pair so evaluation
// only reads the batch state.
func (e *rateEvaluator) Add(ctx context.Context, state *rateBatch, items []domain.Amount) error {
	for _, a := range items {
		key := rateCacheKey(a.Currency, a.Date)
		if _, ok := state.Rates[key]; ok {
			continue
		}
		if !e.currencies.IsCurrency(a.Currency) {
			state.Rates[key] = cachedRate{Code: domain.CodeUnknownCurrency, Error: "unknown currency " + a.Currency}
			continue
		}
		res, err := e.resolver.RateAt(ctx, state.scope(), state.Target, a.Currency, a.Date)
		switch {
		case err == nil:
			state.Rates[key] = cachedRate{Value: res.Rate.Value}
		case errors.Is(err, apperrors.ErrNoRate):
			state.Rates[key] = cachedRate{Code: domain.CodeNoRate, Error: err.Error()}
		case errors.Is(err, apperrors.ErrRatesUnavailable):
			state.Rates[key] = cachedRate{Code: domain.CodeRatesUnavailable, Error: err.Error()}
		default:
			e.LogError(ctx, err, "Rate lookup failed",
				slog.String("currency", a.Currency), slog.String("target", state.Target))
			return err
		}
	}
	state.Amounts = append(state.Amounts, items...)
	return nil
}

func (e *rateEvaluator) Evaluate(_ context.Context, id string, state *rateBatch) (domain.RateConversionResult, bool, error) {
	res := domain.RateConversionResult{
		ID:     id,
		Target: state.Target,
		Detail: []domain.RateConversionDetail{},
		Errors: []domain.RateConversionError{},
		Sum:    decimal.Zero,
	}
	for _, a := range state.Amounts {
		date := a.Date.Format(domain.DateLayout)
		cached, ok := state.Rates[rateCacheKey(a.Currency, a.Date)]
		if !ok {
			return res, true, fmt.Errorf("batch %s: no rate looked up for %s at %s", id, a.Currency, date)
		}
		fail := func(code, msg string) {
			res.Errors = append(res.Errors, domain.RateConversionError{
				Currency: a.Currency, Amount: a.Amount, Date: date, Code: code, Error: msg,
			})
		}
		switch {
		case cached.Code != "":
			fail(cached.Code, cached.Error)
		case cached.Value.IsZero():
			fail(domain.CodeZeroRate, fmt.Sprintf("rate of %s in %s is zero", state.Target, a.Currency))
		default:
			converted := a.Amount.Div(cached.Value)
			res.Detail = append(res.Detail, domain.RateConversionDetail{
				Currency:       a.Currency,
				Amount:         a.Amount,
				Date:           date,
				ConversionRate: cached.Value,
				ConvertedValue: converted,
			})
			res.Sum = res.Sum.Add(converted)
		}
	}
	return res, len(res.Errors) > 0, nil
}

// rateConverterService implements the RateConverterSvc interface
type rateConverterService struct {
	BaseService
	process *batch.Process[rateBatch, domain.Amount, domain.RateConversionResult]
}

// NewRateConverterService creates a rate converter persisting batches in cache
func NewRateConverterService(bs BatchSettings, resolver portssvc.RateResolverSvc, currencies CurrencyChecker) portssvc.RateConverterSvc {
	store := batch.NewStore[rateBatch](bs.Cache, batch.KindRate, bs.Config, bs.Locks)
	eval := &rateEvaluator{resolver: resolver, currencies: currencies}
	return &rateConverterService{process: batch.NewProcess(store, eval)}
}

var _ portssvc.RateConverterSvc = (*rateConverterService)(nil)

// Convert appends the amounts of req to its batch. The target, key and user
// of a batch are those of the request that opened it.
func (s *rateConverterService) Convert(ctx context.Context, req dto.ConvertRatesRequest, userID string) (*domain.RateConversionResult, error) {
	if len(req.Data) == 0 && !req.ClosesWithoutData() {
		return nil, apperrors.NewValidationError("data is required unless closing a batch")
	}
	fields := apperrors.FieldErrors{}
	items := make([]domain.Amount, 0, len(req.Data))
	for i, d := range req.Data {
		date, err := domain.ParseDate(d.Date)
		if err != nil {
			fields.Add("data["+strconv.Itoa(i)+"].date", "must be a YYYY-MM-DD date")
			continue
		}
		items = append(items, domain.Amount{Currency: d.Currency, Amount: d.Amount, Date: date})
	}
	if err := fields.OrNil(); err != nil {
		return nil, err
	}

	out, err := s.process.Submit(ctx, batch.Submission[rateBatch, domain.Amount]{
		BatchID: req.BatchID,
		Items:   items,
		EOB:     req.EOB,
		Init: func() rateBatch {
			return rateBatch{Target: req.Target, UserID: userID, Key: req.Key, Rates: map[string]cachedRate{}}
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Result == nil {
		return &domain.RateConversionResult{ID: out.ID, Target: req.Target, Status: string(out.Status)}, nil
	}
	res := *out.Result
	res.ID, res.Status = out.ID, string(out.Status)
	s.LogBatchFinished(ctx, batch.KindRate, res.ID, res.Status, len(res.Detail), len(res.Errors))
	return &res, nil
}
