package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	defaultRatePageSize = 100
	// longest range a bulk request may expand
	maxBulkDays = 3660
)

// rateService implements the RateSvcFacade interface
type rateService struct {
	BaseService
	rateRepo portsrepo.RateRepositoryFacade
	now      func() time.Time
}

// NewRateService creates a new rate service
func NewRateService(rateRepo portsrepo.RateRepositoryFacade) portssvc.RateSvcFacade {
	return &rateService{rateRepo: rateRepo, now: time.Now}
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

func (s *rateService) GetRate(ctx context.Context, id, viewer string) (*domain.Rate, error) {
	rate, err := s.rateRepo.GetRateByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find rate by ID", slog.String("rate_id", id))
		}
		return nil, err
	}
	if rate.UserID != nil && *rate.UserID != viewer {
		// rates of other users are not disclosed
		return nil, apperrors.NewNotFoundError("rate " + id)
	}
	return rate, nil
}

func (s *rateService) ListRates(ctx context.Context, filter domain.RateFilter) (*domain.RatePage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultRatePageSize
	}
	page, err := s.rateRepo.ScanRates(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list rates")
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	if page.Rates == nil {
		page.Rates = []domain.Rate{}
	}
	s.LogDebug(ctx, "Rates listed successfully", slog.Int("count", len(page.Rates)))
	return page, nil
}

func (s *rateService) LatestRates(ctx context.Context, filter domain.LatestFilter) ([]domain.Rate, error) {
	if filter.Currency == "" && filter.BaseCurrency == "" {
		return nil, apperrors.NewValidationError("currency or base_currency is required")
	}
	rates, err := s.rateRepo.LatestRates(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list latest rates")
		return nil, err
	}
	if rates == nil {
		rates = []domain.Rate{}
	}
	return rates, nil
}

type statKey struct {
	currency, base, period string
}

func (s *rateService) RateStats(ctx context.Context, q domain.RateStatsQuery) ([]domain.RateStat, error) {
	switch q.Period {
	case domain.PeriodWeek, domain.PeriodMonth, domain.PeriodYear:
	default:
		return nil, apperrors.NewValidationError("period must be one of week, month, year")
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, apperrors.NewValidationError("from must not be after to")
	}
	page, err := s.rateRepo.ScanRates(ctx, domain.RateFilter{
		Viewer:       q.Viewer,
		KeyOrNull:    q.Key,
		Currency:     q.Currency,
		BaseCurrency: q.BaseCurrency,
		From:         q.From,
		To:           q.To,
		Ordering:     "value_date",
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to scan rates for statistics")
		return nil, err
	}

	groups := map[statKey][]decimal.Decimal{}
	for _, r := range page.Rates {
		k := statKey{r.Currency, r.BaseCurrency, q.Period.Bucket(r.ValueDate)}
		groups[k] = append(groups[k], r.Value)
	}
	stats := make([]domain.RateStat, 0, len(groups))
	for k, values := range groups {
		stats = append(stats, aggregate(k, values))
	}
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.Period != b.Period {
			return a.Period > b.Period
		}
		if a.Currency != b.Currency {
			return a.Currency < b.Currency
		}
		return a.BaseCurrency < b.BaseCurrency
	})
	return stats, nil
}

func aggregate(k statKey, values []decimal.Decimal) domain.RateStat {
	n := decimal.NewFromInt(int64(len(values)))
	avg := decimal.Sum(values[0], values[1:]...).Div(n)
	variance := decimal.Zero
	for _, v := range values {
		d := v.Sub(avg)
		variance = variance.Add(d.Mul(d))
	}
	variance = variance.Div(n)
	std := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
	return domain.RateStat{
		Currency:     k.currency,
		BaseCurrency: k.base,
		Period:       k.period,
		Count:        len(values),
		Avg:          avg,
		Min:          decimal.Min(values[0], values[1:]...),
		Max:          decimal.Max(values[0], values[1:]...),
		StdDev:       std,
	}
}

func (s *rateService) CreateRate(ctx context.Context, req dto.CreateRateRequest, userID string) (*domain.Rate, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: creating rates requires a user", apperrors.ErrUnauthorized)
	}
	if err := checkPair(req.Currency, req.BaseCurrency, req.Value); err != nil {
		return nil, err
	}
	date := domain.Day(s.now())
	if req.ValueDate != "" {
		d, err := domain.ParseDate(req.ValueDate)
		if err != nil {
			return nil, apperrors.NewValidationError("value_date must be a YYYY-MM-DD date")
		}
		date = d
	}
	rate := domain.Rate{
		UserID:       &userID,
		Key:          domain.RateScope{Key: req.Key}.KeyPtr(),
		ValueDate:    date,
		Currency:     req.Currency,
		BaseCurrency: req.BaseCurrency,
		Value:        *req.Value,
	}
	saved, err := s.rateRepo.SaveRate(ctx, rate)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save rate", slog.String("user_id", userID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Rate created successfully", slog.String("rate_id", saved.ID))
	return saved, nil
}

func (s *rateService) CreateBulkRates(ctx context.Context, req dto.BulkRateRequest, userID string) ([]domain.Rate, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: creating rates requires a user", apperrors.ErrUnauthorized)
	}
	if err := checkPair(req.Currency, req.BaseCurrency, req.Value); err != nil {
		return nil, err
	}
	today := domain.Day(s.now())
	from, to := today, today
	errs := apperrors.FieldErrors{}
	if req.FromDate != "" {
		d, err := domain.ParseDate(req.FromDate)
		if err != nil {
			errs.Add("from_date", "expected a YYYY-MM-DD date")
		}
		from = d
	}
	if req.ToDate != "" {
		d, err := domain.ParseDate(req.ToDate)
		if err != nil {
			errs.Add("to_date", "expected a YYYY-MM-DD date")
		}
		to = d
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, apperrors.NewValidationError("from_date must not be after to_date")
	}
	if to.Sub(from) > maxBulkDays*24*time.Hour {
		return nil, apperrors.NewValidationError(fmt.Sprintf("a bulk request covers at most %d days", maxBulkDays))
	}

	key := domain.RateScope{Key: req.Key}.KeyPtr()
	var rates []domain.Rate
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		rates = append(rates, domain.Rate{
			UserID:       &userID,
			Key:          key,
			ValueDate:    d,
			Currency:     req.Currency,
			BaseCurrency: req.BaseCurrency,
			Value:        *req.Value,
		})
	}
	saved, err := s.rateRepo.SaveRates(ctx, rates)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save bulk rates", slog.String("user_id", userID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Bulk rates created successfully", slog.Int("count", len(saved)))
	return saved, nil
}

func (s *rateService) DeleteRate(ctx context.Context, id, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: deleting rates requires a user", apperrors.ErrUnauthorized)
	}
	rate, err := s.rateRepo.GetRateByID(ctx, id)
	if err != nil {
		return err
	}
	if rate.UserID == nil || *rate.UserID != userID {
		return fmt.Errorf("%w: rate %s belongs to another user", apperrors.ErrForbidden, id)
	}
	if err := s.rateRepo.DeleteRate(ctx, id); err != nil {
		s.LogError(ctx, err, "Failed to delete rate", slog.String("rate_id", id))
		return err
	}
	s.LogInfo(ctx, "Rate deleted successfully", slog.String("rate_id", id))
	return nil
}

func checkPair(currency, base string, value *decimal.Decimal) error {
	errs := apperrors.FieldErrors{}
	if currency == base {
		errs.Add("base_currency", "must differ from currency")
	}
	if value == nil {
		errs.Add("value", "is required")
	} else if value.IsNegative() {
		errs.Add("value", "must not be negative")
	}
	return errs.OrNil()
}
