package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	"github.com/google/uuid"
)

type rateKey struct {
	scope          domain.RateScope
	currency, base string
	date           time.Time
}

func keyOf(r domain.Rate) rateKey {
	return rateKey{r.Scope(), r.Currency, r.BaseCurrency, domain.Day(r.ValueDate)}
}

// RateRepository keeps rates in process memory.
type RateRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.Rate
	byKey map[rateKey]string
	now   func() time.Time
}

// NewRateRepository returns an empty RateRepository.
func NewRateRepository() *RateRepository {
	return &RateRepository{
		byID:  map[string]domain.Rate{},
		byKey: map[rateKey]string{},
		now:   time.Now,
	}
}

var _ portsrepo.RateRepositoryFacade = (*RateRepository)(nil)

func (r *RateRepository) GetRate(_ context.Context, scope domain.RateScope, currency, baseCurrency string, date time.Time) (*domain.Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[rateKey{scope, currency, baseCurrency, domain.Day(date)}]
	if !ok {
		return nil, apperrors.NewNotFoundError("rate " + currency + "/" + baseCurrency)
	}
	rate := r.byID[id]
	return &rate, nil
}

func (r *RateRepository) GetRateByID(_ context.Context, id string) (*domain.Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rate, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("rate " + id)
	}
	return &rate, nil
}

func (r *RateRepository) ScanRates(_ context.Context, filter domain.RateFilter) (*domain.RatePage, error) {
	r.mu.RLock()
	var matched []domain.Rate
	for _, rate := range r.byID {
		if filter.Matches(rate) {
			matched = append(matched, rate)
		}
	}
	r.mu.RUnlock()

	sortRates(matched, filter.Ordering)

	page := &domain.RatePage{}
	if filter.Offset >= len(matched) {
		page.Rates = []domain.Rate{}
		return page, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
		page.HasMore = true
		page.NextOffset = filter.Offset + filter.Limit
	}
	page.Rates = matched
	return page, nil
}

// sortRates orders like the SQL listing: one column then id.
func sortRates(rates []domain.Rate, ordering string) {
	desc := strings.HasPrefix(ordering, "-")
	col := strings.TrimPrefix(ordering, "-")
	switch col {
	case "key", "value", "value_date", "base_currency", "currency":
	default:
		col, desc = "value_date", true
	}
	cmp := func(a, b domain.Rate) int {
		switch col {
		case "key":
			return strings.Compare(deref(a.Key), deref(b.Key))
		case "value":
			return a.Value.Cmp(b.Value)
		case "base_currency":
			return strings.Compare(a.BaseCurrency, b.BaseCurrency)
		case "currency":
			return strings.Compare(a.Currency, b.Currency)
		}
		return a.ValueDate.Compare(b.ValueDate)
	}
	sort.Slice(rates, func(i, j int) bool {
		c := cmp(rates[i], rates[j])
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return rates[i].ID < rates[j].ID
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *RateRepository) LatestRates(_ context.Context, filter domain.LatestFilter) ([]domain.Rate, error) {
	scan := domain.RateFilter{
		Viewer:       filter.Viewer,
		KeyOrNull:    filter.Key,
		Currency:     filter.Currency,
		BaseCurrency: filter.BaseCurrency,
	}
	counterpart := func(rate domain.Rate) string { return rate.BaseCurrency }
	if filter.BaseCurrency != "" {
		counterpart = func(rate domain.Rate) string { return rate.Currency }
	}

	r.mu.RLock()
	best := map[string]domain.Rate{}
	for _, rate := range r.byID {
		if !scan.Matches(rate) {
			continue
		}
		c := counterpart(rate)
		cur, ok := best[c]
		if !ok || newer(rate, cur) {
			best[c] = rate
		}
	}
	r.mu.RUnlock()

	out := make([]domain.Rate, 0, len(best))
	for _, rate := range best {
		out = append(out, rate)
	}
	sort.Slice(out, func(i, j int) bool { return counterpart(out[i]) < counterpart(out[j]) })
	return out, nil
}

// newer prefers the later value date, then user rows, then the later insert.
func newer(a, b domain.Rate) bool {
	if !a.ValueDate.Equal(b.ValueDate) {
		return a.ValueDate.After(b.ValueDate)
	}
	if (a.UserID == nil) != (b.UserID == nil) {
		return a.UserID != nil
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (r *RateRepository) ListRatesAtDate(_ context.Context, scope domain.RateScope, date time.Time) ([]domain.Rate, error) {
	day := domain.Day(date)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Rate
	for _, rate := range r.byID {
		if rate.ValueDate.Equal(day) && scope.Sees(rate) {
			out = append(out, rate)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Currency != out[j].Currency {
			return out[i].Currency < out[j].Currency
		}
		return out[i].BaseCurrency < out[j].BaseCurrency
	})
	return out, nil
}

func (r *RateRepository) SaveRate(_ context.Context, rate domain.Rate) (*domain.Rate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved, err := r.stage([]domain.Rate{rate})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

func (r *RateRepository) SaveRates(_ context.Context, rates []domain.Rate) ([]domain.Rate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stage(rates)
}

// stage validates every rate and its reverse before writing any of them.
// Callers hold the write lock.
func (r *RateRepository) stage(rates []domain.Rate) ([]domain.Rate, error) {
	pending := map[rateKey]domain.Rate{}
	saved := make([]domain.Rate, 0, len(rates))
	for _, rate := range rates {
		if rate.ID == "" {
			rate.ID = uuid.NewString()
		}
		if rate.CreatedAt.IsZero() {
			rate.CreatedAt = r.now().UTC()
		}
		rate.ValueDate = domain.Day(rate.ValueDate)
		k := keyOf(rate)
		if _, ok := r.byKey[k]; ok {
			return nil, apperrors.NewConflictError("rate " + rate.Currency + "/" + rate.BaseCurrency + " already exists")
		}
		if _, ok := pending[k]; ok {
			return nil, apperrors.NewConflictError("rate " + rate.Currency + "/" + rate.BaseCurrency + " already exists")
		}
		pending[k] = rate
		saved = append(saved, rate)

		if rev, ok := rate.Reverse(); ok {
			rk := keyOf(rev)
			_, stored := r.byKey[rk]
			_, staged := pending[rk]
			if !stored && !staged {
				rev.ID = uuid.NewString()
				pending[rk] = rev
			}
		}
	}
	for k, rate := range pending {
		r.byID[rate.ID] = rate
		r.byKey[k] = rate.ID
	}
	return saved, nil
}

func (r *RateRepository) DeleteRate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rate, ok := r.byID[id]
	if !ok {
		return apperrors.NewNotFoundError("rate " + id)
	}
	delete(r.byID, id)
	delete(r.byKey, keyOf(rate))
	return nil
}
