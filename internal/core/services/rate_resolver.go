package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// rateResolver implements the RateResolverSvc interface
type rateResolver struct {
	BaseService
	rateRepo    portsrepo.RateRepositoryFacade
	provider    portsrepo.RateProvider
	fetchOnMiss bool
}

// ResolverOption is a functional option for configuring the rate resolver
type ResolverOption func(*rateResolver)

// WithFetchOnMiss asks provider for rates missing from the store.
func WithFetchOnMiss(provider portsrepo.RateProvider) ResolverOption {
	return func(r *rateResolver) {
		r.provider = provider
		r.fetchOnMiss = provider != nil
	}
}

// NewRateResolver creates a new rate resolver with the provided options
func NewRateResolver(rateRepo portsrepo.RateRepositoryFacade, options ...ResolverOption) portssvc.RateResolverSvc {
	r := &rateResolver{rateRepo: rateRepo}
	for _, option := range options {
		option(r)
	}
	return r
}

var _ portssvc.RateResolverSvc = (*rateResolver)(nil)

// RateAt returns the rate pricing base in currency at date as seen by scope.
// Lookups go direct hit, provider fetch, then shortest pivot path.
func (r *rateResolver) RateAt(ctx context.Context, scope domain.RateScope, base, currency string, date time.Time) (*domain.RateResolution, error) {
	date = domain.Day(date)
	if base == currency {
		return &domain.RateResolution{
			Rate: domain.Rate{
				ValueDate:    date,
				Currency:     currency,
				BaseCurrency: base,
				Value:        decimal.NewFromInt(1),
			},
			Path: []string{currency},
		}, nil
	}

	if res, err := r.direct(ctx, scope, base, currency, date); err == nil || !errors.Is(err, apperrors.ErrNotFound) {
		return res, err
	}

	if r.fetchOnMiss {
		if err := r.fetch(ctx, base, currency, date); err != nil {
			r.LogWarn(ctx, err, "Rate provider fetch failed, trying pivot rates",
				slog.String("provider", r.provider.Name()),
				slog.String("base", base), slog.String("currency", currency))
		} else if res, err := r.direct(ctx, scope, base, currency, date); err == nil || !errors.Is(err, apperrors.ErrNotFound) {
			return res, err
		}
	}

	return r.pivot(ctx, scope, base, currency, date)
}

// visibleScopes lists the scopes whose rates scope sees, most specific first.
func visibleScopes(scope domain.RateScope) []domain.RateScope {
	out := []domain.RateScope{scope}
	add := func(s domain.RateScope) {
		for _, o := range out {
			if o == s {
				return
			}
		}
		out = append(out, s)
	}
	add(domain.RateScope{UserID: scope.UserID})
	add(domain.RateScope{Key: scope.Key})
	add(domain.RateScope{})
	return out
}

func (r *rateResolver) direct(ctx context.Context, scope domain.RateScope, base, currency string, date time.Time) (*domain.RateResolution, error) {
	for _, s := range visibleScopes(scope) {
		rate, err := r.rateRepo.GetRate(ctx, s, currency, base, date)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &domain.RateResolution{Rate: *rate, Path: []string{currency, base}}, nil
	}
	return nil, apperrors.NewNotFoundError("no direct rate")
}

// fetch stores the provider rates of base at date as unscoped rows.
func (r *rateResolver) fetch(ctx context.Context, base, currency string, date time.Time) error {
	rates, err := r.provider.Fetch(ctx, domain.FetchRequest{Base: base, Currency: currency, Date: date})
	if err != nil {
		return err
	}
	for _, rate := range rates {
		rate.UserID, rate.Key = nil, nil
		if _, err := r.rateRepo.SaveRate(ctx, rate); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
	}
	return nil
}

type hop struct {
	prev    string
	edge    domain.Rate
	unowned int
}

// better orders candidate hops reaching the same node at the same depth.
func (h hop) better(o hop) bool {
	if h.unowned != o.unowned {
		return h.unowned < o.unowned
	}
	if !h.edge.ValueDate.Equal(o.edge.ValueDate) {
		return h.edge.ValueDate.After(o.edge.ValueDate)
	}
	if !h.edge.CreatedAt.Equal(o.edge.CreatedAt) {
		return h.edge.CreatedAt.After(o.edge.CreatedAt)
	}
	return h.prev < o.prev
}

func (r *rateResolver) pivot(ctx context.Context, scope domain.RateScope, base, currency string, date time.Time) (*domain.RateResolution, error) {
	edges, err := r.rateRepo.ListRatesAtDate(ctx, scope, date)
	if err != nil {
		return nil, err
	}
	path, ok := shortestPath(scope, edges, currency, base)
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s at %s", apperrors.ErrNoRate, currency, base, date.Format(domain.DateLayout))
	}

	value := decimal.NewFromInt(1)
	codes := []string{currency}
	for _, e := range path {
		value = value.Mul(e.Value)
		codes = append(codes, e.BaseCurrency)
	}
	composed := domain.Rate{
		UserID:       scope.UserPtr(),
		Key:          scope.KeyPtr(),
		ValueDate:    date,
		Currency:     currency,
		BaseCurrency: base,
		Value:        value,
	}
	saved, err := r.rateRepo.SaveRate(ctx, composed)
	switch {
	case errors.Is(err, apperrors.ErrDuplicate):
		// a concurrent request stored the same rate first
		saved, err = r.rateRepo.GetRate(ctx, scope, currency, base, date)
		if err != nil {
			return nil, err
		}
	case err != nil:
		r.LogError(ctx, err, "Failed to persist composed rate")
		return nil, err
	}
	r.LogDebug(ctx, "Composed rate from pivot path", slog.Any("path", codes), slog.String("value", value.String()))
	return &domain.RateResolution{Rate: *saved, Path: codes, Composed: true}, nil
}

// shortestPath runs a breadth-first search from -> to over the visible edges.
// An edge goes from its Currency to its BaseCurrency.
func shortestPath(scope domain.RateScope, edges []domain.Rate, from, to string) ([]domain.Rate, bool) {
	adj := map[string][]domain.Rate{}
	for _, e := range edges {
		if !scope.Sees(e) || e.Currency == e.BaseCurrency {
			continue
		}
		adj[e.Currency] = append(adj[e.Currency], e)
	}

	best := map[string]hop{from: {}}
	frontier := []string{from}
	for len(frontier) > 0 {
		if _, found := best[to]; found {
			break
		}
		next := map[string]hop{}
		for _, node := range frontier {
			for _, e := range adj[node] {
				if _, seen := best[e.BaseCurrency]; seen {
					continue
				}
				cand := hop{prev: node, edge: e, unowned: best[node].unowned}
				if !scope.Owns(e) {
					cand.unowned++
				}
				if cur, ok := next[e.BaseCurrency]; !ok || cand.better(cur) {
					next[e.BaseCurrency] = cand
				}
			}
		}
		frontier = frontier[:0]
		for code, h := range next {
			best[code] = h
			frontier = append(frontier, code)
		}
		sort.Strings(frontier)
	}

	if _, found := best[to]; !found {
		return nil, false
	}
	var path []domain.Rate
	for node := to; node != from; node = best[node].prev {
		path = append(path, best[node].edge)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}
