package providers

import (
	"context"
	"net/url"
	"sort"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// ExchangerateHostName is the registry name of the single-date API provider.
	ExchangerateHostName = "exchangerate_host"

	defaultExchangerateHostURL = "https://api.exchangerate.host"
	maxParallelDays            = 4
)

type dayResponse struct {
	Success *bool                      `json:"success"`
	Base    string                     `json:"base"`
	Date    string                     `json:"date"`
	Rates   map[string]decimal.Decimal `json:"rates"`
}

type symbolsResponse struct {
	Symbols map[string]any `json:"symbols"`
}

// ExchangerateHost reads one date per call from a /{date}?base= API.
// Ranges are fetched day by day in parallel.
type ExchangerateHost struct {
	client
}

// NewExchangerateHost creates the provider.
func NewExchangerateHost(s Settings) *ExchangerateHost {
	base := s.ExchangerateHostURL
	if base == "" {
		base = defaultExchangerateHostURL
	}
	return &ExchangerateHost{client: newClient(ExchangerateHostName, base, s)}
}

var _ portsrepo.RateProvider = (*ExchangerateHost)(nil)

func (p *ExchangerateHost) Name() string { return ExchangerateHostName }

func (p *ExchangerateHost) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Rate, error) {
	dates := days(req)
	perDay := make([][]domain.Rate, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDays)
	for i, d := range dates {
		g.Go(func() error {
			query := url.Values{"base": {req.Base}}
			if req.Currency != "" {
				query.Set("symbols", req.Currency)
			}
			var resp dayResponse
			if err := p.getJSON(gctx, "/"+d.Format(domain.DateLayout), query, &resp); err != nil {
				return err
			}
			if resp.Success != nil && !*resp.Success {
				return p.unavailable("api reported a failure for %s", d.Format(domain.DateLayout))
			}
			for code, v := range resp.Rates {
				if code == req.Base {
					continue
				}
				perDay[i] = append(perDay[i], domain.Rate{
					ValueDate:    d,
					Currency:     code,
					BaseCurrency: req.Base,
					Value:        v,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.Rate
	for _, rates := range perDay {
		sort.Slice(rates, func(i, j int) bool { return rates[i].Currency < rates[j].Currency })
		out = append(out, rates...)
	}
	if len(out) == 0 {
		return nil, p.unavailable("no rates for %s", req.Base)
	}
	return out, nil
}

func (p *ExchangerateHost) AvailableCurrencies(ctx context.Context) ([]string, error) {
	var resp symbolsResponse
	if err := p.getJSON(ctx, "/symbols", nil, &resp); err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(resp.Symbols))
	for code := range resp.Symbols {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}
