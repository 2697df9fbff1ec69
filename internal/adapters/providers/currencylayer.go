package providers

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const (
	// CurrencyLayerName is the registry name of the currencylayer provider.
	CurrencyLayerName = "currencylayer"

	defaultCurrencyLayerURL = "http://api.currencylayer.com"
)

type currencyLayerError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}

type currencyLayerResponse struct {
	Success   bool                `json:"success"`
	Error     *currencyLayerError `json:"error"`
	Source    string              `json:"source"`
	Date      string              `json:"date"`
	Timeframe bool                `json:"timeframe"`
	// quote keys concatenate source and currency: USDEUR
	Quotes     json.RawMessage   `json:"quotes"`
	Currencies map[string]string `json:"currencies"`
}

// CurrencyLayer reads rates from the currencylayer API: live quotes for
// today, historical quotes for a past date, timeframes for ranges.
type CurrencyLayer struct {
	client
	apiKey string
}

// NewCurrencyLayer creates the provider.
func NewCurrencyLayer(s Settings) *CurrencyLayer {
	base := s.CurrencyLayerURL
	if base == "" {
		base = defaultCurrencyLayerURL
	}
	return &CurrencyLayer{client: newClient(CurrencyLayerName, base, s), apiKey: s.CurrencyLayerKey}
}

var _ portsrepo.RateProvider = (*CurrencyLayer)(nil)

func (p *CurrencyLayer) Name() string { return CurrencyLayerName }

func (p *CurrencyLayer) call(ctx context.Context, endpoint string, query url.Values) (*currencyLayerResponse, error) {
	query.Set("access_key", p.apiKey)
	var resp currencyLayerResponse
	if err := p.getJSON(ctx, "/"+endpoint, query, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		if resp.Error != nil {
			return nil, p.unavailable("api error %d: %s", resp.Error.Code, resp.Error.Info)
		}
		return nil, p.unavailable("api reported a failure")
	}
	return &resp, nil
}

func (p *CurrencyLayer) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Rate, error) {
	query := url.Values{"source": {req.Base}}
	if req.Currency != "" {
		query.Set("currencies", req.Currency)
	}
	date := domain.Day(req.Date)
	endpoint := "historical"
	switch {
	case !req.ToDate.IsZero() && req.ToDate.After(date):
		endpoint = "timeframe"
		query.Set("start_date", date.Format(domain.DateLayout))
		query.Set("end_date", domain.Day(req.ToDate).Format(domain.DateLayout))
	case date.Equal(domain.Day(p.now())):
		endpoint = "live"
	default:
		query.Set("date", date.Format(domain.DateLayout))
	}

	resp, err := p.call(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	var out []domain.Rate
	if resp.Timeframe {
		var byDate map[string]map[string]decimal.Decimal
		if err := json.Unmarshal(resp.Quotes, &byDate); err != nil {
			return nil, p.unavailable("decode quotes: %v", err)
		}
		for ds, quotes := range byDate {
			d, err := domain.ParseDate(ds)
			if err != nil {
				return nil, p.unavailable("bad quote date %q", ds)
			}
			out = append(out, p.parseQuotes(req.Base, d, quotes)...)
		}
	} else {
		var quotes map[string]decimal.Decimal
		if err := json.Unmarshal(resp.Quotes, &quotes); err != nil {
			return nil, p.unavailable("decode quotes: %v", err)
		}
		if resp.Date != "" {
			if d, err := domain.ParseDate(resp.Date); err == nil {
				date = d
			}
		}
		out = p.parseQuotes(req.Base, date, quotes)
	}
	if len(out) == 0 {
		return nil, p.unavailable("no quotes for %s", req.Base)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ValueDate.Equal(out[j].ValueDate) {
			return out[i].ValueDate.Before(out[j].ValueDate)
		}
		return out[i].Currency < out[j].Currency
	})
	return out, nil
}

func (p *CurrencyLayer) parseQuotes(base string, date time.Time, quotes map[string]decimal.Decimal) []domain.Rate {
	out := make([]domain.Rate, 0, len(quotes))
	for pair, v := range quotes {
		code, ok := strings.CutPrefix(pair, base)
		if !ok || code == "" || code == base {
			continue
		}
		out = append(out, domain.Rate{
			ValueDate:    date,
			Currency:     code,
			BaseCurrency: base,
			Value:        v,
		})
	}
	return out
}

func (p *CurrencyLayer) AvailableCurrencies(ctx context.Context) ([]string, error) {
	resp, err := p.call(ctx, "list", url.Values{})
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(resp.Currencies))
	for code := range resp.Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}
