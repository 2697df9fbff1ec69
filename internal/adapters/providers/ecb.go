package providers

import (
	"context"
	"encoding/xml"
	"sort"
	"time"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const (
	// ECBName is the registry name of the ECB provider.
	ECBName = "ecb"

	defaultECBFeedURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"
	ecbFeedBase       = "EUR"
)

// ecbEnvelope mirrors the eurofxref feeds: one Cube per day holding one
// Cube per currency, each priced against EUR.
type ecbEnvelope struct {
	Days []struct {
		Time  string `xml:"time,attr"`
		Rates []struct {
			Currency string `xml:"currency,attr"`
			Rate     string `xml:"rate,attr"`
		} `xml:"Cube"`
	} `xml:"Cube>Cube"`
}

type ecbDay struct {
	date  time.Time
	rates map[string]decimal.Decimal
}

// ECB reads the European Central Bank reference rates. The daily feed only
// holds the latest fix; the historical feeds hold several days.
type ECB struct {
	client
}

// NewECB creates the provider. An empty feed URL selects the daily feed.
func NewECB(s Settings) *ECB {
	feed := s.ECBFeedURL
	if feed == "" {
		feed = defaultECBFeedURL
	}
	return &ECB{client: newClient(ECBName, feed, s)}
}

var _ portsrepo.RateProvider = (*ECB)(nil)

func (p *ECB) Name() string { return ECBName }

func (p *ECB) feed(ctx context.Context) ([]ecbDay, error) {
	body, err := p.get(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	var env ecbEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, p.unavailable("decode xml: %v", err)
	}
	out := make([]ecbDay, 0, len(env.Days))
	for _, d := range env.Days {
		date, err := domain.ParseDate(d.Time)
		if err != nil {
			return nil, p.unavailable("bad feed date %q", d.Time)
		}
		day := ecbDay{date: date, rates: map[string]decimal.Decimal{ecbFeedBase: decimal.NewFromInt(1)}}
		for _, r := range d.Rates {
			v, err := decimal.NewFromString(r.Rate)
			if err != nil || !v.IsPositive() {
				continue
			}
			day.rates[r.Currency] = v
		}
		out = append(out, day)
	}
	if len(out) == 0 {
		return nil, p.unavailable("empty feed")
	}
	return out, nil
}

// Fetch returns the rates of req.Base. A single-day feed answers with its
// own date; a multi-day feed is filtered to the requested dates.
func (p *ECB) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Rate, error) {
	feed, err := p.feed(ctx)
	if err != nil {
		return nil, err
	}
	if len(feed) > 1 {
		wanted := map[time.Time]bool{}
		for _, d := range days(req) {
			wanted[d] = true
		}
		filtered := feed[:0]
		for _, d := range feed {
			if wanted[d.date] {
				filtered = append(filtered, d)
			}
		}
		feed = filtered
	}

	var out []domain.Rate
	for _, d := range feed {
		baseValue, ok := d.rates[req.Base]
		if !ok {
			return nil, p.unavailable("currency %s is not quoted", req.Base)
		}
		for code, v := range d.rates {
			if code == req.Base || (req.Currency != "" && code != req.Currency) {
				continue
			}
			// 1 base = v/baseValue code
			out = append(out, domain.Rate{
				ValueDate:    d.date,
				Currency:     code,
				BaseCurrency: req.Base,
				Value:        v.DivRound(baseValue, 16),
			})
		}
	}
	if len(out) == 0 {
		return nil, p.unavailable("no rates for %s", req.Base)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ValueDate.Equal(out[j].ValueDate) {
			return out[i].ValueDate.Before(out[j].ValueDate)
		}
		return out[i].Currency < out[j].Currency
	})
	return out, nil
}

func (p *ECB) AvailableCurrencies(ctx context.Context) ([]string, error) {
	feed, err := p.feed(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(feed[0].rates))
	for code := range feed[0].rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}
