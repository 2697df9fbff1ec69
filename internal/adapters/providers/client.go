package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Settings configures the providers built by a Registry.
type Settings struct {
	ECBFeedURL          string
	CurrencyLayerURL    string
	CurrencyLayerKey    string
	ExchangerateHostURL string
	Timeout             time.Duration
	Logger              *slog.Logger
}

// client is the HTTP plumbing shared by the providers.
type client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	now        func() time.Time
}

func newClient(name, baseURL string, s Settings) client {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", name),
		now:        time.Now,
	}
}

// unavailable wraps a failure as apperrors.ErrRatesUnavailable.
func (c client) unavailable(format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", c.name, apperrors.ErrRatesUnavailable, fmt.Sprintf(format, args...))
}

// get fetches baseURL/path?query and returns the body of a 200 response.
func (c client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.name, err)
	}

	c.log.DebugContext(ctx, "provider request", slog.String("path", path))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "provider request failed", slog.String("path", path), slog.String("error", err.Error()))
		return nil, c.unavailable("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.unavailable("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.unavailable("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func (c client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.unavailable("decode json: %v", err)
	}
	return nil
}

// days lists the dates of req: Date alone, or every day of [Date, ToDate].
func days(req domain.FetchRequest) []time.Time {
	from := domain.Day(req.Date)
	to := from
	if !req.ToDate.IsZero() && req.ToDate.After(from) {
		to = domain.Day(req.ToDate)
	}
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
