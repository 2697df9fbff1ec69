// Command fetch_rates stores the provider rates of every catalog currency
// over a date range.
//
//	fetch_rates -f 2024-01-01 -t 2024-01-31 -s ecb
//
// Dates default to today and the service to RATE_SERVICE. The exit code is 1
// on configuration or date errors and 2 when any currency failed to fetch.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/SscSPs/geocurrency/internal/catalog"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/SscSPs/geocurrency/internal/core/services"
	"github.com/SscSPs/geocurrency/internal/platform/bootstrap"
	"github.com/SscSPs/geocurrency/internal/platform/config"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const (
	exitConfig = 1
	exitFetch  = 2

	parallelFetches = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	today := time.Now().UTC().Format(domain.DateLayout)
	fromFlag := pflag.StringP("from_date", "f", today, "first date to fetch (YYYY-MM-DD)")
	toFlag := pflag.StringP("to_date", "t", today, "last date to fetch (YYYY-MM-DD)")
	serviceFlag := pflag.StringP("service", "s", "", "rate service (ecb, currencylayer, exchangerate_host); defaults to RATE_SERVICE")
	pflag.Parse()

	from, err := domain.ParseDate(*fromFlag)
	if err != nil {
		logger.Error("Invalid from date", slog.String("from_date", *fromFlag))
		return exitConfig
	}
	to, err := domain.ParseDate(*toFlag)
	if err != nil || to.Before(from) {
		logger.Error("Invalid to date", slog.String("to_date", *toFlag))
		return exitConfig
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		return exitConfig
	}
	service := cfg.RateService
	if *serviceFlag != "" {
		service = *serviceFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := bootstrap.NewRateProviderNamed(service, cfg, logger)
	if err != nil {
		logger.Error("Failed to create rate provider", slog.String("error", err.Error()))
		return exitConfig
	}
	repos, closeRepos, err := bootstrap.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("error", err.Error()))
		return exitConfig
	}
	defer closeRepos()
	cat, err := catalog.Default()
	if err != nil {
		logger.Error("Failed to load catalog", slog.String("error", err.Error()))
		return exitConfig
	}

	fetcher := services.NewRateFetcher(repos.RateRepo, provider)
	failed, stored := fetchAll(ctx, logger, fetcher, cat.Currencies("", "code"), from, to)
	logger.Info("Rate fetch finished",
		slog.String("service", provider.Name()),
		slog.Int64("stored", stored),
		slog.Int64("failed_currencies", failed))
	if failed > 0 {
		return exitFetch
	}
	return 0
}

type rateFetcher interface {
	FetchRates(ctx context.Context, base string, from, to time.Time) (int, error)
}

// fetchAll fetches every currency, a few at a time. A failing currency does
// not stop the others.
func fetchAll(ctx context.Context, logger *slog.Logger, fetcher rateFetcher, currencies []catalog.Currency, from, to time.Time) (failed, stored int64) {
	var g errgroup.Group
	g.SetLimit(parallelFetches)
	for _, cur := range currencies {
		g.Go(func() error {
			logger.Info("Fetching rates", slog.String("currency", cur.Code))
			n, err := fetcher.FetchRates(ctx, cur.Code, from, to)
			atomic.AddInt64(&stored, int64(n))
			if err != nil {
				atomic.AddInt64(&failed, 1)
				logger.Error("Failed to fetch rates", slog.String("currency", cur.Code), slog.String("error", err.Error()))
				return fmt.Errorf("%s: %w", cur.Code, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed, stored
}
