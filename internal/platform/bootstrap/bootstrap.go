// Package bootstrap builds the runtime dependencies shared by the server
// and the management commands from the loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/geocurrency/internal/adapters/cache"
	"github.com/SscSPs/geocurrency/internal/adapters/providers"
	"github.com/SscSPs/geocurrency/internal/catalog"
	"github.com/SscSPs/geocurrency/internal/core/batch"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	"github.com/SscSPs/geocurrency/internal/core/services"
	"github.com/SscSPs/geocurrency/internal/platform/config"
	"github.com/SscSPs/geocurrency/internal/repositories/database/memory"
	"github.com/SscSPs/geocurrency/internal/repositories/database/pgsql"
	"github.com/SscSPs/geocurrency/internal/units"
	"github.com/SscSPs/geocurrency/pkg/database"
)

const redisKeyPrefix = "geocurrency:"

// Closer releases a resource opened by the bootstrap functions.
type Closer func()

// OpenRepositories opens the configured storage backend. For postgres the
// migrations are applied first.
func OpenRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, Closer, error) {
	if cfg.StorageBackend == config.StorageMemory {
		logger.Info("Using in-memory storage")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
	applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}

// NewBatchSettings opens the configured batch cache.
func NewBatchSettings(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.BatchSettings, Closer, error) {
	settings := services.BatchSettings{
		Config: batch.StoreConfig{TTL: cfg.BatchTTL, ResultTTL: cfg.BatchResultTTL},
		Locks:  batch.NewKeyedMutex(),
	}
	if cfg.BatchCacheBackend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, redisKeyPrefix)
		if err != nil {
			return services.BatchSettings{}, nil, fmt.Errorf("failed to connect batch cache: %w", err)
		}
		logger.Info("Using Redis batch cache")
		settings.Cache = rc
		return settings, func() {
			if err := rc.Close(); err != nil {
				logger.Error("Error closing Redis batch cache", slog.String("error", err.Error()))
			}
		}, nil
	}

	ttl := max(cfg.BatchTTL, cfg.BatchResultTTL)
	logger.Info("Using in-memory batch cache", slog.Int("size", cfg.BatchCacheSize), slog.Duration("max_ttl", ttl))
	settings.Cache = cache.NewMemoryCache(cfg.BatchCacheSize, ttl)
	return settings, func() {}, nil
}

// NewRateProvider builds the provider named by RATE_SERVICE.
func NewRateProvider(cfg *config.Config, logger *slog.Logger) (portsrepo.RateProvider, error) {
	return NewRateProviderNamed(cfg.RateService, cfg, logger)
}

// NewRateProviderNamed builds the named provider with the provider settings of cfg.
func NewRateProviderNamed(name string, cfg *config.Config, logger *slog.Logger) (portsrepo.RateProvider, error) {
	return providers.NewRegistry().New(name, providers.Settings{
		ECBFeedURL:          cfg.ECBFeedURL,
		CurrencyLayerURL:    cfg.CurrencyLayerAPIURL,
		CurrencyLayerKey:    cfg.CurrencyLayerAPIKey,
		ExchangerateHostURL: cfg.ExchangerateHostURL,
		Timeout:             cfg.ProviderTimeout,
		Logger:              logger,
	})
}

// NewInfrastructure loads the embedded datasets and assembles the
// non-repository dependencies of the services.
func NewInfrastructure(cfg *config.Config, batches services.BatchSettings, provider portsrepo.RateProvider) (services.Infrastructure, error) {
	reg, err := units.Default()
	if err != nil {
		return services.Infrastructure{}, fmt.Errorf("failed to load unit registry: %w", err)
	}
	cat, err := catalog.Default()
	if err != nil {
		return services.Infrastructure{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	return services.Infrastructure{
		Catalog:     cat,
		Units:       reg,
		Batches:     batches,
		Provider:    provider,
		FetchOnMiss: cfg.RatesFetchOnMiss,
	}, nil
}
