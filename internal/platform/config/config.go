package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Batch cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	Port           string
	IsProduction   bool
	StorageBackend string
	DatabaseURL    string
	EnableDBCheck  bool
	DBMaxConns     int32
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	BatchCacheBackend string
	BatchCacheSize    int
	BatchTTL          time.Duration
	BatchResultTTL    time.Duration
	RedisURL          string

	RateService         string
	RatesFetchOnMiss    bool
	BaseCurrency        string
	CurrencyLayerAPIURL string
	CurrencyLayerAPIKey string
	ECBFeedURL          string
	ExchangerateHostURL string
	ProviderTimeout     time.Duration

	RequestTimeout     time.Duration
	RateLimit          string
	CORSAllowedOrigins []string

	PosthogAPIKey   string
	PosthogEndpoint string

	DefaultLanguage string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_BACKEND", StoragePostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "geocurrency")
	viper.SetDefault("BATCH_CACHE_BACKEND", CacheMemory)
	viper.SetDefault("BATCH_CACHE_SIZE", 10000)
	viper.SetDefault("BATCH_TTL", "1h")
	viper.SetDefault("BATCH_RESULT_TTL", "24h")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("RATE_SERVICE", "ecb")
	viper.SetDefault("RATES_FETCH_ON_MISS", false)
	viper.SetDefault("BASE_CURRENCY", "EUR")
	viper.SetDefault("CURRENCYLAYER_API_URL", "http://api.currencylayer.com")
	viper.SetDefault("CURRENCYLAYER_API_KEY", "")
	viper.SetDefault("ECB_FEED_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml")
	viper.SetDefault("EXCHANGERATE_HOST_URL", "https://api.exchangerate.host")
	viper.SetDefault("PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("REQUEST_TIMEOUT", "30s")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("DEFAULT_LANGUAGE", "en")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		StorageBackend:      strings.ToLower(viper.GetString("STORAGE_BACKEND")),
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		EnableDBCheck:       viper.GetBool("ENABLE_DB_CHECK"),
		DBMaxConns:          viper.GetInt32("DB_MAX_CONNS"),
		MigrationsPath:      viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTIssuer:           viper.GetString("JWT_ISSUER"),
		BatchCacheBackend:   strings.ToLower(viper.GetString("BATCH_CACHE_BACKEND")),
		BatchCacheSize:      viper.GetInt("BATCH_CACHE_SIZE"),
		RedisURL:            viper.GetString("REDIS_URL"),
		RateService:         strings.ToLower(viper.GetString("RATE_SERVICE")),
		RatesFetchOnMiss:    viper.GetBool("RATES_FETCH_ON_MISS"),
		BaseCurrency:        strings.ToUpper(viper.GetString("BASE_CURRENCY")),
		CurrencyLayerAPIURL: viper.GetString("CURRENCYLAYER_API_URL"),
		CurrencyLayerAPIKey: viper.GetString("CURRENCYLAYER_API_KEY"),
		ECBFeedURL:          viper.GetString("ECB_FEED_URL"),
		ExchangerateHostURL: viper.GetString("EXCHANGERATE_HOST_URL"),
		RateLimit:           viper.GetString("RATE_LIMIT"),
		PosthogAPIKey:       viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:     viper.GetString("POSTHOG_ENDPOINT"),
		DefaultLanguage:     viper.GetString("DEFAULT_LANGUAGE"),
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	var err error
	if cfg.BatchTTL, err = duration("BATCH_TTL"); err != nil {
		return nil, err
	}
	if cfg.BatchResultTTL, err = duration("BATCH_RESULT_TTL"); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = duration("PROVIDER_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = duration("REQUEST_TIMEOUT"); err != nil {
		return nil, err
	}

	switch cfg.StorageBackend {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_BACKEND is %s", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_BACKEND is memory, rates and custom units are lost on restart.")
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	switch cfg.BatchCacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return nil, fmt.Errorf("invalid BATCH_CACHE_BACKEND %q", cfg.BatchCacheBackend)
	}

	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET environment variable not set. Every request is anonymous.")
	}
	if cfg.RateService == "currencylayer" && cfg.CurrencyLayerAPIKey == "" {
		log.Println("Warning: CURRENCYLAYER_API_KEY not set. currencylayer requests will fail.")
	}

	return cfg, nil
}

func duration(key string) (time.Duration, error) {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid value for %s (%q): expected a positive duration", key, raw)
	}
	return d, nil
}
