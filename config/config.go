package config

import (
	"flag"
	"os"
	"sync"
	"time"
)

const (
	defaultServerAddress  = ":8080"
	defaultDatabaseDSN    = ""
	defaultFiatRailAddr   = "http://localhost:8181"
	defaultUnifiedAddr    = "http://localhost:8282"
	defaultDeliveryAddr   = "http://localhost:8383"
	defaultLogLevel       = "debug"
	defaultCurrency       = "BOB"
	defaultSymbol         = "Bs"
	defaultStaleVerifying = 15 * time.Minute
	defaultRetention      = 6 * time.Hour
	defaultSweepInterval  = time.Minute
)

type Config struct {
	ServerAddr      string
	DatabaseDSN     string
	FiatRailAddr    string
	UnifiedRailAddr string
	UnifiedAPIKey   string
	DeliveryAddr    string
	LogLevel        string
	Currency        string
	Symbol          string
	StaleVerifying  time.Duration
	Retention       time.Duration
	SweepInterval   time.Duration
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
		flag.StringVar(&cfg.FiatRailAddr, "f", defaultFiatRailAddr, "bank automation address")
		flag.StringVar(&cfg.UnifiedRailAddr, "u", defaultUnifiedAddr, "unified settlement rail address")
		flag.StringVar(&cfg.UnifiedAPIKey, "k", "", "unified settlement rail API key")
		flag.StringVar(&cfg.DeliveryAddr, "m", defaultDeliveryAddr, "message delivery address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.Currency, "c", defaultCurrency, "tenant currency code")
		flag.StringVar(&cfg.Symbol, "s", defaultSymbol, "tenant currency symbol")
		flag.DurationVar(&cfg.StaleVerifying, "stale", defaultStaleVerifying, "verifying staleness threshold")
		flag.DurationVar(&cfg.Retention, "retention", defaultRetention, "in-memory retention for synced terminal orders")
		flag.DurationVar(&cfg.SweepInterval, "sweep", defaultSweepInterval, "sweep interval")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dsnEnv := os.Getenv("DATABASE_URI"); dsnEnv != "" {
			cfg.DatabaseDSN = dsnEnv
		}
		if fiatEnv := os.Getenv("FIAT_RAIL_ADDRESS"); fiatEnv != "" {
			cfg.FiatRailAddr = fiatEnv
		}
		if unifiedEnv := os.Getenv("UNIFIED_RAIL_ADDRESS"); unifiedEnv != "" {
			cfg.UnifiedRailAddr = unifiedEnv
		}
		if keyEnv := os.Getenv("UNIFIED_RAIL_API_KEY"); keyEnv != "" {
			cfg.UnifiedAPIKey = keyEnv
		}
		if deliveryEnv := os.Getenv("DELIVERY_ADDRESS"); deliveryEnv != "" {
			cfg.DeliveryAddr = deliveryEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if currencyEnv := os.Getenv("TENANT_CURRENCY"); currencyEnv != "" {
			cfg.Currency = currencyEnv
		}

		singleton = &cfg
	})

	return singleton, nil
}
