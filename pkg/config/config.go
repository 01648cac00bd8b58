package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// External rate providers.
	ExchangeRateAPIURL string
	ExchangeRateAPIKey string
	CoinGeckoURL       string
	ProviderTimeout    time.Duration

	// Rate cache behaviour.
	RefreshInterval   time.Duration
	RatesMaxAge       time.Duration
	RejectStaleTrades bool
	RatesHistoryLimit int

	// Seed balance credited in the base currency when a portfolio is created.
	SeedBalance decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "valutatrade-hub")
	viper.SetDefault("EXCHANGERATE_API_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("EXCHANGERATE_API_KEY", "")
	viper.SetDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3")
	viper.SetDefault("PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("REFRESH_INTERVAL", "15m")
	viper.SetDefault("RATES_MAX_AGE", "1h")
	viper.SetDefault("REJECT_STALE_TRADES", false)
	viper.SetDefault("RATES_HISTORY_LIMIT", 50)
	viper.SetDefault("SEED_BALANCE", "1000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.JWTExpiryDuration = parseDurationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.ProviderTimeout = parseDurationOr("PROVIDER_TIMEOUT", 10*time.Second)
	cfg.RefreshInterval = parseDurationOr("REFRESH_INTERVAL", 15*time.Minute)
	cfg.RatesMaxAge = parseDurationOr("RATES_MAX_AGE", time.Hour)

	cfg.ExchangeRateAPIURL = viper.GetString("EXCHANGERATE_API_URL")
	cfg.ExchangeRateAPIKey = viper.GetString("EXCHANGERATE_API_KEY")
	if cfg.ExchangeRateAPIKey == "" {
		log.Println("Warning: EXCHANGERATE_API_KEY not set. Fiat rate refresh will fail.")
	}
	cfg.CoinGeckoURL = viper.GetString("COINGECKO_URL")

	cfg.RejectStaleTrades = viper.GetBool("REJECT_STALE_TRADES")
	cfg.RatesHistoryLimit = viper.GetInt("RATES_HISTORY_LIMIT")
	if cfg.RatesHistoryLimit < 1 {
		log.Printf("Warning: RATES_HISTORY_LIMIT must be >= 1, got %d. Defaulting to 50.\n", cfg.RatesHistoryLimit)
		cfg.RatesHistoryLimit = 50
	}

	seed, err := decimal.NewFromString(viper.GetString("SEED_BALANCE"))
	if err != nil || seed.IsNegative() {
		log.Printf("Warning: Invalid value for SEED_BALANCE ('%s'). Defaulting to 1000.\n", viper.GetString("SEED_BALANCE"))
		seed = decimal.NewFromInt(1000)
	}
	cfg.SeedBalance = seed

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
