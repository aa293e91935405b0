package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	LocalDBPath     string
	JWTSecret       string
	AllowedOrigins  []string
	DemoMode        bool
	SaveDebounce    time.Duration
	RatesURL        string
	RatesTTL        time.Duration
	FallbackUSDRate float64
	AutoCash        bool
	DefaultLocale   string
	LogFormat       string
	LogLevel        string
}

func Load() (Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		LocalDBPath:     getEnv("LOCAL_DB_PATH", "data/fire.db"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AllowedOrigins:  getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		DemoMode:        getBool("DEMO_MODE", false),
		SaveDebounce:    getDuration("SAVE_DEBOUNCE", time.Second),
		RatesURL:        getEnv("RATES_URL", "https://api.exchangerate-api.com/v4/latest/EUR"),
		RatesTTL:        getDuration("RATES_TTL", 24*time.Hour),
		FallbackUSDRate: getFloat("FALLBACK_USD_RATE", 1.1),
		AutoCash:        getBool("AUTO_CASH", true),
		DefaultLocale:   getEnv("DEFAULT_LOCALE", "es"),
		LogFormat:       getEnv("LOG_FORMAT", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	return cfg, cfg.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DatabaseURL == "" && c.LocalDBPath == "" {
		errs = append(errs, errors.New("one of DATABASE_URL or LOCAL_DB_PATH is required"))
	}
	if c.SaveDebounce < 0 {
		errs = append(errs, fmt.Errorf("SAVE_DEBOUNCE must not be negative, got %s", c.SaveDebounce))
	}
	if c.FallbackUSDRate <= 0 {
		errs = append(errs, fmt.Errorf("FALLBACK_USD_RATE must be positive, got %v", c.FallbackUSDRate))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
