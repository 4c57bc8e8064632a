package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOCK_BACKEND", "")

	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.LockBackend != config.LockBackendRedis {
		t.Fatalf("expected redis lock backend, got %s", cfg.LockBackend)
	}

	if !cfg.QuoteDefaultRate.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("expected default quote 5.00, got %s", cfg.QuoteDefaultRate)
	}

	if cfg.HistoryMaxPeriodDays != 90 || cfg.HistoryMaxPageSize != 50 {
		t.Fatalf("unexpected history bounds %d/%d", cfg.HistoryMaxPeriodDays, cfg.HistoryMaxPageSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("SUPPORTED_CURRENCIES", "usd,eur")
	t.Setenv("FEE_PERCENT_BUSINESS", "0.005")
	t.Setenv("LOCK_BACKEND", "local")

	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	currencies := cfg.Currencies()
	if currencies.Validate("EUR") != nil || currencies.Validate("GBP") == nil {
		t.Fatalf("expected only USD and EUR to be supported, got %v", currencies)
	}

	business, err := cfg.Policies().For(domain.CategoryBusiness)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !business.FeePercent.Equal(decimal.RequireFromString("0.005")) {
		t.Fatalf("expected business fee override, got %s", business.FeePercent)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("GOREMIT_TEST_ONLY=1\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("HTTP_PORT", "7070")
	t.Cleanup(func() { _ = os.Unsetenv("GOREMIT_TEST_ONLY") })

	cfg, err := config.LoadFiles(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if os.Getenv("GOREMIT_TEST_ONLY") != "1" {
		t.Fatalf("expected dotenv values to be exported")
	}
	if cfg.HTTPPort != "7070" {
		t.Fatalf("expected environment to win, got %s", cfg.HTTPPort)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.LoadFiles(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadInvalidTimezone(t *testing.T) {
	t.Setenv("PROCESSING_TIMEZONE", "Mars/Olympus")

	if _, err := config.LoadFiles(); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}

func TestLoadInvalidLockBackend(t *testing.T) {
	t.Setenv("LOCK_BACKEND", "zookeeper")

	if _, err := config.LoadFiles(); err == nil {
		t.Fatalf("expected error for unknown lock backend")
	}
}

func TestLocation(t *testing.T) {
	t.Setenv("PROCESSING_TIMEZONE", "UTC")

	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC, got %v (%v)", loc, err)
	}
}
