package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
)

// Settings carries the tunable rules shared by the remittance use cases.
type Settings struct {
	Policies          domain.PolicyTable
	Currencies        domain.CurrencySet
	Location          *time.Location
	Clock             Clock
	DefaultQuote      decimal.Decimal
	QuoteTimeout      time.Duration
	QuoteCacheTTL     time.Duration
	HistoryCacheTTL   time.Duration
	AggregateCacheTTL time.Duration
	MaxPeriodDays     int
	MaxPageSize       int
}

// DefaultSettings returns the stock rules in UTC.
func DefaultSettings() Settings {
	return Settings{
		Policies:          domain.DefaultPolicies(),
		Currencies:        domain.NewCurrencySet(domain.DefaultCurrencies),
		Location:          time.UTC,
		Clock:             SystemClock{},
		DefaultQuote:      decimal.NewFromInt(5),
		QuoteTimeout:      DefaultQuoteTimeout,
		QuoteCacheTTL:     DefaultQuoteCacheTTL,
		HistoryCacheTTL:   DefaultHistoryCacheTTL,
		AggregateCacheTTL: DefaultAggregateCacheTTL,
		MaxPeriodDays:     DefaultMaxPeriodDays,
		MaxPageSize:       DefaultMaxPageSize,
	}
}

// withDefaults fills unset fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Policies == nil {
		s.Policies = d.Policies
	}
	if s.Currencies == nil {
		s.Currencies = d.Currencies
	}
	if s.Location == nil {
		s.Location = d.Location
	}
	if s.Clock == nil {
		s.Clock = d.Clock
	}
	if s.QuoteTimeout <= 0 {
		s.QuoteTimeout = d.QuoteTimeout
	}
	if s.QuoteCacheTTL <= 0 {
		s.QuoteCacheTTL = d.QuoteCacheTTL
	}
	if s.HistoryCacheTTL <= 0 {
		s.HistoryCacheTTL = d.HistoryCacheTTL
	}
	if s.AggregateCacheTTL <= 0 {
		s.AggregateCacheTTL = d.AggregateCacheTTL
	}
	if s.MaxPeriodDays <= 0 {
		s.MaxPeriodDays = d.MaxPeriodDays
	}
	if s.MaxPageSize <= 0 {
		s.MaxPageSize = d.MaxPageSize
	}
	return s
}

// now returns the current time in the processing timezone.
func (s Settings) now() time.Time {
	return s.Clock.Now().In(s.Location)
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time {
	return time.Now()
}
