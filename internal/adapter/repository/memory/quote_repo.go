package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
)

// QuoteRepository implements usecase.QuoteRepository over the store.
type QuoteRepository struct {
	store *Store
}

// NewQuoteRepository creates a new QuoteRepository.
func NewQuoteRepository(store *Store) *QuoteRepository {
	return &QuoteRepository{store: store}
}

// Fetch returns the rate published for currency on day.
func (r *QuoteRepository) Fetch(ctx context.Context, currency string, day time.Time) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rate, ok := r.store.quotes[quoteKey{currency: currency, day: dayKey(day)}]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s on %s", domain.ErrQuoteNotFound, currency, dayKey(day))
	}
	return rate, nil
}

// Save stores or replaces the rate.
func (r *QuoteRepository) Save(ctx context.Context, quote *domain.Quote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.quotes[quoteKey{currency: quote.Currency, day: dayKey(quote.Day)}] = quote.Rate
	return nil
}
