package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/postgres/generated"
)

// QuoteRepository implements usecase.QuoteRepository on the quotes table.
type QuoteRepository struct {
	queries *generated.Queries
}

// NewQuoteRepository creates a new QuoteRepository.
func NewQuoteRepository(db generated.DBTX) *QuoteRepository {
	return &QuoteRepository{queries: generated.New(db)}
}

// Fetch returns the published rate for currency on day.
func (r *QuoteRepository) Fetch(ctx context.Context, currency string, day time.Time) (decimal.Decimal, error) {
	row, err := r.queries.GetQuote(ctx, generated.GetQuoteParams{
		Currency: currency,
		Day:      dayToPgDate(day),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: %s on %s", domain.ErrQuoteNotFound, currency, domain.DayKey(day))
		}
		return decimal.Zero, err
	}

	return numericToDecimal(row.Rate), nil
}

// Save publishes a rate, replacing any previous rate for the same day.
func (r *QuoteRepository) Save(ctx context.Context, quote *domain.Quote) error {
	return r.queries.UpsertQuote(ctx, generated.UpsertQuoteParams{
		Currency:  quote.Currency,
		Day:       dayToPgDate(quote.Day),
		Rate:      decimalToNumeric(quote.Rate),
		UpdatedAt: timeToPgTimestamptz(time.Now()),
	})
}
