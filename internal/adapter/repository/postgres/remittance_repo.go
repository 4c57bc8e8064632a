package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/postgres/generated"
	"github.com/iho/goremit/internal/usecase"
)

// RemittanceRepository implements usecase.RemittanceRepository.
type RemittanceRepository struct {
	queries *generated.Queries
}

// NewRemittanceRepository creates a new RemittanceRepository.
func NewRemittanceRepository(db generated.DBTX) *RemittanceRepository {
	return &RemittanceRepository{queries: generated.New(db)}
}

// Create appends a remittance to the ledger.
func (r *RemittanceRepository) Create(ctx context.Context, tx usecase.Transaction, remittance *domain.Remittance) error {
	return queriesFor(tx).CreateRemittance(ctx, generated.CreateRemittanceParams{
		ID:              remittance.ID,
		SenderID:        remittance.SenderID,
		RecipientID:     remittance.RecipientID,
		Amount:          decimalToNumeric(remittance.Amount),
		Fee:             decimalToNumeric(remittance.Fee),
		Currency:        remittance.Currency,
		Quote:           decimalToNumeric(remittance.Quote),
		ConvertedAmount: decimalToNumeric(remittance.ConvertedAmount),
		CreatedAt:       timeToPgTimestamptz(remittance.CreatedAt),
	})
}

// GetByID retrieves a remittance by ID.
func (r *RemittanceRepository) GetByID(ctx context.Context, id string) (*domain.Remittance, error) {
	row, err := r.queries.GetRemittanceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRemittanceNotFound
		}

		return nil, err
	}

	return rowToRemittance(row), nil
}

// ListByAccount returns one page of the account's remittances, newest first, and the match count.
func (r *RemittanceRepository) ListByAccount(ctx context.Context, accountID int64, from, to time.Time, limit, offset int) ([]*domain.Remittance, int64, error) {
	if limit < 0 || offset < 0 || limit > math.MaxInt32 || offset > math.MaxInt32 {
		return nil, 0, fmt.Errorf("invalid page window: limit %d, offset %d", limit, offset)
	}

	fromTime, toTime := timeToPgTimestamptz(from), timeToPgTimestamptz(to)

	total, err := r.queries.CountRemittancesByAccount(ctx, generated.CountRemittancesByAccountParams{
		AccountID: accountID,
		FromTime:  fromTime,
		ToTime:    toTime,
	})
	if err != nil {
		return nil, 0, err
	}

	if total == 0 || int64(offset) >= total {
		return []*domain.Remittance{}, total, nil
	}

	rows, err := r.queries.ListRemittancesByAccount(ctx, generated.ListRemittancesByAccountParams{
		AccountID: accountID,
		FromTime:  fromTime,
		ToTime:    toTime,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, 0, err
	}

	remittances := make([]*domain.Remittance, 0, len(rows))
	for _, row := range rows {
		remittances = append(remittances, rowToRemittance(row))
	}

	return remittances, total, nil
}

// SumSent totals what the account sent in [from, to).
func (r *RemittanceRepository) SumSent(ctx context.Context, accountID int64, from, to time.Time) (decimal.Decimal, error) {
	total, err := r.queries.SumSentByAccount(ctx, generated.SumSentByAccountParams{
		SenderID: accountID,
		FromTime: timeToPgTimestamptz(from),
		ToTime:   timeToPgTimestamptz(to),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func rowToRemittance(row generated.Remittance) *domain.Remittance {
	return &domain.Remittance{
		ID:              row.ID,
		SenderID:        row.SenderID,
		RecipientID:     row.RecipientID,
		Amount:          numericToDecimal(row.Amount),
		Fee:             numericToDecimal(row.Fee),
		Currency:        row.Currency,
		Quote:           numericToDecimal(row.Quote),
		ConvertedAmount: numericToDecimal(row.ConvertedAmount),
		CreatedAt:       row.CreatedAt.Time,
	}
}
