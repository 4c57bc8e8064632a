package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/postgres/generated"
	"github.com/iho/goremit/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create inserts the account and copies back the database-assigned ID.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	row, err := queriesFor(tx).CreateAccount(ctx, generated.CreateAccountParams{
		Name:      account.Name,
		Document:  account.Document,
		Category:  string(account.Category),
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
	})
	if err != nil {
		return err
	}

	account.ID = row.ID
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		Name:      row.Name,
		Document:  row.Document,
		Category:  domain.Category(row.Category),
		CreatedAt: row.CreatedAt.Time,
	}
}
