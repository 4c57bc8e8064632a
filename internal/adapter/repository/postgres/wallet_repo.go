package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/postgres/generated"
	"github.com/iho/goremit/internal/usecase"
)

// ErrStaleWallet is returned when a wallet update does not find the expected version.
var ErrStaleWallet = errors.New("wallet version changed concurrently")

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	queries *generated.Queries
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db generated.DBTX) *WalletRepository {
	return &WalletRepository{queries: generated.New(db)}
}

// Create inserts a wallet.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	return queriesFor(tx).CreateWallet(ctx, generated.CreateWalletParams{
		AccountID: wallet.AccountID,
		Balance:   decimalToNumeric(wallet.Balance),
		Version:   wallet.Version,
		UpdatedAt: timeToPgTimestamptz(wallet.UpdatedAt),
	})
}

// GetByID retrieves a wallet without locking it.
func (r *WalletRepository) GetByID(ctx context.Context, accountID int64) (*domain.Wallet, error) {
	row, err := r.queries.GetWallet(ctx, accountID)
	if err != nil {
		return nil, walletErr(err)
	}

	return rowToWallet(row), nil
}

// GetForUpdate retrieves a wallet with a FOR UPDATE lock.
func (r *WalletRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID int64) (*domain.Wallet, error) {
	row, err := queriesFor(tx).GetWalletForUpdate(ctx, accountID)
	if err != nil {
		return nil, walletErr(err)
	}

	return rowToWallet(row), nil
}

// UpdateBalance writes the new balance. wallet.Version must be one past the stored version.
func (r *WalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	n, err := queriesFor(tx).UpdateWalletBalance(ctx, generated.UpdateWalletBalanceParams{
		AccountID: wallet.AccountID,
		Balance:   decimalToNumeric(wallet.Balance),
		Version:   wallet.Version,
		UpdatedAt: timeToPgTimestamptz(wallet.UpdatedAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("%w: account %d", ErrStaleWallet, wallet.AccountID)
	}

	return nil
}

func walletErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrWalletNotFound
	}
	return err
}

func rowToWallet(row generated.Wallet) *domain.Wallet {
	return &domain.Wallet{
		AccountID: row.AccountID,
		Balance:   numericToDecimal(row.Balance),
		Version:   row.Version,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
