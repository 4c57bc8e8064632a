package memory

import (
	"context"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	store *Store
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(store *Store) *WalletRepository {
	return &WalletRepository{store: store}
}

// Create inserts the wallet at commit.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	row := *wallet
	return t.enqueue(func(s *Store) {
		s.wallets[row.AccountID] = &row
	})
}

// GetByID returns a snapshot of the wallet.
func (r *WalletRepository) GetByID(ctx context.Context, accountID int64) (*domain.Wallet, error) {
	return r.load(accountID)
}

// GetForUpdate locks the wallet row for the rest of tx and returns it.
func (r *WalletRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID int64) (*domain.Wallet, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	if err := t.lock(ctx, walletLockKey(accountID)); err != nil {
		return nil, err
	}

	return r.load(accountID)
}

// UpdateBalance writes the wallet at commit.
func (r *WalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	row := *wallet
	return t.enqueue(func(s *Store) {
		s.wallets[row.AccountID] = &row
	})
}

func (r *WalletRepository) load(accountID int64) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	w, ok := r.store.wallets[accountID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	out := *w
	return &out, nil
}
