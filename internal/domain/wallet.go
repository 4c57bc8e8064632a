package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the balance of exactly one account.
type Wallet struct {
	AccountID int64
	Balance   decimal.Decimal
	Version   int64
	UpdatedAt time.Time
}

// CanDebit checks the balance covers amount.
func (w *Wallet) CanDebit(amount decimal.Decimal) error {
	if w.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s, required %s", ErrInsufficientFunds, w.Balance.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// Debit subtracts amount. The balance never goes negative.
func (w *Wallet) Debit(amount decimal.Decimal, at time.Time) error {
	if err := w.CanDebit(amount); err != nil {
		return err
	}

	w.Balance = w.Balance.Sub(amount)
	w.Version++
	w.UpdatedAt = at

	return nil
}

// Credit adds amount.
func (w *Wallet) Credit(amount decimal.Decimal, at time.Time) {
	w.Balance = w.Balance.Add(amount)
	w.Version++
	w.UpdatedAt = at
}
