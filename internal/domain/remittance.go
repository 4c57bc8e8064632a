package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Remittance is the immutable ledger entry of one completed transfer.
// Fee, Quote and ConvertedAmount are frozen when the transfer commits.
type Remittance struct {
	CreatedAt       time.Time
	ID              string
	Currency        string
	SenderID        int64
	RecipientID     int64
	Amount          decimal.Decimal
	Fee             decimal.Decimal
	Quote           decimal.Decimal
	ConvertedAmount decimal.Decimal
}

// TotalDebit is what the sender pays: amount plus fee.
func (r *Remittance) TotalDebit() decimal.Decimal {
	return r.Amount.Add(r.Fee)
}

// Involves reports whether the account is sender or recipient.
func (r *Remittance) Involves(accountID int64) bool {
	return r.SenderID == accountID || r.RecipientID == accountID
}

// ConvertAmount converts amount at quote units of source currency per destination unit.
func ConvertAmount(amount, quote decimal.Decimal) decimal.Decimal {
	return amount.Div(quote).Round(2)
}

// RemittancePage is one page of an account's history.
type RemittancePage struct {
	Items []*Remittance `json:"items"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Total int64         `json:"total"`
}

// TotalPages returns the number of pages for the page size.
func (p *RemittancePage) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
