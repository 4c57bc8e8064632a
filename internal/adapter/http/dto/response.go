package dto

import (
	"time"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// AccountResponse represents an account and its wallet in API responses.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Category  string    `json:"category"`
	Balance   string    `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountFromView converts an account view to response.
func AccountFromView(v *usecase.AccountView) *AccountResponse {
	resp := &AccountResponse{
		ID:        v.Account.ID,
		Name:      v.Account.Name,
		Document:  v.Account.Document,
		Category:  string(v.Account.Category),
		CreatedAt: v.Account.CreatedAt,
	}
	if v.Wallet != nil {
		resp.Balance = v.Wallet.Balance.StringFixed(2)
		resp.Version = v.Wallet.Version
	}
	return resp
}

// RemittanceResponse represents a remittance in API responses.
type RemittanceResponse struct {
	ID              string    `json:"id"`
	SenderID        int64     `json:"sender_id"`
	RecipientID     int64     `json:"recipient_id"`
	Amount          string    `json:"amount"`
	Fee             string    `json:"fee"`
	Currency        string    `json:"currency"`
	Quote           string    `json:"quote"`
	ConvertedAmount string    `json:"converted_amount"`
	CreatedAt       time.Time `json:"created_at"`
}

// RemittanceFromDomain converts domain remittance to response.
func RemittanceFromDomain(r *domain.Remittance) *RemittanceResponse {
	return &RemittanceResponse{
		ID:              r.ID,
		SenderID:        r.SenderID,
		RecipientID:     r.RecipientID,
		Amount:          r.Amount.StringFixed(2),
		Fee:             r.Fee.StringFixed(2),
		Currency:        r.Currency,
		Quote:           r.Quote.String(),
		ConvertedAmount: r.ConvertedAmount.StringFixed(2),
		CreatedAt:       r.CreatedAt,
	}
}

// RemittancesFromDomain converts domain remittances to responses.
func RemittancesFromDomain(items []*domain.Remittance) []*RemittanceResponse {
	result := make([]*RemittanceResponse, len(items))
	for i, r := range items {
		result[i] = RemittanceFromDomain(r)
	}
	return result
}

// HistoryResponse is one page of an account's remittances.
type HistoryResponse struct {
	Items      []*RemittanceResponse `json:"items"`
	Page       int                   `json:"page"`
	Size       int                   `json:"size"`
	Total      int64                 `json:"total"`
	TotalPages int                   `json:"total_pages"`
}

// HistoryFromDomain converts a remittance page to response.
func HistoryFromDomain(p *domain.RemittancePage) *HistoryResponse {
	return &HistoryResponse{
		Items:      RemittancesFromDomain(p.Items),
		Page:       p.Page,
		Size:       p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
	}
}

// DailyUsageResponse reports how much an account sent today and may still send.
type DailyUsageResponse struct {
	AccountID int64  `json:"account_id"`
	Category  string `json:"category"`
	Day       string `json:"day"`
	Sent      string `json:"sent"`
	Ceiling   string `json:"ceiling"`
	Remaining string `json:"remaining"`
}

// DailyUsageFromUseCase converts daily usage to response.
func DailyUsageFromUseCase(u *usecase.DailyUsage) *DailyUsageResponse {
	return &DailyUsageResponse{
		AccountID: u.AccountID,
		Category:  string(u.Category),
		Day:       domain.DayKey(u.Day),
		Sent:      u.Sent.StringFixed(2),
		Ceiling:   u.Ceiling.StringFixed(2),
		Remaining: u.Remaining.StringFixed(2),
	}
}

// ReconciliationResponse is the outcome of a daily aggregate check.
type ReconciliationResponse struct {
	AccountID      int64     `json:"account_id"`
	Day            string    `json:"day"`
	AggregateTotal string    `json:"aggregate_total"`
	LedgerTotal    string    `json:"ledger_total"`
	Difference     string    `json:"difference"`
	IsReconciled   bool      `json:"is_reconciled"`
	CheckedAt      time.Time `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:      r.AccountID,
		Day:            domain.DayKey(r.Day),
		AggregateTotal: r.AggregateTotal.StringFixed(2),
		LedgerTotal:    r.LedgerTotal.StringFixed(2),
		Difference:     r.Difference.StringFixed(2),
		IsReconciled:   r.IsReconciled,
		CheckedAt:      r.CheckedAt,
	}
}

// QuoteResponse represents an exchange rate.
type QuoteResponse struct {
	Currency string `json:"currency"`
	Rate     string `json:"rate"`
	Day      string `json:"day,omitempty"`
}

// QuoteFromDomain converts a stored quote to response.
func QuoteFromDomain(q *domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		Currency: q.Currency,
		Rate:     q.Rate.String(),
		Day:      domain.DayKey(q.Day),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
