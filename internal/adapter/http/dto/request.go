package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// TransferRequest represents a request to send a remittance.
type TransferRequest struct {
	SenderID    int64  `json:"sender_id"`
	RecipientID int64  `json:"recipient_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}

	return usecase.TransferInput{
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		Amount:      amount,
		Currency:    r.Currency,
	}, nil
}

// OpenAccountRequest represents a request to open an account.
type OpenAccountRequest struct {
	Name           string `json:"name"`
	Document       string `json:"document"`
	Category       string `json:"category"`
	InitialBalance string `json:"initial_balance,omitempty"`
}

// ToUseCaseInput converts to use case input. A missing initial balance is zero.
func (r *OpenAccountRequest) ToUseCaseInput() (usecase.OpenAccountInput, error) {
	balance := decimal.Zero
	if strings.TrimSpace(r.InitialBalance) != "" {
		var err error
		balance, err = parseAmount(r.InitialBalance)
		if err != nil {
			return usecase.OpenAccountInput{}, err
		}
	}

	return usecase.OpenAccountInput{
		Name:           r.Name,
		Document:       r.Document,
		Category:       r.Category,
		InitialBalance: balance,
	}, nil
}

// PublishQuoteRequest sets the rate of a currency for a day.
type PublishQuoteRequest struct {
	Rate string `json:"rate"`
	// Date is yyyy-mm-dd; empty means today.
	Date string `json:"date,omitempty"`
}

// Parse returns the rate and day of the request.
func (r *PublishQuoteRequest) Parse() (decimal.Decimal, time.Time, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(r.Rate))
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidQuote, r.Rate)
	}

	day, err := ParseDate(r.Date)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}

	return rate, day, nil
}

// ParseDate parses yyyy-mm-dd. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want yyyy-mm-dd", s)
	}
	return t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}
	return amount, nil
}
