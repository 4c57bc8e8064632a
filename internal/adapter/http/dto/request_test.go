package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

func TestTransferRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name        string
		request     *TransferRequest
		want        usecase.TransferInput
		expectError bool
	}{
		{
			name: "valid amount",
			request: &TransferRequest{
				SenderID:    1,
				RecipientID: 2,
				Amount:      "1000.00",
				Currency:    "usd",
			},
			want: usecase.TransferInput{
				SenderID:    1,
				RecipientID: 2,
				Amount:      decimal.RequireFromString("1000.00"),
				Currency:    "usd",
			},
		},
		{
			name:        "invalid amount",
			request:     &TransferRequest{SenderID: 1, RecipientID: 2, Amount: "ten"},
			expectError: true,
		},
		{
			name:        "empty amount",
			request:     &TransferRequest{SenderID: 1, RecipientID: 2},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput()
			if tt.expectError {
				if !errors.Is(err, domain.ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.SenderID != tt.want.SenderID || got.RecipientID != tt.want.RecipientID || got.Currency != tt.want.Currency {
				t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, tt.want)
			}
			if !got.Amount.Equal(tt.want.Amount) {
				t.Fatalf("amount = %s, want %s", got.Amount, tt.want.Amount)
			}
		})
	}
}

func TestOpenAccountRequest_ToUseCaseInput(t *testing.T) {
	req := &OpenAccountRequest{
		Name:     "Ana",
		Document: "12345678901",
		Category: "individual",
	}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Ana" || got.Document != "12345678901" || got.Category != "individual" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if !got.InitialBalance.IsZero() {
		t.Fatalf("expected zero initial balance, got %s", got.InitialBalance)
	}

	req.InitialBalance = "250.50"
	got, err = req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.InitialBalance.Equal(decimal.RequireFromString("250.50")) {
		t.Fatalf("expected 250.50, got %s", got.InitialBalance)
	}

	req.InitialBalance = "lots"
	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestPublishQuoteRequest_Parse(t *testing.T) {
	req := &PublishQuoteRequest{Rate: "5.25", Date: "2024-03-15"}

	rate, day, err := req.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("5.25")) {
		t.Fatalf("expected 5.25, got %s", rate)
	}
	if !day.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day %s", day)
	}

	req = &PublishQuoteRequest{Rate: "5"}
	_, day, err = req.Parse()
	if err != nil || !day.IsZero() {
		t.Fatalf("expected zero day without error, got %s, %v", day, err)
	}

	req = &PublishQuoteRequest{Rate: "x"}
	if _, _, err := req.Parse(); !errors.Is(err, domain.ErrInvalidQuote) {
		t.Fatalf("expected ErrInvalidQuote, got %v", err)
	}

	req = &PublishQuoteRequest{Rate: "5", Date: "15/03/2024"}
	if _, _, err := req.Parse(); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
