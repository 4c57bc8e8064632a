package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

type accountServiceStub struct {
	openFn  func(ctx context.Context, input usecase.OpenAccountInput) (*usecase.AccountView, error)
	getFn   func(ctx context.Context, id int64) (*usecase.AccountView, error)
	usageFn func(ctx context.Context, id int64) (*usecase.DailyUsage, error)
}

func (s *accountServiceStub) OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*usecase.AccountView, error) {
	return s.openFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id int64) (*usecase.AccountView, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) DailyUsage(ctx context.Context, id int64) (*usecase.DailyUsage, error) {
	return s.usageFn(ctx, id)
}

type reconciliationServiceStub struct {
	reconcileFn func(ctx context.Context, accountID int64, day time.Time) (*usecase.ReconciliationResult, error)
}

func (s *reconciliationServiceStub) ReconcileDailyAggregate(ctx context.Context, accountID int64, day time.Time) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, accountID, day)
}

func sampleView() *usecase.AccountView {
	return &usecase.AccountView{
		Account: &domain.Account{
			ID:       1,
			Name:     "Ana",
			Document: "12345678901",
			Category: domain.CategoryIndividual,
		},
		Wallet: &domain.Wallet{AccountID: 1, Balance: decimal.NewFromInt(500)},
	}
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.OpenAccountInput
	h := NewAccountHandler(&accountServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*usecase.AccountView, error) {
			captured = input
			return sampleView(), nil
		},
	}, nil)

	body, _ := json.Marshal(dto.OpenAccountRequest{
		Name:           "Ana",
		Document:       "12345678901",
		Category:       "INDIVIDUAL",
		InitialBalance: "500",
	})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Name != "Ana" || !captured.InitialBalance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 || resp.Balance != "500.00" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*usecase.AccountView, error) {
			t.Fatal("OpenAccount should not be called for invalid payload")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ValidationError(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*usecase.AccountView, error) {
			return nil, domain.ErrInvalidDocument
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/accounts",
		bytes.NewBufferString(`{"name":"Ana","document":"123","category":"INDIVIDUAL"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id int64) (*usecase.AccountView, error) {
			if id != 1 {
				return nil, domain.ErrAccountNotFound
			}
			return sampleView(), nil
		},
	}, nil)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/1", nil), "id", "1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/9", nil), "id", "9")
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	req = setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/abc", nil), "id", "abc")
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Limits(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		usageFn: func(ctx context.Context, id int64) (*usecase.DailyUsage, error) {
			return &usecase.DailyUsage{
				AccountID: id,
				Category:  domain.CategoryIndividual,
				Day:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
				Sent:      decimal.NewFromInt(9950),
				Ceiling:   decimal.NewFromInt(10000),
				Remaining: decimal.NewFromInt(50),
			}, nil
		},
	}, nil)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/1/limits", nil), "id", "1")
	rec := httptest.NewRecorder()
	h.Limits(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.DailyUsageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Remaining != "50.00" || resp.Sent != "9950.00" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Reconcile(t *testing.T) {
	var capturedDay time.Time
	h := NewAccountHandler(nil, &reconciliationServiceStub{
		reconcileFn: func(ctx context.Context, accountID int64, day time.Time) (*usecase.ReconciliationResult, error) {
			capturedDay = day
			return &usecase.ReconciliationResult{
				AccountID:      accountID,
				Day:            day,
				AggregateTotal: decimal.NewFromInt(100),
				LedgerTotal:    decimal.NewFromInt(100),
				Difference:     decimal.Zero,
				IsReconciled:   true,
			}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/1/reconciliation?date=2024-03-15", nil), "id", "1")
	rec := httptest.NewRecorder()
	h.Reconcile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if domain.DayKey(capturedDay) != "2024-03-15" {
		t.Fatalf("unexpected day %s", capturedDay)
	}

	req = setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/1/reconciliation", nil), "id", "1")
	rec = httptest.NewRecorder()
	h.Reconcile(rec, req)
	if rec.Code != http.StatusOK || !capturedDay.IsZero() {
		t.Fatalf("expected zero day to be passed through, got %d %s", rec.Code, capturedDay)
	}

	req = setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/1/reconciliation?date=yesterday", nil), "id", "1")
	rec = httptest.NewRecorder()
	h.Reconcile(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Reconcile_ServiceError(t *testing.T) {
	h := NewAccountHandler(nil, &reconciliationServiceStub{
		reconcileFn: func(ctx context.Context, accountID int64, day time.Time) (*usecase.ReconciliationResult, error) {
			return nil, errors.New("db down")
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/1/reconciliation", nil), "id", "1")
	rec := httptest.NewRecorder()
	h.Reconcile(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
