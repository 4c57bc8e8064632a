package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*usecase.AccountView, error)
	GetAccount(ctx context.Context, id int64) (*usecase.AccountView, error)
	DailyUsage(ctx context.Context, id int64) (*usecase.DailyUsage, error)
}

// ReconciliationService checks an account's daily aggregate against the ledger.
type ReconciliationService interface {
	ReconcileDailyAggregate(ctx context.Context, accountID int64, day time.Time) (*usecase.ReconciliationResult, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC   AccountService
	reconcileUC ReconciliationService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, reconcileUC ReconciliationService) *AccountHandler {
	return &AccountHandler{
		accountUC:   accountUC,
		reconcileUC: reconcileUC,
	}
}

// Create opens a new account with its wallet.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid initial balance", err.Error())
		return
	}

	view, err := h.accountUC.OpenAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to open account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromView(view))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	view, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromView(view))
}

// Limits reports today's sent total against the account's daily ceiling.
func (h *AccountHandler) Limits(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	usage, err := h.accountUC.DailyUsage(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get daily usage", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DailyUsageFromUseCase(usage))
}

// Reconcile compares the daily aggregate with the ledger for ?date= (default today).
func (h *AccountHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	day, err := dto.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	result, err := h.reconcileUC.ReconcileDailyAggregate(r.Context(), id, day)
	if err != nil {
		writeDomainError(w, "failed to reconcile", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}
