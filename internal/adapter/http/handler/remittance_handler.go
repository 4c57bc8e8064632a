package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// RemittanceService defines the behavior needed by RemittanceHandler.
type RemittanceService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Remittance, error)
	GetRemittance(ctx context.Context, id string) (*domain.Remittance, error)
}

// HistoryService pages through an account's remittances.
type HistoryService interface {
	History(ctx context.Context, input usecase.HistoryInput) (*domain.RemittancePage, error)
}

// RemittanceHandler handles remittance-related HTTP requests.
type RemittanceHandler struct {
	remittanceUC RemittanceService
	historyUC    HistoryService
}

// NewRemittanceHandler creates a new RemittanceHandler.
func NewRemittanceHandler(remittanceUC RemittanceService, historyUC HistoryService) *RemittanceHandler {
	return &RemittanceHandler{
		remittanceUC: remittanceUC,
		historyUC:    historyUC,
	}
}

// Create sends a remittance.
func (h *RemittanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	remittance, err := h.remittanceUC.Transfer(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to send remittance", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RemittanceFromDomain(remittance))
}

// Get retrieves a remittance by ID.
func (h *RemittanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing remittance ID", "")
		return
	}

	remittance, err := h.remittanceUC.GetRemittance(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get remittance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RemittanceFromDomain(remittance))
}

// History lists an account's remittances between start and end (yyyy-mm-dd).
func (h *RemittanceHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	query := r.URL.Query()
	start, err := dto.ParseDate(query.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start", err.Error())
		return
	}
	end, err := dto.ParseDate(query.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end", err.Error())
		return
	}
	if start.IsZero() || end.IsZero() {
		writeError(w, http.StatusBadRequest, "missing period", "start and end are required")
		return
	}

	pageNum, err := parseIntQuery(r, "page", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page", err.Error())
		return
	}
	size, err := parseIntQuery(r, "size", usecase.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid size", err.Error())
		return
	}

	page, err := h.historyUC.History(r.Context(), usecase.HistoryInput{
		AccountID: accountID,
		Start:     start,
		End:       end,
		Page:      pageNum,
		Size:      size,
	})
	if err != nil {
		writeDomainError(w, "failed to list remittances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromDomain(page))
}
