package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/domain"
)

// QuoteService defines the behavior needed by QuoteHandler.
type QuoteService interface {
	GetQuote(ctx context.Context, currency string) (decimal.Decimal, error)
	PublishQuote(ctx context.Context, currency string, day time.Time, rate decimal.Decimal) (*domain.Quote, error)
}

// QuoteHandler serves exchange rates.
type QuoteHandler struct {
	quoteUC QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteUC QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteUC: quoteUC}
}

// Get returns the rate in effect today.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	currency := domain.NormalizeCurrency(chi.URLParam(r, "currency"))

	rate, err := h.quoteUC.GetQuote(r.Context(), currency)
	if err != nil {
		writeDomainError(w, "failed to get quote", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteResponse{
		Currency: currency,
		Rate:     rate.String(),
	})
}

// Put publishes the rate of a currency for a day.
func (h *QuoteHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req dto.PublishQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rate, day, err := req.Parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quote", err.Error())
		return
	}

	quote, err := h.quoteUC.PublishQuote(r.Context(), chi.URLParam(r, "currency"), day, rate)
	if err != nil {
		writeDomainError(w, "failed to publish quote", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteFromDomain(quote))
}
