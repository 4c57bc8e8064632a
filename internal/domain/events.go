package domain

import (
	"strconv"
	"time"
)

// Event types
const (
	EventTypeRemittanceCreated = "remittance.created"
	EventTypeAccountOpened     = "account.opened"
)

// Aggregate types
const (
	AggregateTypeRemittance = "remittance"
	AggregateTypeAccount    = "account"
	AggregateTypeQuote      = "quote"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// RemittanceCreatedEvent payload
type RemittanceCreatedEvent struct {
	RemittanceID    string `json:"remittance_id"`
	SenderID        string `json:"sender_id"`
	RecipientID     string `json:"recipient_id"`
	Amount          string `json:"amount"`
	Fee             string `json:"fee"`
	Currency        string `json:"currency"`
	Quote           string `json:"quote"`
	ConvertedAmount string `json:"converted_amount"`
	EventAt         string `json:"event_at"`
}

// NewRemittanceCreatedEvent builds the outbox event for a committed remittance.
func NewRemittanceCreatedEvent(id string, r *Remittance) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   r.ID,
		AggregateType: AggregateTypeRemittance,
		EventType:     EventTypeRemittanceCreated,
		Payload: map[string]any{
			"remittance_id":    r.ID,
			"sender_id":        strconv.FormatInt(r.SenderID, 10),
			"recipient_id":     strconv.FormatInt(r.RecipientID, 10),
			"amount":           r.Amount.StringFixed(2),
			"fee":              r.Fee.StringFixed(2),
			"currency":         r.Currency,
			"quote":            r.Quote.String(),
			"converted_amount": r.ConvertedAmount.StringFixed(2),
			"event_at":         r.CreatedAt.Format(time.RFC3339Nano),
		},
		CreatedAt: r.CreatedAt,
	}
}

// NewAccountOpenedEvent builds the outbox event for a newly opened account.
func NewAccountOpenedEvent(id string, a *Account) *OutboxEvent {
	accountID := strconv.FormatInt(a.ID, 10)
	return &OutboxEvent{
		ID:            id,
		AggregateID:   accountID,
		AggregateType: AggregateTypeAccount,
		EventType:     EventTypeAccountOpened,
		Payload: map[string]any{
			"account_id": accountID,
			"name":       a.Name,
			"category":   string(a.Category),
		},
		CreatedAt: a.CreatedAt,
	}
}
