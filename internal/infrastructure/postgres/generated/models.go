package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Document  string             `json:"document"`
	Category  string             `json:"category"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type DailyAggregate struct {
	AccountID int64              `json:"account_id"`
	Day       pgtype.Date        `json:"day"`
	Total     pgtype.Numeric     `json:"total"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type Quote struct {
	Currency  string             `json:"currency"`
	Day       pgtype.Date        `json:"day"`
	Rate      pgtype.Numeric     `json:"rate"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Remittance struct {
	ID              string             `json:"id"`
	SenderID        int64              `json:"sender_id"`
	RecipientID     int64              `json:"recipient_id"`
	Amount          pgtype.Numeric     `json:"amount"`
	Fee             pgtype.Numeric     `json:"fee"`
	Currency        string             `json:"currency"`
	Quote           pgtype.Numeric     `json:"quote"`
	ConvertedAmount pgtype.Numeric     `json:"converted_amount"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}

type Wallet struct {
	AccountID int64              `json:"account_id"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}
