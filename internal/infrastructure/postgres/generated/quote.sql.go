package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getQuote = `-- name: GetQuote :one
SELECT currency, day, rate, updated_at FROM quotes WHERE currency = $1 AND day = $2
`

type GetQuoteParams struct {
	Currency string      `json:"currency"`
	Day      pgtype.Date `json:"day"`
}

func (q *Queries) GetQuote(ctx context.Context, arg GetQuoteParams) (Quote, error) {
	row := q.db.QueryRow(ctx, getQuote, arg.Currency, arg.Day)
	var i Quote
	err := row.Scan(
		&i.Currency,
		&i.Day,
		&i.Rate,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertQuote = `-- name: UpsertQuote :exec
INSERT INTO quotes (currency, day, rate, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (currency, day) DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at
`

type UpsertQuoteParams struct {
	Currency  string             `json:"currency"`
	Day       pgtype.Date        `json:"day"`
	Rate      pgtype.Numeric     `json:"rate"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpsertQuote(ctx context.Context, arg UpsertQuoteParams) error {
	_, err := q.db.Exec(ctx, upsertQuote,
		arg.Currency,
		arg.Day,
		arg.Rate,
		arg.UpdatedAt,
	)
	return err
}
