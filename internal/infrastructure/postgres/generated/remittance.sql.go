package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createRemittance = `-- name: CreateRemittance :exec
INSERT INTO remittances (id, sender_id, recipient_id, amount, fee, currency, quote, converted_amount, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateRemittanceParams struct {
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

func (q *Queries) CreateRemittance(ctx context.Context, arg CreateRemittanceParams) error {
	_, err := q.db.Exec(ctx, createRemittance,
		arg.ID,
		arg.SenderID,
		arg.RecipientID,
		arg.Amount,
		arg.Fee,
		arg.Currency,
		arg.Quote,
		arg.ConvertedAmount,
		arg.CreatedAt,
	)
	return err
}

const getRemittanceByID = `-- name: GetRemittanceByID :one
SELECT id, sender_id, recipient_id, amount, fee, currency, quote, converted_amount, created_at
FROM remittances WHERE id = $1
`

func (q *Queries) GetRemittanceByID(ctx context.Context, id string) (Remittance, error) {
	row := q.db.QueryRow(ctx, getRemittanceByID, id)
	var i Remittance
	err := row.Scan(
		&i.ID,
		&i.SenderID,
		&i.RecipientID,
		&i.Amount,
		&i.Fee,
		&i.Currency,
		&i.Quote,
		&i.ConvertedAmount,
		&i.CreatedAt,
	)
	return i, err
}

const listRemittancesByAccount = `-- name: ListRemittancesByAccount :many
SELECT id, sender_id, recipient_id, amount, fee, currency, quote, converted_amount, created_at
FROM remittances
WHERE (sender_id = $1 OR recipient_id = $1)
  AND created_at >= $2 AND created_at < $3
ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5
`

type ListRemittancesByAccountParams struct {
	AccountID int64              `json:"account_id"`
	FromTime  pgtype.Timestamptz `json:"from_time"`
	ToTime    pgtype.Timestamptz `json:"to_time"`
	Limit     int32              `json:"limit"`
	Offset    int32              `json:"offset"`
}

func (q *Queries) ListRemittancesByAccount(ctx context.Context, arg ListRemittancesByAccountParams) ([]Remittance, error) {
	rows, err := q.db.Query(ctx, listRemittancesByAccount,
		arg.AccountID,
		arg.FromTime,
		arg.ToTime,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Remittance
	for rows.Next() {
		var i Remittance
		if err := rows.Scan(
			&i.ID,
			&i.SenderID,
			&i.RecipientID,
			&i.Amount,
			&i.Fee,
			&i.Currency,
			&i.Quote,
			&i.ConvertedAmount,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRemittancesByAccount = `-- name: CountRemittancesByAccount :one
SELECT COUNT(*) FROM remittances
WHERE (sender_id = $1 OR recipient_id = $1)
  AND created_at >= $2 AND created_at < $3
`

type CountRemittancesByAccountParams struct {
	AccountID int64              `json:"account_id"`
	FromTime  pgtype.Timestamptz `json:"from_time"`
	ToTime    pgtype.Timestamptz `json:"to_time"`
}

func (q *Queries) CountRemittancesByAccount(ctx context.Context, arg CountRemittancesByAccountParams) (int64, error) {
	row := q.db.QueryRow(ctx, countRemittancesByAccount, arg.AccountID, arg.FromTime, arg.ToTime)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const sumSentByAccount = `-- name: SumSentByAccount :one
SELECT COALESCE(SUM(amount), 0)::NUMERIC AS total FROM remittances
WHERE sender_id = $1 AND created_at >= $2 AND created_at < $3
`

type SumSentByAccountParams struct {
	SenderID int64              `json:"sender_id"`
	FromTime pgtype.Timestamptz `json:"from_time"`
	ToTime   pgtype.Timestamptz `json:"to_time"`
}

func (q *Queries) SumSentByAccount(ctx context.Context, arg SumSentByAccountParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumSentByAccount, arg.SenderID, arg.FromTime, arg.ToTime)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}
