package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createWallet = `-- name: CreateWallet :exec
INSERT INTO wallets (account_id, balance, version, updated_at)
VALUES ($1, $2, $3, $4)
`

type CreateWalletParams struct {
	AccountID int64              `json:"account_id"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateWallet(ctx context.Context, arg CreateWalletParams) error {
	_, err := q.db.Exec(ctx, createWallet,
		arg.AccountID,
		arg.Balance,
		arg.Version,
		arg.UpdatedAt,
	)
	return err
}

const getWallet = `-- name: GetWallet :one
SELECT account_id, balance, version, updated_at FROM wallets WHERE account_id = $1
`

func (q *Queries) GetWallet(ctx context.Context, accountID int64) (Wallet, error) {
	row := q.db.QueryRow(ctx, getWallet, accountID)
	var i Wallet
	err := row.Scan(
		&i.AccountID,
		&i.Balance,
		&i.Version,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletForUpdate = `-- name: GetWalletForUpdate :one
SELECT account_id, balance, version, updated_at FROM wallets WHERE account_id = $1 FOR UPDATE
`

func (q *Queries) GetWalletForUpdate(ctx context.Context, accountID int64) (Wallet, error) {
	row := q.db.QueryRow(ctx, getWalletForUpdate, accountID)
	var i Wallet
	err := row.Scan(
		&i.AccountID,
		&i.Balance,
		&i.Version,
		&i.UpdatedAt,
	)
	return i, err
}

const updateWalletBalance = `-- name: UpdateWalletBalance :execrows
UPDATE wallets
SET balance = $2, version = $3, updated_at = $4
WHERE account_id = $1 AND version = $3 - 1
`

type UpdateWalletBalanceParams struct {
	AccountID int64              `json:"account_id"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateWalletBalance(ctx context.Context, arg UpdateWalletBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateWalletBalance,
		arg.AccountID,
		arg.Balance,
		arg.Version,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
