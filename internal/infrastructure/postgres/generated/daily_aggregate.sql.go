package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const ensureDailyAggregate = `-- name: EnsureDailyAggregate :exec
INSERT INTO daily_aggregates (account_id, day, total, updated_at)
VALUES ($1, $2, 0, $3)
ON CONFLICT (account_id, day) DO NOTHING
`

type EnsureDailyAggregateParams struct {
	AccountID int64              `json:"account_id"`
	Day       pgtype.Date        `json:"day"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) EnsureDailyAggregate(ctx context.Context, arg EnsureDailyAggregateParams) error {
	_, err := q.db.Exec(ctx, ensureDailyAggregate, arg.AccountID, arg.Day, arg.UpdatedAt)
	return err
}

const getDailyAggregate = `-- name: GetDailyAggregate :one
SELECT account_id, day, total, updated_at FROM daily_aggregates
WHERE account_id = $1 AND day = $2
`

type GetDailyAggregateParams struct {
	AccountID int64       `json:"account_id"`
	Day       pgtype.Date `json:"day"`
}

func (q *Queries) GetDailyAggregate(ctx context.Context, arg GetDailyAggregateParams) (DailyAggregate, error) {
	row := q.db.QueryRow(ctx, getDailyAggregate, arg.AccountID, arg.Day)
	var i DailyAggregate
	err := row.Scan(
		&i.AccountID,
		&i.Day,
		&i.Total,
		&i.UpdatedAt,
	)
	return i, err
}

const getDailyAggregateForUpdate = `-- name: GetDailyAggregateForUpdate :one
SELECT account_id, day, total, updated_at FROM daily_aggregates
WHERE account_id = $1 AND day = $2
FOR UPDATE
`

type GetDailyAggregateForUpdateParams struct {
	AccountID int64       `json:"account_id"`
	Day       pgtype.Date `json:"day"`
}

func (q *Queries) GetDailyAggregateForUpdate(ctx context.Context, arg GetDailyAggregateForUpdateParams) (DailyAggregate, error) {
	row := q.db.QueryRow(ctx, getDailyAggregateForUpdate, arg.AccountID, arg.Day)
	var i DailyAggregate
	err := row.Scan(
		&i.AccountID,
		&i.Day,
		&i.Total,
		&i.UpdatedAt,
	)
	return i, err
}

const updateDailyAggregate = `-- name: UpdateDailyAggregate :exec
UPDATE daily_aggregates
SET total = $3, updated_at = $4
WHERE account_id = $1 AND day = $2
`

type UpdateDailyAggregateParams struct {
	AccountID int64              `json:"account_id"`
	Day       pgtype.Date        `json:"day"`
	Total     pgtype.Numeric     `json:"total"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateDailyAggregate(ctx context.Context, arg UpdateDailyAggregateParams) error {
	_, err := q.db.Exec(ctx, updateDailyAggregate,
		arg.AccountID,
		arg.Day,
		arg.Total,
		arg.UpdatedAt,
	)
	return err
}
