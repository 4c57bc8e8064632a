package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyAggregate is the running total an account has sent on one calendar day.
// There is at most one per (AccountID, Day).
type DailyAggregate struct {
	AccountID int64
	Day       time.Time
	Total     decimal.Decimal
	UpdatedAt time.Time
}

// NewDailyAggregate returns the zero aggregate for an account and day.
func NewDailyAggregate(accountID int64, day time.Time) *DailyAggregate {
	return &DailyAggregate{
		AccountID: accountID,
		Day:       Day(day),
		Total:     decimal.Zero,
	}
}

// Add increases the total. Amounts are always positive so the total only grows.
func (a *DailyAggregate) Add(amount decimal.Decimal, at time.Time) {
	a.Total = a.Total.Add(amount)
	a.UpdatedAt = at
}

// Day truncates t to midnight in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats a day as yyyy-mm-dd.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
