package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteScale is the number of decimal places a stored rate keeps.
const QuoteScale = 8

// RoundQuote rounds a rate to QuoteScale, the precision it is stored with.
func RoundQuote(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(QuoteScale)
}

// Quote is the exchange rate of a currency on one calendar day.
type Quote struct {
	Currency string
	Day      time.Time
	Rate     decimal.Decimal
}

// QuoteDay returns the business day whose rate applies on t.
// Weekends use the preceding Friday.
func QuoteDay(t time.Time) time.Time {
	day := Day(t)
	switch day.Weekday() {
	case time.Saturday:
		return day.AddDate(0, 0, -1)
	case time.Sunday:
		return day.AddDate(0, 0, -2)
	default:
		return day
	}
}
