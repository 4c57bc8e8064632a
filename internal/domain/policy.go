package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CategoryPolicy holds the fee percentage and daily ceiling of one category.
type CategoryPolicy struct {
	FeePercent   decimal.Decimal
	DailyCeiling decimal.Decimal
}

// Fee returns amount × FeePercent rounded half-up to cents.
func (p CategoryPolicy) Fee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.FeePercent).Round(2)
}

// CheckLimit fails when priorTotal + amount exceeds the ceiling. Reaching it exactly is allowed.
func (p CategoryPolicy) CheckLimit(priorTotal, amount decimal.Decimal) error {
	next := priorTotal.Add(amount)
	if next.GreaterThan(p.DailyCeiling) {
		return fmt.Errorf("%w: sent today %s + %s exceeds %s",
			ErrDailyLimitExceeded, priorTotal.StringFixed(2), amount.StringFixed(2), p.DailyCeiling.StringFixed(2))
	}
	return nil
}

// Remaining returns how much can still be sent given priorTotal.
func (p CategoryPolicy) Remaining(priorTotal decimal.Decimal) decimal.Decimal {
	rest := p.DailyCeiling.Sub(priorTotal)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// PolicyTable maps each category to its policy.
type PolicyTable map[Category]CategoryPolicy

// For returns the policy of category c.
func (t PolicyTable) For(c Category) (CategoryPolicy, error) {
	p, ok := t[c]
	if !ok {
		return CategoryPolicy{}, fmt.Errorf("%w: no policy for %q", ErrUnknownCategory, c)
	}
	return p, nil
}

// DefaultPolicies returns the stock policy table.
func DefaultPolicies() PolicyTable {
	return PolicyTable{
		CategoryIndividual: {
			FeePercent:   decimal.RequireFromString("0.02"),
			DailyCeiling: decimal.NewFromInt(10000),
		},
		CategoryBusiness: {
			FeePercent:   decimal.RequireFromString("0.01"),
			DailyCeiling: decimal.NewFromInt(50000),
		},
	}
}
