package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCategoryPolicy_Fee(t *testing.T) {
	policies := DefaultPolicies()

	tests := []struct {
		category Category
		amount   string
		want     string
	}{
		{CategoryIndividual, "100.00", "2.00"},
		{CategoryIndividual, "1000.00", "20.00"},
		{CategoryIndividual, "0.25", "0.01"},
		{CategoryIndividual, "10.33", "0.21"},
		{CategoryBusiness, "100.00", "1.00"},
		{CategoryBusiness, "0.50", "0.01"},
		{CategoryBusiness, "12345.67", "123.46"},
	}

	for _, tt := range tests {
		p, err := policies.For(tt.category)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := p.Fee(d(tt.amount)); !got.Equal(d(tt.want)) {
			t.Errorf("%s fee on %s: expected %s, got %s", tt.category, tt.amount, tt.want, got)
		}
	}
}

func TestCategoryPolicy_CheckLimit(t *testing.T) {
	policies := DefaultPolicies()
	individual, _ := policies.For(CategoryIndividual)
	business, _ := policies.For(CategoryBusiness)

	tests := []struct {
		name    string
		policy  CategoryPolicy
		prior   string
		amount  string
		wantErr bool
	}{
		{"individual below ceiling", individual, "0", "100", false},
		{"individual reaches ceiling exactly", individual, "9900", "100", false},
		{"individual exceeds ceiling", individual, "9950", "100", true},
		{"individual one cent over", individual, "10000", "0.01", true},
		{"business reaches ceiling exactly", business, "49000", "1000", false},
		{"business exceeds ceiling", business, "49999.99", "0.02", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.CheckLimit(d(tt.prior), d(tt.amount))
			if tt.wantErr && !errors.Is(err, ErrDailyLimitExceeded) {
				t.Fatalf("expected ErrDailyLimitExceeded, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCategoryPolicy_Remaining(t *testing.T) {
	individual, _ := DefaultPolicies().For(CategoryIndividual)

	if got := individual.Remaining(d("9950")); !got.Equal(d("50")) {
		t.Errorf("expected 50, got %s", got)
	}
	if got := individual.Remaining(d("12000")); !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
}

func TestPolicyTable_ForUnknown(t *testing.T) {
	if _, err := DefaultPolicies().For("TRUST"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
