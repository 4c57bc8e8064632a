package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies an account holder and selects its fee and limit policy.
type Category string

const (
	// CategoryIndividual is a natural person identified by an 11-digit document.
	CategoryIndividual Category = "INDIVIDUAL"
	// CategoryBusiness is a legal entity identified by a 14-digit document.
	CategoryBusiness Category = "BUSINESS"
)

var documentLengths = map[Category]int{
	CategoryIndividual: 11,
	CategoryBusiness:   14,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := documentLengths[c]
	return ok
}

// DocumentLength returns the number of digits a document must have for c.
func (c Category) DocumentLength() int {
	return documentLengths[c]
}

// ParseCategory normalizes a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Account represents an account holder. Immutable once created.
type Account struct {
	ID        int64
	Name      string
	Document  string
	Category  Category
	CreatedAt time.Time
}

// Validate checks name, category and the category's document rule.
func (a *Account) Validate() error {
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}

	if !a.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, a.Category)
	}

	return a.ValidateDocument()
}

// ValidateDocument checks the document is all digits with the category's length.
func (a *Account) ValidateDocument() error {
	want := a.Category.DocumentLength()
	if len(a.Document) != want {
		return fmt.Errorf("%w: %s document must have %d digits", ErrInvalidDocument, a.Category, want)
	}

	for _, r := range a.Document {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: document must contain digits only", ErrInvalidDocument)
		}
	}

	return nil
}
