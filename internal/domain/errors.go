package domain

import (
	"errors"
	"fmt"
)

// Validation errors: malformed input, rejected before any side effect.
var (
	ErrSameAccount      = errors.New("sender and recipient must be different accounts")
	ErrInvalidAmount    = errors.New("amount must be positive with at most 2 decimal places")
	ErrInvalidCurrency  = errors.New("unsupported currency code")
	ErrInvalidPeriod    = errors.New("period start must not be after its end")
	ErrPeriodTooLong    = errors.New("period exceeds the maximum allowed span")
	ErrPageSizeTooLarge = errors.New("page size exceeds the maximum allowed")
	ErrInvalidPage      = errors.New("page number must not be negative")
	ErrUnknownCategory  = errors.New("unknown account category")
	ErrInvalidDocument  = errors.New("invalid document")
)

// Business-rule errors: expected failures the caller can act on.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrDailyLimitExceeded  = errors.New("daily transfer limit exceeded")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInvalidQuote        = errors.New("invalid currency quote")
	ErrOperationInProgress = errors.New("another operation on this account is in progress")
)

// Lookup errors.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrRemittanceNotFound = errors.New("remittance not found")
	ErrQuoteNotFound      = errors.New("quote not found")
)

// ErrProcessingFailed matches every ProcessingError.
var ErrProcessingFailed = errors.New("remittance processing failed")

var validationErrors = []error{
	ErrSameAccount, ErrInvalidAmount, ErrInvalidCurrency, ErrInvalidPeriod,
	ErrPeriodTooLong, ErrPageSizeTooLarge, ErrInvalidPage, ErrUnknownCategory,
	ErrInvalidDocument, ErrInvalidAccountName, ErrAmountTooLarge, ErrAmountTooSmall,
}

var businessErrors = []error{
	ErrInsufficientFunds, ErrDailyLimitExceeded, ErrWalletNotFound,
	ErrInvalidQuote, ErrOperationInProgress,
}

// IsValidationError reports whether err is a validation failure.
func IsValidationError(err error) bool {
	return matchesAny(err, validationErrors)
}

// IsBusinessError reports whether err is a business-rule failure.
func IsBusinessError(err error) bool {
	return matchesAny(err, businessErrors)
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ProcessingError wraps an unexpected infrastructure failure.
type ProcessingError struct {
	Op  string
	Err error
}

// NewProcessingError wraps err for operation op.
func NewProcessingError(op string, err error) *ProcessingError {
	return &ProcessingError{Op: op, Err: err}
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrProcessingFailed.Error(), e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrProcessingFailed) true.
func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessingFailed
}
