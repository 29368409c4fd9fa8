package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/accountech/financeos/backend/internal/domain/errors"
)

var (
	// DateRegex validates ISO 8601 date strings (YYYY-MM-DD)
	DateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// CurrencyRegex validates 3-letter ISO 4217 currency codes
	CurrencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidateISODate validates an ISO 8601 date string (YYYY-MM-DD)
func ValidateISODate(date string) error {
	if !DateRegex.MatchString(date) {
		return errors.NewValidationError("invalid date format, should be YYYY-MM-DD")
	}

	// Parse the date to ensure it's valid
	_, err := time.Parse("2006-01-02", date)
	if err != nil {
		return errors.NewValidationError("invalid date value")
	}

	return nil
}

// ValidateCurrency validates a currency code
func ValidateCurrency(currency string) error {
	if !CurrencyRegex.MatchString(currency) {
		return errors.NewValidationError("invalid currency code, should be a 3-letter code (e.g., USD)")
	}
	return nil
}

// ValidateRequiredString validates that a string is not empty
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(fieldName + " is required")
	}
	return nil
}
