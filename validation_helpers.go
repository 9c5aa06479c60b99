package main

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateStringLength validates string length constraints
func ValidateStringLength(field, value string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(value)
	if length < minLen {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", minLen),
		}
	}
	if maxLen > 0 && length > maxLen {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d characters", maxLen),
		}
	}
	return nil
}

// validateDeckRequest checks presence and length bounds of the five
// required text fields. It runs before any external call is made.
func validateDeckRequest(req DeckRequest) error {
	fields := []struct {
		name   string
		value  string
		maxLen int
	}{
		{"company_name", req.CompanyName, 100},
		{"industry", req.Industry, 100},
		{"buyer_persona", req.BuyerPersona, 200},
		{"main_pain_point", req.MainPainPoint, 500},
		{"use_case", req.UseCase, 500},
	}

	for _, f := range fields {
		if err := ValidateRequired(f.name, f.value); err != nil {
			return err
		}
		if err := ValidateStringLength(f.name, f.value, 1, f.maxLen); err != nil {
			return err
		}
	}
	return nil
}
