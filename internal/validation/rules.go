// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/wapas/voicerelay/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// notBlankRule validates that a string is not empty or whitespace-only
type notBlankRule struct{}

// NotBlank is a validation rule that rejects empty and whitespace-only strings.
var NotBlank = notBlankRule{}

// Validate checks if the value is a non-blank string
func (r notBlankRule) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
}

// currencyCodeRule validates three-letter ISO currency codes
type currencyCodeRule struct{}

// CurrencyCode is a validation rule for ISO-4217 style currency codes.
var CurrencyCode = currencyCodeRule{}

// Validate checks if the value is a three-letter uppercase currency code
func (r currencyCodeRule) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_currency_code", "must be a string")
	}
	if len(s) != 3 {
		return validation.NewError("validation_currency_code", "must be a three-letter code")
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return validation.NewError("validation_currency_code", "must be uppercase letters")
		}
	}
	return nil
}
