package validator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator handles request validation for the account endpoints.
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single field violation.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Messages flattens the violations into human-readable strings, the shape the
// registration endpoint reports failures in.
func (ve ValidationErrors) Messages() []string {
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		messages = append(messages, fmt.Sprintf("%s %s", e.Field, e.Message))
	}
	return messages
}

// New creates a validator with the account rules registered.
func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerAccountRules()

	return v
}

// Validate validates a struct and collects every violation.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	var errors ValidationErrors

	err := v.validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{
				Field:   err.Field(),
				Message: v.getErrorMessage(err),
				Value:   err.Value(),
				Rule:    err.Tag(),
			})
		}
	}

	return errors
}

// registerAccountRules registers custom account validators
func (v *Validator) registerAccountRules() {
	// Username validation (3-100 characters, letters, digits, dot, dash, underscore)
	v.validate.RegisterValidation("account_username", func(fl validator.FieldLevel) bool {
		username := strings.TrimSpace(fl.Field().String())
		if len(username) < 3 || len(username) > 100 {
			return false
		}
		for _, r := range username {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '-' && r != '_' && r != '@' {
				return false
			}
		}
		return true
	})

	// Password strength validation (min 8 characters, upper, lower, digit, symbol)
	v.validate.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		if len(password) < 8 {
			return false
		}

		var hasUpper, hasLower, hasDigit, hasSymbol bool
		for _, r := range password {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsLower(r):
				hasLower = true
			case unicode.IsDigit(r):
				hasDigit = true
			default:
				hasSymbol = true
			}
		}
		return hasUpper && hasLower && hasDigit && hasSymbol
	})
}

func (v *Validator) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "account_username":
		return "must be 3-100 characters of letters, digits or . - _ @"
	case "strong_password":
		return "must be at least 8 characters and contain an uppercase letter, a lowercase letter, a digit and a symbol"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
