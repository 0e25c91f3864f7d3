package donation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validate is a singleton instance of the validator.
var validate = validator.New()

// Intent is a donation request from the donation form. It is untrusted and
// never persisted.
type Intent struct {
	Amount     decimal.Decimal `json:"amount"`
	Recurring  bool            `json:"recurring"`
	DonorName  string          `json:"donorName" validate:"required,max=200"`
	DonorEmail string          `json:"donorEmail" validate:"required,email,max=320"`
	Message    string          `json:"message,omitempty" validate:"max=2000"`
}

// Normalize trims the free-text fields in place.
func (i *Intent) Normalize() {
	i.DonorName = strings.TrimSpace(i.DonorName)
	i.DonorEmail = strings.TrimSpace(i.DonorEmail)
	i.Message = strings.TrimSpace(i.Message)
}

// Validate returns a *ValidationError describing the first problem found.
func (i Intent) Validate() error {
	if !i.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}
	// Compared as decimals: IntPart wraps once amount*100 leaves int64.
	minor := i.Amount.Shift(2).Round(0)
	if minor.LessThan(decimal.NewFromInt(1)) {
		return &ValidationError{Field: "amount", Message: "amount is too small"}
	}
	if minor.GreaterThan(decimal.NewFromInt(MaxMinorUnits)) {
		return &ValidationError{Field: "amount", Message: "amount exceeds the maximum single donation"}
	}

	if err := validate.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	name := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: name, Message: name + " is required"}
	case "email":
		return &ValidationError{Field: name, Message: name + " must be a valid email address"}
	case "max":
		return &ValidationError{Field: name, Message: name + " is too long"}
	default:
		return &ValidationError{Field: name, Message: name + " is invalid"}
	}
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
