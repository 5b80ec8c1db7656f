package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/storefront/internal/domain"
)

// FieldMessages turns a validation failure into one message per form field.
// Field names are the form tag names. It returns nil for other errors.
func FieldMessages(err error) domain.FieldErrors {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	fields := domain.FieldErrors{}
	for _, fe := range ves {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = messageFor(fe)
	}
	return fields
}

func messageFor(fe validator.FieldError) string {
	label := "Value"
	if f := fe.Field(); f != "" {
		label = strings.ToUpper(f[:1]) + f[1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "email":
		return "Please enter a valid email."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and numbers.", label)
	case "eqfield":
		return "Passwords have to match!"
	case "money":
		return "Price must be a non-negative amount with at most two decimals."
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
