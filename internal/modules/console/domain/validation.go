package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		parsed, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !parsed.IsNegative()
	})
	return v
}

// validateField returns the message for the first failing rule, or "".
func validateField(spec FieldSpec, rules, value string) string {
	err := validate.Var(value, rules)
	if err == nil {
		return ""
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Sprintf("%s is invalid", spec.Label)
	}
	first := fieldErrs[0]
	if message, ok := spec.Messages[first.Tag()]; ok {
		return message
	}
	return defaultMessage(spec.Label, first.Tag(), first.Param())
}

func defaultMessage(label, tag, param string) string {
	switch tag {
	case "required":
		return label + " is required"
	case "min":
		return "Min " + param + " characters"
	case "max":
		return "Max " + param + " characters"
	case "email":
		return "Invalid email"
	case "phone":
		return "Invalid phone number"
	case "numeric", "number":
		return label + " must be a number"
	case "nonnegative":
		return label + " must be positive"
	case "oneof":
		return label + " must be one of " + strings.Join(strings.Fields(param), ", ")
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	case "boolean":
		return label + " must be true or false"
	default:
		return label + " is invalid"
	}
}
