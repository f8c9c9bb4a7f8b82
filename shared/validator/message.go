package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"email":    "{field} must be a valid email address",
	"isodate":  "{field} must be a date in YYYY-MM-DD format",
	"notblank": "{field} must not be blank",
	"hexcolor": "{field} must be a hex color",
}

// Length rules on strings and slices read better as counts.
var lengthMessages = map[string]string{
	"max": "{field} must be at most {param} characters",
	"min": "{field} must be at least {param} characters",
}

func describe(fieldErr val.FieldError) (string, bool) {
	template, ok := messages[fieldErr.Tag()]

	if fieldErr.Kind() == reflect.String {
		if lengthTemplate, isLength := lengthMessages[fieldErr.Tag()]; isLength {
			template, ok = lengthTemplate, true
		}
	}

	if !ok {
		return "", false
	}

	return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template), true
}

// message renders every failed rule with a known template, joined by "; ".
func message(err error) string {
	var fieldErrs val.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))

	for _, fieldErr := range fieldErrs {
		if text, ok := describe(fieldErr); ok {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return fieldErrs.Error()
	}

	return strings.Join(parts, "; ")
}
