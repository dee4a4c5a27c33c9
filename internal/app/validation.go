package app

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobboard/internal/common"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validateInput runs struct tag validation and converts failures into a
// common validation error keyed by json field name. messages maps
// "field.tag" to the user-facing text.
func validateInput(input any, message string, messages map[string]string) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return common.NewError(common.CodeInternal, "failed to validate input", err)
	}
	fields := make(map[string]string, len(failures))
	for _, failure := range failures {
		field := failure.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		if text, ok := messages[field+"."+failure.Tag()]; ok {
			fields[field] = text
			continue
		}
		fields[field] = defaultMessage(field, failure)
	}
	return common.NewValidationError(message, fields)
}

func defaultMessage(field string, failure validator.FieldError) string {
	switch failure.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + failure.Param() + " characters"
	case "min":
		return field + " must be at least " + failure.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(failure.Param(), " ", ", ")
	case "email":
		return field + " must be a valid email address"
	default:
		return field + " is invalid"
	}
}
