package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct tags on request payloads.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator that reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns its failures as a ValidationError.
// The returned value is never nil; call OrNil to collapse an empty result.
func (val *Validator) Struct(s any) *ValidationError {
	verr := NewValidationError()

	err := val.v.Struct(s)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("", err.Error())
		return verr
	}

	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), messageFor(fe))
	}
	return verr
}

func messageFor(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "Field required"
	case "email":
		return "value is not a valid email address"
	case "max":
		if isString {
			return fmt.Sprintf("String should have at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Input should be less than or equal to %s", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("String should have at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
