package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// validate is shared by the transport DTOs and the services.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// ValidateStruct checks validate tags on s and reports the first failure as a Validation error.
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return validationError(err, "")
	}
	return nil
}

// RequireText fails with "<field> is required" when value is empty or whitespace.
func RequireText(field, value string) error {
	if err := validate.Var(value, "notblank"); err != nil {
		return validationError(err, field)
	}
	return nil
}

func validationError(err error, field string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	fe := fieldErrs[0]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required", "notblank":
		return Validation("%s is required", field)
	case "email":
		return Validation("invalid email format")
	default:
		return Validation("%s failed %s check", field, fe.Tag())
	}
}
