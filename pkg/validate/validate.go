package validate

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
)

var instance = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	// Phone check: formatting characters allowed, 10-15 digits total.
	_ = v.RegisterValidation("phonedigits", func(fl validator.FieldLevel) bool {
		digits := 0
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsDigit(r):
				digits++
			case r == '+' || r == '-' || r == '(' || r == ')' || r == ' ' || r == '.':
			default:
				return false
			}
		}
		return digits >= 10 && digits <= 15
	})
	return v
}

// Struct runs tag validation on dest and converts any failures into a coded
// validation error with per-field details. Both the HTTP decode path and the
// checkout session enforce form rules through this one validator.
func Struct(dest any) error {
	if err := instance.Struct(dest); err != nil {
		return AsError(err)
	}
	return nil
}

// AsError converts a validator failure into the *pkgerrors.Error shape the
// response layer renders: field name keys, human messages as values.
func AsError(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = message(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "phonedigits":
		return "must be a valid phone number"
	}
	return "is invalid"
}
