// Package validation checks request structs before any domain logic runs.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"wholesale-be/internal/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// decimal.Decimal is validated as a float so gt/gte work on prices
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Struct validates v and returns a VALIDATION_ERROR listing the failing fields.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[trimRoot(fe.Namespace())] = fe.Tag()
		}
		return apperror.New(apperror.KindValidation, "invalid request").With("fields", fields)
	}

	return apperror.Wrap(apperror.KindValidation, "invalid request", err)
}

// Malformed reports a body that could not be decoded into the request struct.
func Malformed(err error) error {
	return apperror.Wrap(apperror.KindValidation, "malformed request body", err)
}

func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
