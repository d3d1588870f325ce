// Package apperr holds the error kinds shared by every service.
// Services wrap them so callers can test with errors.Is without knowing which
// service produced the error.
package apperr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage unavailable")
)

// Validation wraps a validator failure, keeping the field errors reachable.
func Validation(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
}

// Storage marks err as a storage failure.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// NewValidator reports field errors under their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Fields lists the names of the struct fields that failed validation.
func Fields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}

	return fields
}
