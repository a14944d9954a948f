// AngelaMos | 2026
// validation.go

package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// NewValidator returns a validator that reports JSON field names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

// IsValidID reports whether s is a well-formed row id. Malformed ids are
// treated as absent rather than passed to the database.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
