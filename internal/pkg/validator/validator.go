package validator

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	return fieldMap(verrs)
}

// Error carries Validate output through service error returns.
type Error struct {
	Err    error
	Fields map[string]string
}

// Wrap attaches field errors to a module's validation sentinel.
func Wrap(err error, fields map[string]string) error {
	return &Error{Err: err, Fields: fields}
}

func (e *Error) Error() string { return e.Err.Error() + ": " + Describe(e.Fields) }

func (e *Error) Unwrap() error { return e.Err }

// Fields returns the per-field tags behind err, which is either a wrapped
// Validate result or a gin binding error. Anything else yields nil.
func Fields(err error) map[string]string {
	var v *Error
	if errors.As(err, &v) {
		return v.Fields
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fieldMap(verrs)
	}
	return nil
}

func fieldMap(verrs validator.ValidationErrors) map[string]string {
	errs := make(map[string]string, len(verrs))
	for _, e := range verrs {
		errs[e.Field()] = e.Tag()
	}
	return errs
}

// Describe renders Validate output as "Field: tag" pairs in a stable order.
func Describe(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+errs[f])
	}
	return strings.Join(parts, ", ")
}
