package validator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
	Year  int    `validate:"gte=1950"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{Name: "ok", Year: 2020}))

	errs := Validate(sample{Email: "nope", Year: 1900})
	assert.Equal(t, map[string]string{"Name": "required", "Email": "email", "Year": "gte"}, errs)
	assert.Equal(t, "Email: email, Name: required, Year: gte", Describe(errs))
}

func TestWrapAndFields(t *testing.T) {
	sentinel := errors.New("validation failed")
	errs := Validate(sample{Year: 2020})

	err := Wrap(sentinel, errs)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "validation failed: Name: required", err.Error())
	assert.Equal(t, map[string]string{"Name": "required"}, Fields(fmt.Errorf("register: %w", err)))

	// Raw validator errors, as gin's binding returns them.
	raw := validate.Struct(sample{Email: "nope", Name: "ok"})
	assert.Equal(t, map[string]string{"Email": "email", "Year": "gte"}, Fields(raw))

	assert.Nil(t, Fields(sentinel))
}
