package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStruct(t *testing.T) {
	assert.Nil(t, Struct(loginForm{Email: "a@hostel.test", Password: "secret"}))

	fields := Struct(loginForm{Email: "nope", Password: "123"})
	assert.Len(t, fields, 2)
	assert.Contains(t, fields["email"], "valid email")
	assert.Contains(t, fields["password"], "6 characters")
}

func TestTranslateErrorsNonValidation(t *testing.T) {
	fields := TranslateErrors(errors.New("unexpected EOF"))
	assert.Equal(t, map[string]string{"detail": "unexpected EOF"}, fields)
}

func TestFirst(t *testing.T) {
	assert.Empty(t, First(nil))
	assert.Equal(t, "a-msg", First(map[string]string{"b": "b-msg", "a": "a-msg"}))
}
