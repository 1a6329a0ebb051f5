package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldSeparators are the bytes that would split a stored value on the way
// back out: ';' separates reply fields and a line break ends the reply.
const fieldSeparators = ";\r\n"

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("replysafe", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), fieldSeparators)
	})
	return validate
}
