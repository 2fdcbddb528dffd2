package api

import (
	"dtmapi/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// required adds "empty/<field>" when value is blank and reports whether it was set.
func required(errs *apperror.Errors, value, field, message string) bool {
	if value == "" {
		errs.Add("empty/"+field, message)
		return false
	}
	return true
}
