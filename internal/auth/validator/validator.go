// Package validator registers the account-specific validation rules.
package validator

import (
	"regexp"

	"film_catalog_backend/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
)

var userNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{2,31}$`)

// Register adds the "username" rule to val.
func Register(val *validator.Validator) error {
	return val.RegisterValidation("username", validateUserName)
}

// validateUserName accepts 3-32 characters of letters, digits, dot, dash and
// underscore, starting with a letter or digit.
func validateUserName(fl govalidator.FieldLevel) bool {
	return userNamePattern.MatchString(fl.Field().String())
}
