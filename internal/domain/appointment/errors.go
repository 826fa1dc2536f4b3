package appointment

import "errors"

// ===============================
// Validation Errors
// ===============================

type ValidationError struct {
	Code string
}

func (e ValidationError) Error() string {
	return e.Code
}

func ErrValidation(code string) error {
	return ValidationError{Code: code}
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
