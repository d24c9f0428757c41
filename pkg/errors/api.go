package errors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents the request payload validation error.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New("Not Found")

	// ErrInvalidLoggerInstance is returned when logger instance is not supported.
	ErrInvalidLoggerInstance = New("Invalid logger instance")
)

// MissingInReqErr is a error function corresponding to missing request entities.
func MissingInReqErr(field string) error {
	return New(fmt.Sprintf("Missing %s in request body.", field))
}

// EntityNotFoundErr is a error function corresponding to missing entities.
func EntityNotFoundErr(entity, container string) error {
	return New(fmt.Sprintf("%s not found for given %s.", entity, container))
}

// InvalidInReqErr is a error function corresponding to invalid requests.
func InvalidInReqErr(field string) error {
	return New(fmt.Sprintf("Invalid %s in request body.", field))
}

// MissingInPathErr is a error function corresponding to missing path params.
func MissingInPathErr(key string) error {
	return New(fmt.Sprintf("Missing %s in request path.", key))
}

// ValidationErr is a error function corresponding to invalid request payloads.
func ValidationErr(err error) interface{} {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return validationErr(verr)
	}
	return New(err.Error())
}

func validationErr(verr validator.ValidationErrors) []ValidationError {
	errs := []ValidationError{}
	for _, f := range verr {
		err := f.ActualTag()
		if f.Param() != "" {
			err = fmt.Sprintf("%s=%s", err, f.Param())
		}
		errs = append(errs, ValidationError{Field: f.Field(), Reason: err})
	}
	return errs
}
