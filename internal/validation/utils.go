package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	msgValidationFailed = "Campos obrigatórios ausentes ou inválidos."
	msgMalformedBody    = "Corpo da requisição inválido."
)

// Validatable is implemented by request payloads that validate (and
// normalize) themselves, usually with validator struct tags.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a field rule struct tags cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "validation failed"
}

// BindAndValidate binds path, query and body into payload, which must be
// a pointer, then validates it. Both failures are 400s; a Validate that
// returns an *errs.HTTPError has it passed through as is.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if err := payload.Validate(); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}

		fieldErrors := extractValidationErrors(err)
		if fieldErrors == nil {
			return errs.NewBadRequestError(msgValidationFailed, true, nil, nil, nil)
		}
		return errs.NewBadRequestError(msgValidationFailed, true, nil, fieldErrors, nil)
	}

	return nil
}

func bindError(err error) *errs.HTTPError {
	var echoErr *echo.HTTPError
	if !errors.As(err, &echoErr) {
		return errs.NewBadRequestError(msgMalformedBody, true, nil, nil, nil)
	}

	var fieldErrors []errs.FieldError
	var bindErr *echo.BindingError
	if errors.As(err, &bindErr) {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: bindErr.Field,
			Error: "has an invalid value",
		})
	}
	return errs.NewBadRequestError(msgMalformedBody, true, nil, fieldErrors, nil)
}

func extractValidationErrors(err error) []errs.FieldError {
	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		fieldErrors := make([]errs.FieldError, 0, len(custom))
		for _, e := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fe.Field(),
			Error: fieldMessage(fe),
		})
	}
	return fieldErrors
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
