package errors

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError is the error shape returned by the HTTP surface.
type APIError struct {
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *APIError) Unwrap() error {
	return e.Internal
}

func newError(status int, message string, err error) *APIError {
	return &APIError{Status: status, Message: message, Internal: err}
}

func BadRequest(message string, err error) *APIError {
	return newError(http.StatusBadRequest, message, err)
}

func Unauthorized(message string, err error) *APIError {
	return newError(http.StatusUnauthorized, message, err)
}

func Forbidden(message string, err error) *APIError {
	return newError(http.StatusForbidden, message, err)
}

func NotFound(message string, err error) *APIError {
	return newError(http.StatusNotFound, message, err)
}

func Conflict(message string, err error) *APIError {
	return newError(http.StatusConflict, message, err)
}

func UnprocessableEntity(message string, err error) *APIError {
	return newError(http.StatusUnprocessableEntity, message, err)
}

func Internal(err error) *APIError {
	return newError(http.StatusInternalServerError, "Internal server error", err)
}

// NewValidationError turns gin binding/validator errors into a 400 with a
// readable field list.
func NewValidationError(err error) *APIError {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return BadRequest("Invalid input: "+strings.Join(fields, ", "), err)
	}
	return BadRequest("Invalid input", err)
}
