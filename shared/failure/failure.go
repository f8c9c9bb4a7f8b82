package failure

import (
	"errors"
	"net/http"
)

// Failure carries an HTTP status code alongside the message returned to the caller.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// BadRequest wraps err as a 400. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

// InternalError wraps err as a 500. A nil err stays nil.
func InternalError(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusInternalServerError, err.Error())
}

func NotFound(entityName string) error {
	return newFailure(http.StatusNotFound, entityName)
}

// Conflict is returned when a write would break a uniqueness or capacity rule.
func Conflict(message string) error {
	return newFailure(http.StatusConflict, message)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

func Unavailable(msg string) error {
	return newFailure(http.StatusServiceUnavailable, msg)
}

// GetCode returns the status carried by err, 500 for anything that is not a Failure.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
