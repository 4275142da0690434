package errors

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

// AsHTTPError unwraps err to an HTTPError if there is one in its chain.
func AsHTTPError(err error) (HTTPError, bool) {
	var httpErr HTTPError
	ok := errors.As(err, &httpErr)
	return httpErr, ok
}

func (e HTTPError) Error() string {
	return e.Message
}

func BadRequest(msg string) HTTPError {
	return HTTPError{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

func InternalServerError(msg string) HTTPError {
	return HTTPError{
		Code:    http.StatusInternalServerError,
		Message: msg,
	}
}
