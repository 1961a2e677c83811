package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for business-rule failures. Two errors match under errors.Is
// when their codes are equal, so handlers and tests can compare against the
// package sentinels regardless of the message.
const (
	CodeNotFound          = "not_found"
	CodeInsufficientStock = "insufficient_stock"
	CodeOverRelease       = "over_release"
	CodeOverConfirm       = "over_confirm"
	CodeNegativeStock     = "negative_stock"
	CodeValidation        = "validation"
	CodeConflict          = "conflict"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrInsufficientStock = &Error{Code: CodeInsufficientStock, Message: "insufficient stock"}
	ErrOverRelease       = &Error{Code: CodeOverRelease, Message: "release exceeds reserved quantity"}
	ErrOverConfirm       = &Error{Code: CodeOverConfirm, Message: "confirm exceeds reserved quantity"}
	ErrNegativeStock     = &Error{Code: CodeNegativeStock, Message: "adjustment would drive stock negative"}
	ErrValidation        = &Error{Code: CodeValidation, Message: "invalid input"}
	ErrConflict          = &Error{Code: CodeConflict, Message: "conflict"}
)

// Wrap returns a new error carrying base's code with a specific message.
func Wrap(base *Error, format string, args ...interface{}) *Error {
	return &Error{Code: base.Code, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error to the status code the route layer should return.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeInsufficientStock, CodeOverRelease, CodeOverConfirm, CodeNegativeStock, CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
