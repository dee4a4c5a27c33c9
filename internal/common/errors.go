package common

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation           Code = "validation"
	CodeNotFound             Code = "not_found"
	CodeForbidden            Code = "forbidden"
	CodeUnauthorized         Code = "unauthorized"
	CodeConflict             Code = "conflict"
	CodeDuplicateApplication Code = "duplicate_application"
	CodeInvalidAttachment    Code = "invalid_attachment"
	CodeInvalidStatus        Code = "invalid_status"
	CodeConstraintViolation  Code = "constraint_violation"
	CodeRateLimited          Code = "rate_limited"
	CodeInternal             Code = "internal"
)

// Error is the error value returned across service and repository boundaries.
// Fields carries per-input messages for user-facing validation failures.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// NewFieldError builds an error of the given code bound to a single input field.
func NewFieldError(code Code, field, message string) *Error {
	return &Error{Code: code, Message: message, Fields: map[string]string{field: message}}
}

func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
