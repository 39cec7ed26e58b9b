package common

import (
	"errors"
	"net/http"
)

// Canonical error codes returned by the API.
const (
	CodeNotFound               = "NOT_FOUND"
	CodeForbidden              = "FORBIDDEN"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeValidation             = "VALIDATION_ERROR"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodePolicyViolation        = "POLICY_VIOLATION"
	CodeUpstreamFailure        = "UPSTREAM_FAILURE"
	CodeInternal               = "INTERNAL"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// NotFound builds a 404 AppError for a missing resource.
func NotFound(message string) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, nil)
}

// Forbidden builds a 403 AppError.
func Forbidden(message string) *AppError {
	return NewAppError(CodeForbidden, message, http.StatusForbidden, nil)
}

// InvalidState builds a 409 AppError for a rejected state transition.
func InvalidState(message string, details any) *AppError {
	return &AppError{Code: CodeInvalidStateTransition, Message: message, HTTPStatus: http.StatusConflict, Details: details}
}

// PolicyViolation builds a 403 AppError for a loyalty policy breach.
func PolicyViolation(message string) *AppError {
	return NewAppError(CodePolicyViolation, message, http.StatusForbidden, nil)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
