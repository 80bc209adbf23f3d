package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrUpstream           = errors.New("payment gateway unavailable")
)

// Error codes returned to clients
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidSignature   = "INVALID_SIGNATURE"
	CodeConflict           = "CONFLICT"
	CodeUpstream           = "UPSTREAM_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

const internalMessage = "internal server error"

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func InvalidCredentials() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password", ErrInvalidCredentials)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func InvalidSignature() *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidSignature, "payment signature verification failed", ErrInvalidSignature)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrConflict)
}

// Upstream wraps a gateway failure; clients may retry
func Upstream(err error) *AppError {
	return NewAppError(http.StatusBadGateway, CodeUpstream, ErrUpstream.Error(), errors.Join(ErrUpstream, err))
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, internalMessage, err)
}

// Resolve maps any error returned by a usecase onto an AppError.
// Unknown errors become a generic 500 so raw text never reaches the client.
func Resolve(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return BadRequest(ErrInvalidInput.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return InvalidCredentials()
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrTokenExpired):
		return Unauthorized(ErrUnauthorized.Error())
	case errors.Is(err, ErrForbidden):
		return Forbidden(ErrForbidden.Error())
	case errors.Is(err, ErrNotFound):
		return NotFound(ErrNotFound.Error())
	case errors.Is(err, ErrInvalidSignature):
		return InvalidSignature()
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return Conflict(err.Error())
	case errors.Is(err, ErrUpstream):
		return Upstream(err)
	default:
		return InternalError(err)
	}
}
