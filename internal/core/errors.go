// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrAccountBanned = errors.New("account banned")
	ErrRateLimited   = errors.New("rate limited")
)

const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeInternalError = "INTERNAL_SERVER_ERROR"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeTokenInvalid  = "TOKEN_INVALID"
	CodeTokenRevoked  = "TOKEN_REVOKED"
	CodeDuplicate     = "DUPLICATE"
	CodeAccountBanned = "ACCOUNT_BANNED"
	CodeRateLimited   = "RATE_LIMITED"
)

// AppError is the only error shape that reaches a client. Err is logged,
// never serialized.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, CodeBadRequest)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, CodeUnauthorized)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, CodeForbidden)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		CodeNotFound,
	)
}

func RateLimitedError(retryAfterSecs int) *AppError {
	return NewAppError(
		ErrRateLimited,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfterSecs),
		http.StatusTooManyRequests,
		CodeRateLimited,
	)
}

func InternalError(err error) *AppError {
	return NewAppError(
		err,
		"internal server error",
		http.StatusInternalServerError,
		CodeInternalError,
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "token has expired", http.StatusUnauthorized, CodeTokenExpired)
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "invalid token", http.StatusUnauthorized, CodeTokenInvalid)
}

func TokenRevokedError() *AppError {
	return NewAppError(ErrTokenRevoked, "token has been revoked", http.StatusUnauthorized, CodeTokenRevoked)
}

func BannedError() *AppError {
	return NewAppError(
		ErrAccountBanned,
		"account is banned",
		http.StatusForbidden,
		CodeAccountBanned,
	)
}

// DuplicateError maps unique violations to a 400 so that the closed set of
// client-facing statuses stays 400/401/403/404/500.
func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusBadRequest,
		CodeDuplicate,
	)
}

// Translate maps any error produced below the handler layer onto the
// client-facing taxonomy. Unknown errors become 500s with the cause kept
// for logging.
func Translate(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, "resource not found", http.StatusNotFound, CodeNotFound)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(err, "invalid input", http.StatusBadRequest, CodeBadRequest)
	case errors.Is(err, ErrDuplicateKey):
		return NewAppError(err, "resource already exists", http.StatusBadRequest, CodeDuplicate)
	case errors.Is(err, ErrAccountBanned):
		return NewAppError(err, "account is banned", http.StatusForbidden, CodeAccountBanned)
	case errors.Is(err, ErrForbidden):
		return NewAppError(err, "forbidden", http.StatusForbidden, CodeForbidden)
	case errors.Is(err, ErrTokenExpired):
		return NewAppError(err, "token has expired", http.StatusUnauthorized, CodeTokenExpired)
	case errors.Is(err, ErrTokenRevoked):
		return NewAppError(err, "token has been revoked", http.StatusUnauthorized, CodeTokenRevoked)
	case errors.Is(err, ErrTokenInvalid):
		return NewAppError(err, "invalid token", http.StatusUnauthorized, CodeTokenInvalid)
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(err, "authentication required", http.StatusUnauthorized, CodeUnauthorized)
	default:
		return InternalError(err)
	}
}
