// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

const (
	KindValidation   = "Validation Error"
	KindUnauthorized = "Unauthorized"
	KindForbidden    = "Forbidden"
	KindNotFound     = "Not Found"
	KindInternal     = "Internal Server Error"
	KindRateLimited  = "Too Many Requests"
)

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// AppError is an error that already knows how it should be rendered to the
// client. Kind is the short machine-facing string in the envelope's error field.
type AppError struct {
	Err        error
	Kind       string
	Message    string
	StatusCode int
	Details    []FieldError
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, kind string) *AppError {
	return &AppError{
		Err:        err,
		Kind:       kind,
		Message:    message,
		StatusCode: status,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func ValidationError(details []FieldError) *AppError {
	return &AppError{
		Err:        ErrInvalidInput,
		Kind:       KindValidation,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

func BadRequestError(kind, message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, kind)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		KindUnauthorized,
	)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(
		ErrForbidden,
		message,
		http.StatusForbidden,
		KindForbidden,
	)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		KindNotFound,
	)
}

// DuplicateError renders a unique-key collision. Conflicts surface as 400 with
// a readable message rather than the store's raw conflict code.
func DuplicateError(kind, message string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		message,
		http.StatusBadRequest,
		kind,
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"Invalid or expired token",
		http.StatusUnauthorized,
		KindUnauthorized,
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"Invalid or expired token",
		http.StatusUnauthorized,
		KindUnauthorized,
	)
}
