package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure into the closed taxonomy surfaced to clients.
type Kind int

const (
	KindUnclassified Kind = iota
	KindValidation
	KindAuthorizationDenied
	KindRefreshTokenInvalid
	KindTokenUserNotFound
	KindLoginUserNotFound
	KindPasswordIncorrect
	KindUnauthenticated
)

// Fixed client-facing messages. The unclassified message is deliberately
// generic; the underlying error stays in server logs only.
const (
	ValidationMessage   = "request data is invalid, see the validErrors field"
	UnclassifiedMessage = "internal server error"
)

// String names the kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorizationDenied:
		return "authorization_denied"
	case KindRefreshTokenInvalid:
		return "refresh_token_invalid"
	case KindTokenUserNotFound:
		return "token_user_not_found"
	case KindLoginUserNotFound:
		return "login_user_not_found"
	case KindPasswordIncorrect:
		return "password_incorrect"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "unclassified"
	}
}

// ErrorCode returns the stable taxonomy code for the kind.
func (k Kind) ErrorCode() int {
	switch k {
	case KindValidation:
		return 200
	case KindAuthorizationDenied:
		return 300
	case KindRefreshTokenInvalid:
		return 301
	case KindTokenUserNotFound:
		return 302
	case KindLoginUserNotFound:
		return 303
	case KindPasswordIncorrect:
		return 304
	case KindUnauthenticated:
		return 305
	default:
		return 100
	}
}

// HTTPStatus returns the HTTP status paired with the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAuthorizationDenied, KindRefreshTokenInvalid, KindTokenUserNotFound,
		KindLoginUserNotFound, KindPasswordIncorrect, KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FieldViolation is one request-validation failure for a single field.
type FieldViolation struct {
	Field   string
	Message string
}

// AuthError standardizes application errors across the service.
type AuthError struct {
	Kind       Kind
	Message    string
	Violations []FieldViolation
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewValidationError reports field violations, preserving the reported order.
func NewValidationError(violations []FieldViolation) error {
	return &AuthError{Kind: KindValidation, Message: ValidationMessage, Violations: violations}
}

func NewAuthorizationDenied(message string) error {
	return &AuthError{Kind: KindAuthorizationDenied, Message: message}
}

func NewRefreshTokenInvalid(message string) error {
	return &AuthError{Kind: KindRefreshTokenInvalid, Message: message}
}

func NewTokenUserNotFound(message string) error {
	return &AuthError{Kind: KindTokenUserNotFound, Message: message}
}

func NewLoginUserNotFound(message string) error {
	return &AuthError{Kind: KindLoginUserNotFound, Message: message}
}

func NewPasswordIncorrect(message string) error {
	return &AuthError{Kind: KindPasswordIncorrect, Message: message}
}

func NewUnauthenticated(message string) error {
	return &AuthError{Kind: KindUnauthenticated, Message: message}
}

func NewInternalError(err error) error {
	return &AuthError{Kind: KindUnclassified, Message: UnclassifiedMessage, Err: err}
}

// ToAuthError converts generic errors to AuthError, collapsing anything
// outside the named kinds into the unclassified fallback.
func ToAuthError(err error) *AuthError {
	if err == nil {
		return nil
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return &AuthError{Kind: KindUnclassified, Message: UnclassifiedMessage, Err: err}
}
