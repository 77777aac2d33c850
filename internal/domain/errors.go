package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for translation at the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the error type returned by repositories and services.
// Message is safe to show to API callers; Err is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and message, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func Validation(msg string) *Error     { return &Error{Kind: KindValidation, Message: msg} }
func Authentication(msg string) *Error { return &Error{Kind: KindAuthentication, Message: msg} }
func Authorization(msg string) *Error  { return &Error{Kind: KindAuthorization, Message: msg} }
func NotFound(msg string) *Error       { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error       { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps an unexpected failure; callers only ever see "internal server error".
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

var (
	ErrCustomerNotFound   = NotFound("customer not found")
	ErrPropertyNotFound   = NotFound("property not found")
	ErrUserNotFound       = NotFound("user not found")
	ErrDuplicateCustomer  = Conflict("an active customer with this email already exists for this agent")
	ErrCustomerReferenced = Conflict("customer is referenced by a property and cannot be deleted")
	ErrDuplicateUser      = Conflict("username or email already registered")
	ErrInvalidCredentials = Authentication("invalid credentials")
	ErrInvalidToken       = Authentication("invalid or expired token")
	ErrAccountInactive    = Authorization("account is inactive")
	ErrAdminOnly          = Authorization("admin role required")
)

// KindOf reports the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the caller-safe message for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
