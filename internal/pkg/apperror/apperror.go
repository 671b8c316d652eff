package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of the HTTP status it is rendered with.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConditionsNotMet
	KindInvalidArgument
	KindPermissionDenied
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConditionsNotMet:
		return "conditions_not_met"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindPermissionDenied:
		return "permission_denied"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Kind    Kind   // Error category used by callers that don't speak HTTP
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
// The kind is derived from the status code.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindFromCode(code),
		Message: message,
	}
}

// NewWithKind creates an AppError whose kind does not follow from its status code,
// e.g. a business rule violation rendered as 403.
func NewWithKind(kind Kind, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindFromCode(code),
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func kindFromCode(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest:
		return KindInvalidArgument
	case http.StatusForbidden, http.StatusUnauthorized:
		return KindPermissionDenied
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}
