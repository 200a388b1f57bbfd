package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain failure. Services return coded errors so transport
// layers can translate them without inspecting message text.
type Code string

const (
	// CodeNotAuthorized signals the caller is not the store admin for a
	// gated operation. Distinct from CodeUnauthorized, which is a transport
	// level authentication failure (missing or invalid token).
	CodeNotAuthorized   Code = "not_authorized"
	CodeAlreadyExists   Code = "already_exists"
	CodeNotFound        Code = "not_found"
	CodeInvalidRating   Code = "invalid_rating"
	CodeAlreadyReviewed Code = "already_reviewed"
	CodeInvalidInput    Code = "invalid_input"
	CodeUnauthorized    Code = "unauthorized"
	CodeInternal        Code = "internal"
)

// Error carries a code and a human-readable message. It is the only error
// shape services are allowed to return to transport.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// HasCode reports whether err is (or wraps) a domain error with the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// unclassified errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps domain codes onto HTTP status codes for the JSON error
// envelope.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotAuthorized:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeAlreadyReviewed:
		return http.StatusConflict
	case CodeInvalidRating, CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
