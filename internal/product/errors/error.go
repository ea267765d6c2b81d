// Package errors provides the error taxonomy for product-related operations.
// Every failure that reaches a client is classified into exactly one Kind.
package errors

import (
	"errors"
	"net/http"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrDuplicateProductID = errors.New("product id already exists")
)

// Kind is the closed set of failure classes a request can end in.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindAuth
)

// String returns the name of the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	default:
		return "internal"
	}
}

const internalMessage = "Internal Server Error"

// AppError is a classified failure carrying the client-facing message.
// Err holds the underlying cause and is never rendered to the client.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// NotFound reports a referenced record that does not exist.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Validation reports a request payload that fails a field-shape check.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Unauthorized reports a missing or incorrect credential.
func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message}
}

// Internal wraps an unexpected fault. The message defaults to
// "Internal Server Error" when empty.
func Internal(message string, err error) *AppError {
	if message == "" {
		message = internalMessage
	}
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// Classify maps any error onto the taxonomy. Errors that are not already
// classified become Internal with a generic message so their detail does not
// leak to the client.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Message == "" {
			return &AppError{Kind: appErr.Kind, Message: internalMessage, Err: appErr.Err}
		}
		return appErr
	}
	if errors.Is(err, ErrProductNotFound) {
		return &AppError{Kind: KindNotFound, Message: "Product not found", Err: err}
	}
	return Internal("", err)
}
