// Package errors defines the coded errors shared by the engine, the CLI and
// the HTTP API.
//
// Every failure the engine reports carries a [Code]. Callers branch on the
// code rather than on message text:
//
//	err := errors.New(errors.ErrCodeInvalidRecord, "weight %g is negative", w)
//	if errors.Is(err, errors.ErrCodeInvalidRecord) {
//	    ...
//	}
//
// Wrapping keeps the cause and adds a prefix that shows up in
// [UserMessage], so nested failures read like "record 3: stage 2: name
// contains control characters".
//
// Codes are grouped by prefix: INVALID_* for rejected input, *NOT_FOUND for
// missing resources, NETWORK_ERROR and TIMEOUT for backends, and INTERNAL_*
// for bugs.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidRecord Code = "INVALID_RECORD"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal            Code = "INTERNAL_ERROR"
	ErrCodeInternalConsistency Code = "INTERNAL_CONSISTENCY"
	ErrCodeUnsupported         Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with the given code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with the given code whose cause is err.
func Wrap(code Code, err error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = err
	return e
}

// Annotate wraps err with a message and the code err already carries, or
// INTERNAL_ERROR when it carries none. Annotate(nil, ...) is nil.
func Annotate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	return Wrap(code, err, format, args...)
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err for people: the messages of every *Error in the
// chain joined by ": ", followed by the first non-coded cause. Codes are
// left out.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var parts []string
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			parts = append(parts, err.Error())
			break
		}
		if e.Message != "" {
			parts = append(parts, e.Message)
		}
		err = e.Cause
	}
	return strings.Join(parts, ": ")
}

// IsClientError reports whether err was caused by bad input rather than by
// the system. The HTTP API maps these to 4xx responses.
func IsClientError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidRecord, ErrCodeInvalidFormat, ErrCodeInvalidConfig:
		return true
	}
	return false
}
