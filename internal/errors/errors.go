package errors

import (
	"errors"
	"fmt"
)

// Exit codes for forage-dev
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitUserError       = 2
	ExitSystemError     = 3
	ExitNetworkError    = 4
	ExitParseError      = 5
	ExitIOError         = 6
	ExitNotFound        = 7
	ExitConfigError     = 8
	ExitCredentialError = 9
)

// Error is the base error type for forage-dev
type Error struct {
	Code    int
	Message string
	Hint    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *Error) ExitCode() int {
	return e.Code
}

// New creates a new Error
func New(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an Error
func Wrap(code int, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithHint returns a copy of the error carrying a remediation hint.
func (e *Error) WithHint(hint string) *Error {
	c := *e
	c.Hint = hint
	return &c
}

// Common error constructors

// User returns an error for invalid or missing user input
func User(message, hint string) *Error {
	return &Error{Code: ExitUserError, Message: message, Hint: hint}
}

// System returns an error for an external tool which exited abnormally
func System(message, hint string) *Error {
	return &Error{Code: ExitSystemError, Message: message, Hint: hint}
}

// SystemWrap returns an error for an external tool which could not be launched
func SystemWrap(message string, cause error) *Error {
	return Wrap(ExitSystemError, message, cause)
}

// Network returns an error for an unreachable online service
func Network(message string, cause error) *Error {
	return Wrap(ExitNetworkError, message, cause)
}

// Parse returns an error for a malformed payload or document
func Parse(message string, cause error) *Error {
	return Wrap(ExitParseError, message, cause)
}

// IO returns an error for local file access failures
func IO(message string, cause error) *Error {
	return Wrap(ExitIOError, message, cause)
}

// NotFound returns an error for a missing resource
func NotFound(what, id string) *Error {
	return New(ExitNotFound, fmt.Sprintf("%s not found: %s", what, id))
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *Error {
	return Wrap(ExitConfigError, message, cause)
}

// Credential returns an error for credential store operations
func Credential(message string, cause error) *Error {
	return Wrap(ExitCredentialError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *Error {
	return New(ExitUserError, message)
}

// GetExitCode extracts the exit code from an error. A nil error is ExitSuccess.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitGeneralError
}

// GetHint returns the remediation hint of the first Error in err's chain
// which carries one.
func GetHint(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Hint != "" {
			return e.Hint
		}
		err = e.Cause
	}
	return ""
}

// HasCode reports whether err's chain contains an Error with the given code.
func HasCode(err error, code int) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
