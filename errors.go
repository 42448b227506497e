package docview

import (
	"errors"
	"fmt"
	"time"
)

// Application error codes. These map failure causes to behavior: retryable
// codes are absorbed by the loader's retry loop, permanent codes surface
// immediately.
const (
	EEXHAUSTED   = "exhausted"     // retry budget spent
	EFORBIDDEN   = "forbidden"     // access denied by the source
	EINTERNAL    = "internal"      // unexpected internal error
	EINVALID     = "invalid"       // malformed input or descriptor
	ENOTFOUND    = "not_found"     // resource does not exist
	ERATELIMIT   = "rate_limit"    // source throttled the request
	ETOOLARGE    = "too_large"     // entry exceeds the cache byte ceiling
	EUNAVAILABLE = "unavailable"   // transient network or transport failure
)

// Error represents an application error with a machine-readable code.
type Error struct {
	// Code classifies the error for callers.
	Code string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error

	// RetryAfter is an optional hint from the source (ERATELIMIT only)
	// indicating how long to wait before retrying.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("docview: [%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("docview: [%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf constructs an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapErrorf constructs an Error that records err as its cause.
func WrapErrorf(err error, code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ErrorCode returns the code of the first *Error in err's chain.
// It returns an empty string for nil and EINTERNAL for non-application errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the first *Error in err's chain,
// or a generic message for non-application errors.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// RetryAfterHint returns the retry-after hint carried by err, or zero.
func RetryAfterHint(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}

// IsRetryable reports whether err represents a transient failure that may
// succeed on a subsequent attempt.
func IsRetryable(err error) bool {
	switch ErrorCode(err) {
	case ERATELIMIT, EUNAVAILABLE:
		return true
	}
	return false
}
