package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps err with a code and message while preserving it for errors.Is
// and errors.As. When err already is a PlatformError its classification is
// kept; otherwise the code's default classification applies.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err := ctx.Err(); err != nil {
//	    return errors.Wrap(err, errors.CodeCanceled, "git invocation canceled")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	return WrapWithContext(err, code, message, nil)
}

// Wrapf wraps err with a formatted message.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches a copy of ctx in one step.
//
// Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	classification := DefaultClassification(code)
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		classification = platformErr.Classification()
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		context:        copyContext(ctx),
		cause:          err,
	}
}
