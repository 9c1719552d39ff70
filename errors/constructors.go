package errors

import "fmt"

// New creates a PlatformError with the given code and message.
// The classification is derived from the code.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidConfig, "GIT_EXEC_PATH is not set")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: DefaultClassification(code),
		message:        message,
	}
}

// Newf creates a PlatformError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}
