package errors

// PlatformError is an error carrying a code, a retry classification and
// metadata describing the failed operation.
//
// Implementations must stay compatible with errors.Is, errors.As and
// errors.Unwrap. Classified git failures implement this interface as well,
// so the helpers in this package work on them unchanged.
type PlatformError interface {
	error

	// Code returns the error code identifying the type of error.
	Code() ErrorCode

	// Classification returns whether the error is retryable or permanent.
	Classification() ErrorClassification

	// Message returns the human-readable error message.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped error, or nil.
	Unwrap() error
}
