package errors

import "errors"

// WithContext returns a copy of err with key set in its context.
// Existing fields are preserved.
//
// Errors that are not PlatformErrors are converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "dir", repoPath)
func WithContext(err error, key string, value interface{}) PlatformError {
	return WithContextMap(err, map[string]interface{}{key: value})
}

// WithContextMap returns a copy of err with all fields of ctx merged into its
// context. Fields in ctx replace existing fields with the same key.
//
// Errors that are not PlatformErrors are converted to one with CodeUnknown.
// Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	base := asPlatformError(err)
	cause := base.Unwrap()
	if _, ok := base.(*platformError); !ok {
		// Keep foreign implementations (such as classified git errors) reachable.
		cause = err
	}
	merged := base.Context()
	if merged == nil {
		merged = make(map[string]interface{}, len(ctx))
	}
	for k, v := range ctx {
		merged[k] = v
	}

	return &platformError{
		code:           base.Code(),
		classification: base.Classification(),
		message:        base.Message(),
		context:        merged,
		cause:          cause,
	}
}

func asPlatformError(err error) PlatformError {
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		return platformErr
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
