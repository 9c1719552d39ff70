package errors

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
// It is a convenience wrapper around the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// It is a convenience wrapper around the standard library errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode extracts the ErrorCode of the outermost PlatformError in err's chain.
// Returns CodeUnknown if err is nil or carries no code.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeNotFound {
//	    // repository, ref or path is missing
//	}
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Code()
	}
	return CodeUnknown
}

// GetClassification extracts the classification of the outermost
// PlatformError in err's chain. Returns ClassificationPermanent when err is
// nil or carries no classification.
func GetClassification(err error) ErrorClassification {
	if err == nil {
		return ClassificationPermanent
	}

	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Classification()
	}
	return ClassificationPermanent
}

// IsRetryable returns true if err is classified as retryable.
//
// Example:
//
//	_, err := gitprocess.Exec(ctx, []string{"fetch", "origin"}, dir)
//	if errors.IsRetryable(err) {
//	    // back off and try again
//	}
func IsRetryable(err error) bool {
	return GetClassification(err).IsRetryable()
}
