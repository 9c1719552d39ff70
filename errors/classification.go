package errors

// ErrorClassification indicates whether an error should trigger a retry.
// The engine itself never retries; callers layering retries on top use this.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry.
	// Examples: dropped connections, held lock files, deadlines.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry.
	// Examples: missing repositories, rejected credentials, merge conflicts.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

var retryableCodes = map[ErrorCode]bool{
	CodeNetwork:     true,
	CodeTimeout:     true,
	CodeUnavailable: true,
}

// DefaultClassification returns the classification used for errors created with code.
// Codes not known to be transient are permanent.
func DefaultClassification(code ErrorCode) ErrorClassification {
	if retryableCodes[code] {
		return ClassificationRetryable
	}
	return ClassificationPermanent
}
