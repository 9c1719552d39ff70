// Package errors provides structured errors for git invocations.
// It extends Go's standard error handling with error codes, retry classification,
// context preservation, and JSON rendering.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a repository, ref, path or executable does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a branch, tag or remote already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates repository state prevents the operation (merge conflicts,
	// dirty worktree, non-fast-forward pushes).
	CodeConflict ErrorCode = "CONFLICT"

	// Permission errors.

	// CodeUnauthorized indicates authentication against a remote failed.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden indicates the remote or the local filesystem refused the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates git rejected an argument (bad revision, invalid upstream).
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates the invocation was misconfigured and never started.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeNetwork indicates the remote could not be reached or hung up.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an invocation exceeded its deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUnavailable indicates a temporary condition such as a held lock file.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// Execution errors.

	// CodeExecutionFailed indicates git exited non-zero for an unrecognized reason.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeCanceled indicates the caller aborted the invocation.
	CodeCanceled ErrorCode = "CANCELED"

	// CodeOutputLimitExceeded indicates captured output outgrew the configured buffer.
	CodeOutputLimitExceeded ErrorCode = "OUTPUT_LIMIT_EXCEEDED"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
