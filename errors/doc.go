// Package errors provides the structured error layer shared by the git
// process engine and its callers.
//
// Every error produced by the engine carries an ErrorCode describing what
// went wrong, an ErrorClassification telling retry layers whether trying
// again can help, and a context map with diagnostic metadata. The package
// stays compatible with the standard library (errors.Is, errors.As,
// errors.Unwrap).
//
// # Creating errors
//
//	err := errors.New(errors.CodeInvalidConfig, "GIT_EXEC_PATH is not set")
//	err := errors.Newf(errors.CodeInvalidInput, "max buffer must be positive, got %d", n)
//
// # Wrapping errors
//
//	if err := ctx.Err(); err != nil {
//	    return errors.Wrap(err, errors.CodeCanceled, "git invocation canceled")
//	}
//
// # Inspecting errors
//
//	switch errors.GetCode(err) {
//	case errors.CodeNotFound:
//	    // missing repository, ref or path
//	case errors.CodeUnauthorized:
//	    // ask for credentials
//	}
//
//	if errors.IsRetryable(err) {
//	    // transient: network drop, held lock file
//	}
//
// # JSON
//
// ToJSON flattens any error into an ErrorResponse for machine-readable
// output. The wrapped chain is omitted.
package errors
