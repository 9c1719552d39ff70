// Package gitprocess runs the git command-line tool and turns failures into
// typed errors.
//
// Each call to Exec spawns one git process (or hands the call to an
// ExecFunc), waits for it, and classifies a non-zero exit by matching stderr
// against an ordered rule table:
//
//	result, err := gitprocess.Exec(ctx, []string{"clone", "--", url, "."}, dir)
//	switch {
//	case err == nil:
//	    // success, result.Stdout holds the output
//	case gitprocess.KindOf(err) == gitprocess.KindRepositoryDoesNotExist:
//	    // ...
//	case gitprocess.IsCanceled(err):
//	    // ctx was canceled or timed out
//	default:
//	    // configuration, start or unclassified failure
//	}
//
// Output is kept up to a per-stream cap (WithMaxBuffer). Exceeding it sets
// the overflow flags on the Result; WithTerminateOnOverflow kills git instead.
//
// Errors implement errors.PlatformError from this module, so
// errors.GetCode, errors.IsRetryable and errors.ToJSON work on them.
//
// Setting LOCAL_GIT_DIRECTORY selects a specific git installation. An
// ExecFunc, used to run git over another transport, requires both
// LOCAL_GIT_DIRECTORY and GIT_EXEC_PATH.
package gitprocess
