package gitprocess

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	platformerrors "github.com/jmgilman/gitprocess/errors"
)

// DefaultFailureExitCode is the exit code assumed when an ExecFunc reports a
// failure without one and stderr holds no fatal: line.
const DefaultFailureExitCode = 1

// ErrExecPathNotConfigured is returned when an ExecFunc is configured but the
// location of the git installation is not.
var ErrExecPathNotConfigured = platformerrors.New(
	platformerrors.CodeInvalidConfig,
	"LOCAL_GIT_DIRECTORY and GIT_EXEC_PATH must be specified when using an exec function.",
)

// GitError is a failed git invocation. It carries the kind the classifier
// assigned and, when git ran, the raw result.
//
// GitError implements errors.PlatformError, so codes and retry
// classification are available through the errors package helpers.
type GitError struct {
	// Kind is the classified failure.
	Kind ErrorKind

	// Args are the git arguments of the failed invocation.
	Args []string

	// Dir is the working directory of the failed invocation.
	Dir string

	// Result is the raw outcome. It is nil when git never ran.
	Result *Result

	// Err is the underlying cause, if any.
	Err error

	message string
}

func newGitError(kind ErrorKind, inv *invocation, result *Result, err error, message string) *GitError {
	return &GitError{
		Kind:    kind,
		Args:    inv.args,
		Dir:     inv.dir,
		Result:  result,
		Err:     err,
		message: message,
	}
}

// Error formats as "[CODE] message: detail" where detail is the last line of
// stderr or the underlying cause.
func (e *GitError) Error() string {
	detail := ""
	if e.Result != nil {
		detail = lastLine(e.Result.Stderr)
	}
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	if detail == "" {
		return fmt.Sprintf("[%s] %s", e.Code(), e.Message())
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code(), e.Message(), detail)
}

// Code returns the code of the kind. An unclassified failure whose cause
// carries a code (a transport error from an ExecFunc) reports that code.
func (e *GitError) Code() platformerrors.ErrorCode {
	if cause := e.platformCause(); cause != nil {
		return cause.Code()
	}
	return e.Kind.Code()
}

func (e *GitError) Classification() platformerrors.ErrorClassification {
	if cause := e.platformCause(); cause != nil {
		return cause.Classification()
	}
	return platformerrors.DefaultClassification(e.Code())
}

func (e *GitError) platformCause() platformerrors.PlatformError {
	if e.Kind != KindUnclassified || e.Err == nil {
		return nil
	}
	var cause platformerrors.PlatformError
	if stderrors.As(e.Err, &cause) {
		return cause
	}
	return nil
}

func (e *GitError) Message() string {
	if e.message != "" {
		return e.message
	}
	if e.Result != nil {
		return fmt.Sprintf("git %s failed with exit code %d (%s)", subcommand(e.Args), e.Result.ExitCode, e.Kind)
	}
	return fmt.Sprintf("git %s failed (%s)", subcommand(e.Args), e.Kind)
}

func (e *GitError) Context() map[string]interface{} {
	ctx := map[string]interface{}{
		"kind": string(e.Kind),
		"args": append([]string(nil), e.Args...),
		"dir":  e.Dir,
	}
	if e.Result != nil {
		ctx["exit_code"] = e.Result.ExitCode
	}
	return ctx
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first GitError in err's chain, or "" if
// there is none.
func KindOf(err error) ErrorKind {
	var gitErr *GitError
	if stderrors.As(err, &gitErr) {
		return gitErr.Kind
	}
	return ""
}

// IsCanceled reports whether err is the outcome of a canceled or timed out
// invocation.
func IsCanceled(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

func canceledError(inv *invocation, result *Result, cause error) error {
	code := platformerrors.CodeCanceled
	msg := "git invocation canceled"
	if stderrors.Is(cause, context.DeadlineExceeded) {
		code = platformerrors.CodeTimeout
		msg = "git invocation timed out"
	}
	ctx := map[string]interface{}{
		"args": append([]string(nil), inv.args...),
		"dir":  inv.dir,
	}
	if result != nil {
		ctx["exit_code"] = result.ExitCode
	}
	return platformerrors.WrapWithContext(cause, code, msg, ctx)
}

// globalOptionsWithValue are git options placed before the subcommand whose
// value is the next argument.
var globalOptionsWithValue = map[string]bool{
	"-c":            true,
	"-C":            true,
	"--git-dir":     true,
	"--work-tree":   true,
	"--namespace":   true,
	"--attr-source": true,
}

func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if globalOptionsWithValue[arg] {
			i++
			continue
		}
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
