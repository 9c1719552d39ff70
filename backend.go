package gitprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	osexec "os/exec"
	"regexp"

	platformerrors "github.com/jmgilman/gitprocess/errors"
	"github.com/jmgilman/gitprocess/exec"
)

// invocation is a single git call after options have been resolved.
type invocation struct {
	args []string
	dir  string
	opts options
	env  *environment

	// cause is the error a backend reported alongside a failed exit.
	cause error
}

// backend runs a resolved invocation.
//
// A nil error with a non-zero exit code is a failed git run awaiting
// classification; the backend records what it observed in inv.cause. A
// non-nil error is an outcome that is not classified
// (cancellation, start failure, terminated output).
type backend interface {
	name() string
	run(ctx context.Context, inv *invocation) (*Result, error)
}

// localBackend spawns git as a child process.
type localBackend struct {
	newExecutor func() exec.Executor
}

func (b localBackend) name() string {
	return "local"
}

func (b localBackend) run(ctx context.Context, inv *invocation) (*Result, error) {
	var cmd exec.Executor = exec.NewWrapper(b.newExecutor(), inv.env.path)
	cmd = cmd.WithContext(ctx).
		WithEnv(inv.env.vars).
		WithMaxBuffer(inv.opts.maxBuffer)
	if inv.dir != "" {
		cmd = cmd.WithDir(inv.dir)
	}
	if inv.opts.stdin != nil {
		cmd = cmd.WithStdin(bytes.NewReader(inv.opts.stdin))
	}
	if inv.opts.terminateOnOverflow {
		cmd = cmd.WithTerminateOnOverflow()
	}

	res, err := cmd.Run(inv.args...)
	result := fromExecResult(res)
	if err == nil {
		return result, nil
	}

	var execErr *exec.ExecError
	if !errors.As(err, &execErr) {
		return result, platformerrors.Wrap(err, platformerrors.CodeInternal, "git execution failed")
	}

	switch {
	case errors.Is(err, exec.ErrOutputLimitExceeded):
		return result, newGitError(KindMaxBufferExceeded, inv, result, err,
			fmt.Sprintf("git output exceeded the buffer size of %d bytes", inv.opts.maxBuffer))
	case ctx.Err() != nil:
		cause := err
		if !errors.Is(err, ctx.Err()) {
			cause = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		return result, canceledError(inv, result, cause)
	case !execErr.Started():
		return nil, b.startFailure(inv, err)
	}

	inv.cause = err
	return result, nil
}

// startFailure explains why git could not be started. A missing working
// directory and a missing executable both surface as ENOENT.
func (b localBackend) startFailure(inv *invocation, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, osexec.ErrNotFound) {
		if inv.dir != "" {
			if _, statErr := os.Stat(inv.dir); errors.Is(statErr, fs.ErrNotExist) {
				return newGitError(KindRepositoryDoesNotExist, inv, nil, err,
					"Unable to find path to repository on disk.")
			}
		}
		return newGitError(KindGitNotFound, inv, nil, err,
			fmt.Sprintf("Git could not be found at the expected path: '%s'", inv.env.path))
	}
	return platformerrors.WrapWithContext(err, platformerrors.CodeExecutionFailed, "failed to start git",
		map[string]interface{}{"path": inv.env.path, "dir": inv.dir})
}

func fromExecResult(res *exec.Result) *Result {
	if res == nil {
		return nil
	}
	return &Result{
		ExitCode:       res.ExitCode,
		Stdout:         res.Stdout,
		Stderr:         res.Stderr,
		StdoutOverflow: res.StdoutTruncated,
		StderrOverflow: res.StderrTruncated,
	}
}

// externalBackend hands the invocation to a caller-supplied ExecFunc.
type externalBackend struct {
	fn ExecFunc
}

func (b externalBackend) name() string {
	return "external"
}

func (b externalBackend) run(ctx context.Context, inv *invocation) (*Result, error) {
	opts := ExecOptions{
		Dir:   inv.dir,
		Env:   maps.Clone(inv.env.vars),
		Stdin: inv.opts.stdin,
	}
	stdout, stderr, err := b.fn(ctx, inv.env.path, append([]string(nil), inv.args...), opts)

	result := &Result{Stdout: stdout, Stderr: stderr}
	if err == nil {
		return result, nil
	}

	result.ExitCode = exitCodeOf(err, stderr)
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return result, canceledError(inv, result, err)
	}
	inv.cause = err
	return result, nil
}

// fatalLine matches the prefix git's die() writes before exiting 128.
var fatalLine = regexp.MustCompile(`(?m)^fatal: `)

// exitCodeOf extracts the exit code reported by an ExecFunc error. Without
// one, a fatal: line in stderr implies 128.
func exitCodeOf(err error, stderr string) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code > 0 {
			return code
		}
	}
	var status interface{ ExitStatus() int }
	if errors.As(err, &status) {
		if code := status.ExitStatus(); code > 0 {
			return code
		}
	}
	if fatalLine.MatchString(stderr) {
		return exitFatal
	}
	return DefaultFailureExitCode
}
