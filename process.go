package gitprocess

import (
	"context"
	"time"

	platformerrors "github.com/jmgilman/gitprocess/errors"
	"github.com/jmgilman/gitprocess/exec"
)

// Runner executes git with a set of default options. A Runner holds no
// mutable state and is safe for concurrent use.
type Runner struct {
	defaults    options
	resolver    resolver
	newExecutor func() exec.Executor
}

// New creates a Runner whose options apply to every invocation. Options
// passed to Exec are applied on top; environment overrides are merged.
func New(opts ...Option) *Runner {
	// git runs with the caller's environment plus the resolved variables.
	base := exec.New(exec.WithInheritEnv(), exec.WithMaxBuffer(DefaultMaxBuffer))
	return &Runner{
		defaults: defaultOptions().apply(opts),
		resolver: systemResolver(),
		newExecutor: func() exec.Executor {
			return base.Clone()
		},
	}
}

var defaultRunner = New()

// Exec runs git with args in dir using a Runner with default options.
func Exec(ctx context.Context, args []string, dir string, opts ...Option) (*Result, error) {
	return defaultRunner.Exec(ctx, args, dir, opts...)
}

// Exec runs git with args in dir.
//
// When git exits zero the result is returned with a nil error, even if
// stderr is not empty. When it exits non-zero the result is returned together
// with a *GitError describing the classified failure. Configuration problems
// are reported before anything runs. If ctx is done before git finishes, the
// error satisfies IsCanceled and the result, if any, holds the partial output.
func (r *Runner) Exec(ctx context.Context, args []string, dir string, opts ...Option) (*Result, error) {
	inv := &invocation{
		args: append([]string(nil), args...),
		dir:  dir,
		opts: r.defaults.apply(opts),
	}

	if inv.opts.maxBuffer <= 0 {
		return nil, platformerrors.Newf(platformerrors.CodeInvalidConfig,
			"max buffer must be positive, got %d", inv.opts.maxBuffer)
	}

	b, err := r.backend(inv)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, canceledError(inv, nil, err)
	}

	logger := inv.opts.logger.With("backend", b.name(), "args", inv.args, "dir", inv.dir)
	logger.DebugContext(ctx, "running git", "path", inv.env.path)

	start := time.Now()
	result, err := b.run(ctx, inv)
	elapsed := time.Since(start)

	if result != nil && result.Overflowed() {
		logger.WarnContext(ctx, "git output truncated",
			"max_buffer", inv.opts.maxBuffer,
			"stdout_overflow", result.StdoutOverflow,
			"stderr_overflow", result.StderrOverflow)
	}

	if err != nil {
		logger.DebugContext(ctx, "git did not complete", "duration", elapsed, "error", err)
		return result, err
	}

	logger.DebugContext(ctx, "git finished", "exit_code", result.ExitCode, "duration", elapsed)
	if result.ExitCode == 0 {
		return result, nil
	}

	return result, newGitError(Classify(result.ExitCode, result.Stderr), inv, result, inv.cause, "")
}

// backend resolves the environment and picks the backend for inv. An
// ExecFunc is never replaced by a local spawn.
func (r *Runner) backend(inv *invocation) (backend, error) {
	if inv.opts.execFunc != nil {
		env, err := r.resolver.external(inv.opts.env)
		if err != nil {
			return nil, err
		}
		inv.env = env
		return externalBackend{fn: inv.opts.execFunc}, nil
	}

	env, err := r.resolver.local(inv)
	if err != nil {
		return nil, err
	}
	inv.env = env
	return localBackend{newExecutor: r.newExecutor}, nil
}
