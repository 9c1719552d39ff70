package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"sort"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the process is
// killed. Grandchildren (credential helpers, ssh) may keep them open.
const waitDelay = 5 * time.Second

// Command is the concrete implementation of the Executor interface.
type Command struct {
	config   *config
	localCtx context.Context
	stdin    io.Reader
}

// New creates a new Command with the given options.
// Options set global defaults that can be overridden by local settings.
func New(opts ...Option) *Command {
	cmd := &Command{
		config: newConfig(),
	}

	for _, opt := range opts {
		opt(cmd)
	}

	return cmd
}

// WithEnv sets environment variables for the next run.
func (c *Command) WithEnv(env map[string]string) Executor {
	for k, v := range env {
		c.config.localEnv[k] = v
	}
	return c
}

// WithDir sets the working directory for the next run.
func (c *Command) WithDir(dir string) Executor {
	c.config.localDir = dir
	return c
}

// WithContext sets the context for the next run.
func (c *Command) WithContext(ctx context.Context) Executor {
	c.localCtx = ctx
	return c
}

// WithInheritEnv enables environment inheritance for the next run.
func (c *Command) WithInheritEnv() Executor {
	val := true
	c.config.localInheritEnv = &val
	return c
}

// WithStdin sets the standard input for the next run.
func (c *Command) WithStdin(r io.Reader) Executor {
	c.stdin = r
	return c
}

// WithMaxBuffer sets the per-stream buffer cap for the next run.
func (c *Command) WithMaxBuffer(n int) Executor {
	c.config.localMaxBuffer = &n
	return c
}

// WithTerminateOnOverflow kills the next run's process when its output
// exceeds the buffer cap.
func (c *Command) WithTerminateOnOverflow() Executor {
	val := true
	c.config.localTerminateOnOverflow = &val
	return c
}

// Run executes the command with the given arguments.
//
// A non-nil Result is returned whenever the process was started, including
// when it exits non-zero or is killed. Output beyond the buffer cap is
// dropped and flagged on the Result.
func (c *Command) Run(args ...string) (*Result, error) {
	defer c.resetLocal()

	if len(args) == 0 {
		return nil, &ExecError{
			Command:  args,
			ExitCode: -1,
			Err:      osexec.ErrNotFound,
		}
	}

	parent := context.Background()
	if c.localCtx != nil {
		parent = c.localCtx
	}
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)
	cmd.WaitDelay = waitDelay

	if dir := c.config.localDir; dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = c.environ()
	if c.stdin != nil {
		cmd.Stdin = c.stdin
	}

	onOverflow := func() {}
	if c.config.effectiveTerminateOnOverflow() {
		onOverflow = func() { cancel(ErrOutputLimitExceeded) }
	}
	limit := c.config.effectiveMaxBuffer()
	stdout := newBoundedBuffer(limit, onOverflow)
	stderr := newBoundedBuffer(limit, onOverflow)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()

	result := &Result{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		ExitCode:        cmd.ProcessState.ExitCode(),
		StdoutTruncated: stdout.Overflowed(),
		StderrTruncated: stderr.Overflowed(),
	}

	if err == nil {
		return result, nil
	}

	if cause := context.Cause(ctx); cause != nil && cause != err {
		err = fmt.Errorf("%w: %w", cause, err)
	}
	execErr := &ExecError{
		Command:  args,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
		Err:      err,
	}
	if !execErr.Started() {
		return nil, execErr
	}
	return result, execErr
}

// environ builds the child environment. Without inheritance the child sees
// only the configured variables.
func (c *Command) environ() []string {
	env := make([]string, 0)
	if c.config.effectiveInheritEnv() {
		env = append(env, os.Environ()...)
	}

	vars := c.config.localEnv
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env
}

func (c *Command) resetLocal() {
	c.config.resetLocal()
	c.localCtx = nil
	c.stdin = nil
}

// Clone creates a copy of the executor with the same global configuration.
func (c *Command) Clone() Executor {
	return &Command{
		config: c.config.clone(),
	}
}
