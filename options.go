package gitprocess

import (
	"context"
	"log/slog"
	"maps"
)

// DefaultMaxBuffer is the per-stream output cap used when none is configured.
const DefaultMaxBuffer = 10 * 1024 * 1024

// ExecOptions is passed to an ExecFunc alongside the executable path and arguments.
type ExecOptions struct {
	// Dir is the working directory for the invocation.
	Dir string

	// Env holds the git-specific variables and caller overrides. It does not
	// include the local process environment.
	Env map[string]string

	// Stdin is the payload for standard input, or nil.
	Stdin []byte
}

// ExecFunc runs git through a transport other than a local child process,
// for example a remote shell. It must return the complete stdout and stderr.
//
// A nil error means git exited zero. A non-nil error means a failed exit;
// its exit code is read from an ExitCode() int or ExitStatus() int method
// anywhere in the error chain. Without one the code is 128 when stderr holds
// a line starting with "fatal: " and DefaultFailureExitCode otherwise. The
// error is kept as the cause of the resulting GitError; when stderr matches
// no rule and the error carries a platform error code, that code is reported.
type ExecFunc func(ctx context.Context, path string, args []string, opts ExecOptions) (stdout, stderr string, err error)

// Option configures an invocation.
type Option func(*options)

type options struct {
	env                 map[string]string
	maxBuffer           int
	execFunc            ExecFunc
	stdin               []byte
	terminateOnOverflow bool
	logger              *slog.Logger
}

func defaultOptions() options {
	return options{
		env:       map[string]string{},
		maxBuffer: DefaultMaxBuffer,
		logger:    slog.New(slog.DiscardHandler),
	}
}

func (o options) clone() options {
	o.env = maps.Clone(o.env)
	return o
}

func (o options) apply(opts []Option) options {
	out := o.clone()
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

// WithEnv adds environment variable overrides. Repeated calls merge, later
// values winning.
func WithEnv(env map[string]string) Option {
	return func(o *options) {
		for k, v := range env {
			o.env[k] = v
		}
	}
}

// WithMaxBuffer caps how many bytes of stdout and stderr are kept, per stream.
func WithMaxBuffer(n int) Option {
	return func(o *options) {
		o.maxBuffer = n
	}
}

// WithExecFunc runs git through fn instead of spawning it locally.
// LOCAL_GIT_DIRECTORY and GIT_EXEC_PATH must both be set.
func WithExecFunc(fn ExecFunc) Option {
	return func(o *options) {
		o.execFunc = fn
	}
}

// WithStdin feeds data to git's standard input.
func WithStdin(data []byte) Option {
	return func(o *options) {
		o.stdin = data
	}
}

// WithStdinString feeds s to git's standard input.
func WithStdinString(s string) Option {
	return WithStdin([]byte(s))
}

// WithTerminateOnOverflow kills a locally spawned git as soon as either
// stream exceeds the buffer cap. The call then fails with
// KindMaxBufferExceeded. It has no effect on an ExecFunc.
func WithTerminateOnOverflow() Option {
	return func(o *options) {
		o.terminateOnOverflow = true
	}
}

// WithLogger sets the logger used for invocation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
