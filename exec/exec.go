package exec

import (
	"context"
	"io"
)

//go:generate go run github.com/matryer/moq@latest -out mocks/executor.go -pkg mocks . Executor

// Executor runs a single program and captures its output.
// It provides a fluent API for configuring the next run.
type Executor interface {
	// WithEnv sets environment variables for the command.
	WithEnv(env map[string]string) Executor

	// WithDir sets the working directory for the command.
	WithDir(dir string) Executor

	// WithContext sets the context for the command.
	// The process is killed if the context is done before it exits.
	WithContext(ctx context.Context) Executor

	// WithInheritEnv starts the child environment from the parent process environment.
	WithInheritEnv() Executor

	// WithStdin sets the reader fed to the command's standard input.
	WithStdin(r io.Reader) Executor

	// WithMaxBuffer caps how many bytes of stdout and stderr are kept, per stream.
	// Zero or a negative value disables the cap.
	WithMaxBuffer(n int) Executor

	// WithTerminateOnOverflow kills the process as soon as either stream
	// exceeds the buffer cap instead of draining the remaining output.
	WithTerminateOnOverflow() Executor

	// Run executes the command with the given arguments.
	// The first argument is the program to run.
	Run(args ...string) (*Result, error)

	// Clone creates a copy of the executor with the same global configuration.
	Clone() Executor
}

// Result represents the result of a command execution.
type Result struct {
	// Stdout is the captured standard output, possibly truncated.
	Stdout string

	// Stderr is the captured standard error, possibly truncated.
	Stderr string

	// ExitCode is the exit code returned by the command, or -1 if it did not
	// exit normally.
	ExitCode int

	// StdoutTruncated reports that stdout exceeded the buffer cap.
	StdoutTruncated bool

	// StderrTruncated reports that stderr exceeded the buffer cap.
	StderrTruncated bool
}

// Option is a function that configures a Command with global settings.
// These settings are applied at creation time and can be overridden by local settings.
type Option func(*Command)

// WithInheritEnv returns an Option that globally enables environment inheritance.
func WithInheritEnv() Option {
	return func(c *Command) {
		c.config.globalInheritEnv = true
	}
}

// WithMaxBuffer returns an Option that sets the global per-stream buffer cap.
func WithMaxBuffer(n int) Option {
	return func(c *Command) {
		c.config.globalMaxBuffer = n
	}
}
