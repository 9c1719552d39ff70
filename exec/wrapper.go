package exec

import (
	"context"
	"io"
)

// CommandWrapper wraps an Executor and prepends a fixed program to every Run.
// The git engine uses it to bind the resolved git executable once and pass
// only git arguments afterwards. CommandWrapper implements Executor.
type CommandWrapper struct {
	executor Executor
	cmd      string
}

// NewWrapper creates a CommandWrapper that prepends cmd to all Run() calls.
// The executor can be any Executor implementation, including mocks.
func NewWrapper(executor Executor, cmd string) *CommandWrapper {
	return &CommandWrapper{
		executor: executor,
		cmd:      cmd,
	}
}

func (w *CommandWrapper) WithEnv(env map[string]string) Executor {
	w.executor = w.executor.WithEnv(env)
	return w
}

func (w *CommandWrapper) WithDir(dir string) Executor {
	w.executor = w.executor.WithDir(dir)
	return w
}

func (w *CommandWrapper) WithContext(ctx context.Context) Executor {
	w.executor = w.executor.WithContext(ctx)
	return w
}

func (w *CommandWrapper) WithInheritEnv() Executor {
	w.executor = w.executor.WithInheritEnv()
	return w
}

func (w *CommandWrapper) WithStdin(r io.Reader) Executor {
	w.executor = w.executor.WithStdin(r)
	return w
}

func (w *CommandWrapper) WithMaxBuffer(n int) Executor {
	w.executor = w.executor.WithMaxBuffer(n)
	return w
}

func (w *CommandWrapper) WithTerminateOnOverflow() Executor {
	w.executor = w.executor.WithTerminateOnOverflow()
	return w
}

// Run executes the wrapped program with the given arguments.
func (w *CommandWrapper) Run(args ...string) (*Result, error) {
	fullArgs := make([]string, 0, len(args)+1)
	fullArgs = append(fullArgs, w.cmd)
	fullArgs = append(fullArgs, args...)
	return w.executor.Run(fullArgs...)
}

// Clone creates a copy of the wrapper with the same configuration.
func (w *CommandWrapper) Clone() Executor {
	return &CommandWrapper{
		executor: w.executor.Clone(),
		cmd:      w.cmd,
	}
}
