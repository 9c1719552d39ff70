package exec

import (
	"errors"
	"fmt"
	osexec "os/exec"
)

// ErrOutputLimitExceeded is the cancellation cause recorded when a process is
// killed because its output exceeded the buffer cap.
var ErrOutputLimitExceeded = errors.New("output exceeded the configured buffer size")

// ExecError represents an error that occurred during command execution.
// It includes the exit code, the command that was run, and any captured output.
type ExecError struct {
	// Command is the full command that was executed (including arguments)
	Command []string

	// ExitCode is the exit code returned by the command, -1 if it never
	// started or was killed.
	ExitCode int

	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Err is the underlying error. When the process was stopped through its
	// context, the cancellation cause is in the chain as well.
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %v failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %v failed with exit code %d", e.Command, e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Started reports whether the process was started. A false result means the
// program or working directory could not be used.
func (e *ExecError) Started() bool {
	var exitErr *osexec.ExitError
	return e.ExitCode >= 0 || errors.As(e.Err, &exitErr)
}
