// Package exec runs local programs and captures their output with a bounded
// buffer.
//
// It wraps the standard library's os/exec. Command implements the Executor
// interface; code that needs to be tested without spawning processes accepts
// an Executor and receives a mock (see the mocks package).
//
// # Basic Usage
//
//	cmd := exec.New()
//	result, err := cmd.Run("git", "--version")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Stdout)
//
// # Configuration
//
// Global configuration is set at creation time, local configuration applies
// to the next Run only and overrides it:
//
//	cmd := exec.New(
//		exec.WithInheritEnv(),
//		exec.WithMaxBuffer(10*1024*1024),
//	)
//
//	result, err := cmd.
//		WithDir("/repo").
//		WithStdin(strings.NewReader(message)).
//		Run("git", "commit", "-F", "-")
//
// Without WithInheritEnv the child only sees the variables passed with
// WithEnv. Clone copies the global configuration into a fresh Command, so one
// configured Command can serve as a template for concurrent runs.
//
// # Bounded Output
//
// Stdout and stderr are collected separately, each capped at the configured
// buffer size. Output past the cap is discarded and reported through
// Result.StdoutTruncated and Result.StderrTruncated; the process keeps running
// unless WithTerminateOnOverflow is set, in which case it is killed and the
// returned error wraps ErrOutputLimitExceeded.
//
// # Command Wrappers
//
//	git := exec.NewWrapper(exec.New(), "/usr/bin/git")
//	result, err := git.WithDir("/repo").Run("status")
//
// # Error Handling
//
// Failures return an *ExecError with the exit code and captured output. When
// the process started, the Result is returned alongside the error:
//
//	result, err := cmd.Run("git", "rev-parse", "HEAD")
//	var execErr *exec.ExecError
//	if errors.As(err, &execErr) {
//		fmt.Println(execErr.ExitCode, execErr.Stderr)
//	}
//
// # Cancellation
//
// The process is killed when the context is done; the error chain then
// contains the context's cancellation cause:
//
//	_, err := cmd.WithContext(ctx).Run("git", "fetch")
//	if errors.Is(err, context.Canceled) {
//		// aborted by the caller
//	}
package exec
