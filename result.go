package gitprocess

// Result is the outcome of a git invocation that ran to completion.
type Result struct {
	// ExitCode is the status git exited with.
	ExitCode int

	// Stdout is the captured standard output, possibly truncated.
	Stdout string

	// Stderr is the captured standard error, possibly truncated.
	Stderr string

	// StdoutOverflow reports that stdout exceeded the buffer cap and was truncated.
	StdoutOverflow bool

	// StderrOverflow reports that stderr exceeded the buffer cap and was truncated.
	StderrOverflow bool
}

// Overflowed reports whether either stream was truncated.
func (r *Result) Overflowed() bool {
	return r.StdoutOverflow || r.StderrOverflow
}
