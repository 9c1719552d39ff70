// Package main provides the gitproc CLI, a thin command-line front end to
// the gitprocess library.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "dev"

// Exit codes used when git itself did not provide one.
const (
	exitFailure  = 1
	exitCanceled = 130
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.FgHiBlack).SprintFunc()
)

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(stderr, "%s %v\n", red("error:"), err)
	return exitFailure
}

// newRootCmd creates the root command for the gitproc CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitproc",
		Short: "Run git and classify its failures",
		Long: `gitproc runs the git command-line tool, captures its output and reports
failures as typed error kinds instead of free-form stderr text.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
