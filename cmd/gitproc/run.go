package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmgilman/gitprocess"
	platformerrors "github.com/jmgilman/gitprocess/errors"
	"github.com/jmgilman/gitprocess/sshexec"
)

type runFlags struct {
	dir        string
	env        []string
	maxBuffer  int
	terminate  bool
	stdin      bool
	configPath string
	json       bool
	verbose    bool
	ssh        sshConfig
}

// runReport is the --json output of gitproc run.
type runReport struct {
	ExitCode       int                           `json:"exit_code"`
	Stdout         string                        `json:"stdout"`
	Stderr         string                        `json:"stderr"`
	StdoutOverflow bool                          `json:"stdout_overflow,omitempty"`
	StderrOverflow bool                          `json:"stderr_overflow,omitempty"`
	Kind           string                        `json:"kind,omitempty"`
	Error          *platformerrors.ErrorResponse `json:"error,omitempty"`
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [flags] -- <git arguments>",
		Short: "Run git and report classified failures",
		Long: `Run git with the given arguments, echo its output and, when it fails,
report the classified error kind. The exit code is git's own exit code,
1 when none is known and 130 when interrupted.`,
		Example: `  gitproc run --dir ./repo -- status --short
  gitproc run --json -- clone -- https://example.com/missing.git .
  gitproc run --ssh-host build-host --ssh-key ~/.ssh/id_ed25519 \
      --env LOCAL_GIT_DIRECTORY=/usr --env GIT_EXEC_PATH=/usr/lib/git-core -- --version`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.dir, "dir", "C", "", "Working directory for git")
	flags.StringArrayVarP(&f.env, "env", "e", nil, "Environment override as KEY=VALUE (repeatable)")
	flags.IntVar(&f.maxBuffer, "max-buffer", gitprocess.DefaultMaxBuffer, "Maximum bytes kept per output stream")
	flags.BoolVar(&f.terminate, "terminate-on-overflow", false, "Kill git when output exceeds --max-buffer")
	flags.BoolVar(&f.stdin, "stdin", false, "Forward standard input to git")
	flags.StringVar(&f.configPath, "config", "", "Path to a YAML configuration file")
	flags.BoolVar(&f.json, "json", false, "Print a JSON report instead of raw output")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Log invocation details to stderr")
	flags.StringVar(&f.ssh.Host, "ssh-host", "", "Run git on this host over SSH")
	flags.StringVar(&f.ssh.User, "ssh-user", "", "SSH user (defaults to the current user)")
	flags.StringVar(&f.ssh.Key, "ssh-key", "", "Private key file for SSH authentication")
	flags.StringVar(&f.ssh.KnownHosts, "ssh-known-hosts", "", "known_hosts file (defaults to ~/.ssh/known_hosts)")
	return cmd
}

func runGit(cmd *cobra.Command, f *runFlags, args []string) error {
	opts, closeFn, err := f.options(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := gitprocess.Exec(cmd.Context(), args, f.dir, opts...)

	if f.json {
		if reportErr := writeReport(cmd.OutOrStdout(), result, err); reportErr != nil {
			return reportErr
		}
	} else {
		echoResult(cmd, result, err)
	}

	if err == nil {
		return nil
	}
	return &exitError{code: exitCodeFor(result, err), err: err}
}

// options merges the configuration file with flags. Flags win.
func (f *runFlags) options(cmd *cobra.Command) ([]gitprocess.Option, func(), error) {
	noop := func() {}

	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return nil, noop, err
	}
	opts := cfg.options()

	env, err := parseEnv(f.env)
	if err != nil {
		return nil, noop, err
	}
	if len(env) > 0 {
		opts = append(opts, gitprocess.WithEnv(env))
	}
	if cmd.Flags().Changed("max-buffer") {
		opts = append(opts, gitprocess.WithMaxBuffer(f.maxBuffer))
	}
	if f.terminate {
		opts = append(opts, gitprocess.WithTerminateOnOverflow())
	}

	var logger *slog.Logger
	if f.verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, gitprocess.WithLogger(logger))
	}

	if f.stdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, noop, fmt.Errorf("read stdin: %w", err)
		}
		opts = append(opts, gitprocess.WithStdin(data))
	}

	remote := mergeSSH(cfg.SSH, f.ssh)
	if remote.Host == "" {
		return opts, noop, nil
	}
	client, err := dialSSH(remote)
	if err != nil {
		return nil, noop, err
	}
	var execOpts []sshexec.Option
	if logger != nil {
		execOpts = append(execOpts, sshexec.WithLogger(logger))
	}
	if cfg.MaxBuffer > 0 {
		execOpts = append(execOpts, sshexec.WithMaxOutput(cfg.MaxBuffer))
	}
	if cmd.Flags().Changed("max-buffer") {
		execOpts = append(execOpts, sshexec.WithMaxOutput(f.maxBuffer))
	}
	opts = append(opts, gitprocess.WithExecFunc(sshexec.New(client, execOpts...)))
	return opts, func() { _ = client.Close() }, nil
}

func mergeSSH(base, override sshConfig) sshConfig {
	if override.Host != "" {
		base.Host = override.Host
	}
	if override.User != "" {
		base.User = override.User
	}
	if override.Key != "" {
		base.Key = override.Key
	}
	if override.KnownHosts != "" {
		base.KnownHosts = override.KnownHosts
	}
	return base
}

func echoResult(cmd *cobra.Command, result *gitprocess.Result, err error) {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if result != nil {
		fmt.Fprint(out, result.Stdout)
		fmt.Fprint(errOut, result.Stderr)
		if result.Overflowed() {
			fmt.Fprintf(errOut, "%s output truncated (stdout: %t, stderr: %t)\n",
				yellow("warning:"), result.StdoutOverflow, result.StderrOverflow)
		}
	}
	if err == nil {
		return
	}

	label := string(gitprocess.KindOf(err))
	if label == "" {
		label = string(platformerrors.GetCode(err))
	}
	fmt.Fprintf(errOut, "%s %s %s\n", red("gitproc:"), bold(label), dim(err.Error()))
}

func writeReport(w io.Writer, result *gitprocess.Result, err error) error {
	report := runReport{Error: platformerrors.ToJSON(err), Kind: string(gitprocess.KindOf(err))}
	if result != nil {
		report.ExitCode = result.ExitCode
		report.Stdout = result.Stdout
		report.Stderr = result.Stderr
		report.StdoutOverflow = result.StdoutOverflow
		report.StderrOverflow = result.StderrOverflow
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(report); encErr != nil {
		return fmt.Errorf("write report: %w", encErr)
	}
	return nil
}

func exitCodeFor(result *gitprocess.Result, err error) int {
	if gitprocess.IsCanceled(err) {
		return exitCanceled
	}
	if result != nil && result.ExitCode > 0 {
		return result.ExitCode
	}
	return exitFailure
}
