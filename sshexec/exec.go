package sshexec

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmgilman/gitprocess"
	platformerrors "github.com/jmgilman/gitprocess/errors"
	"golang.org/x/crypto/ssh"
)

// Option configures the ExecFunc returned by New.
type Option func(*config)

type config struct {
	maxOutput int
	logger    *slog.Logger
}

// WithMaxOutput caps how many bytes of remote stdout and stderr are kept,
// per stream. Defaults to gitprocess.DefaultMaxBuffer.
func WithMaxOutput(n int) Option {
	return func(c *config) {
		c.maxOutput = n
	}
}

// WithLogger sets the logger for session diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns an ExecFunc that runs git through sessions on client.
func New(client *ssh.Client, opts ...Option) gitprocess.ExecFunc {
	return NewWithSessions(NewClient(client), opts...)
}

// NewWithSessions returns an ExecFunc that runs git through sessions opened
// by factory.
//
// When ctx is done before the remote command exits, the remote process is
// sent SIGKILL, the session is closed and ctx.Err() is returned with the
// output collected so far.
func NewWithSessions(factory SessionFactory, opts ...Option) gitprocess.ExecFunc {
	cfg := &config{
		maxOutput: gitprocess.DefaultMaxBuffer,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx context.Context, path string, args []string, opts gitprocess.ExecOptions) (string, string, error) {
		cmd, err := CommandLine(path, args, opts.Dir, opts.Env)
		if err != nil {
			return "", "", platformerrors.Wrap(err, platformerrors.CodeInvalidInput, "failed to build remote command")
		}

		session, err := factory.NewSession()
		if err != nil {
			return "", "", platformerrors.Wrap(err, platformerrors.CodeNetwork, "failed to open ssh session")
		}
		defer func() {
			_ = session.Close()
		}()

		stdout := newCappedBuffer(cfg.maxOutput)
		stderr := newCappedBuffer(cfg.maxOutput)

		done := make(chan error, 1)
		go func() {
			done <- session.Run(cmd, bytes.NewReader(opts.Stdin), stdout, stderr)
		}()

		cfg.logger.DebugContext(ctx, "running remote git", "command", cmd)

		select {
		case err = <-done:
		case <-ctx.Done():
			_ = session.Signal(ssh.SIGKILL)
			_ = session.Close()
			cfg.logger.DebugContext(ctx, "remote git canceled", "command", cmd)
			return stdout.String(), stderr.String(), fmt.Errorf("remote git: %w", ctx.Err())
		}

		if stdout.truncated || stderr.truncated {
			cfg.logger.WarnContext(ctx, "remote git output truncated", "max_output", cfg.maxOutput)
		}
		return stdout.String(), stderr.String(), err
	}
}

// cappedBuffer keeps at most limit bytes and discards the rest. The session
// writes stdout and stderr from separate goroutines while a canceled call
// reads them.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if room := b.limit - b.buf.Len(); b.limit > 0 && len(p) > room {
		b.buf.Write(p[:max(room, 0)])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
