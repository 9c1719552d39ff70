package sshexec

import (
	"io"

	"golang.org/x/crypto/ssh"
)

// Session is a single remote command execution.
type Session interface {
	// Run executes cmd remotely and waits for it to exit.
	Run(cmd string, stdin io.Reader, stdout, stderr io.Writer) error

	// Signal delivers sig to the remote process.
	Signal(sig ssh.Signal) error

	// Close releases the session.
	Close() error
}

// SessionFactory opens sessions. *ssh.Client is adapted through Client.
type SessionFactory interface {
	NewSession() (Session, error)
}

// Client adapts an *ssh.Client to SessionFactory.
type Client struct {
	client *ssh.Client
}

// NewClient wraps client.
func NewClient(client *ssh.Client) *Client {
	return &Client{client: client}
}

// NewSession opens a session on the underlying connection.
func (c *Client) NewSession() (Session, error) {
	s, err := c.client.NewSession()
	if err != nil {
		//nolint:wrapcheck // wrapped by the caller with the command context
		return nil, err
	}
	return &sshSession{session: s}, nil
}

type sshSession struct {
	session *ssh.Session
}

func (s *sshSession) Run(cmd string, stdin io.Reader, stdout, stderr io.Writer) error {
	s.session.Stdin = stdin
	s.session.Stdout = stdout
	s.session.Stderr = stderr
	//nolint:wrapcheck // *ssh.ExitError must reach the caller unwrapped
	return s.session.Run(cmd)
}

func (s *sshSession) Signal(sig ssh.Signal) error {
	//nolint:wrapcheck // best effort, result is ignored
	return s.session.Signal(sig)
}

func (s *sshSession) Close() error {
	//nolint:wrapcheck // best effort, result is ignored
	return s.session.Close()
}
