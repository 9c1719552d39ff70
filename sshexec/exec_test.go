package sshexec

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/jmgilman/gitprocess"
	platformerrors "github.com/jmgilman/gitprocess/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// remoteCall is one exec request received by the test server.
type remoteCall struct {
	Command string
	Stdin   string
}

type handler func(call remoteCall) (stdout, stderr string, status uint32)

// startServer runs an SSH server on loopback that answers exec requests with
// h and returns a client connected to it.
func startServer(t *testing.T, h handler) (*ssh.Client, func() []remoteCall) {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	serverConfig := &ssh.ServerConfig{NoClientAuth: true}
	serverConfig.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	var mu sync.Mutex
	var calls []remoteCall
	record := func(c remoteCall) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, c)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, serverConfig, h, record)
		}
	}()

	client, err := ssh.Dial("tcp", ln.Addr().String(), &ssh.ClientConfig{
		User:            "git",
		HostKeyCallback: ssh.FixedHostKey(signer.PublicKey()),
		Timeout:         5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, func() []remoteCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]remoteCall(nil), calls...)
	}
}

func serveConn(conn net.Conn, cfg *ssh.ServerConfig, h handler, record func(remoteCall)) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "only sessions are supported")
			continue
		}
		ch, chReqs, err := newCh.Accept()
		if err != nil {
			continue
		}
		go serveSession(ch, chReqs, h, record)
	}
}

func serveSession(ch ssh.Channel, reqs <-chan *ssh.Request, h handler, record func(remoteCall)) {
	defer func() { _ = ch.Close() }()

	for req := range reqs {
		if req.Type != "exec" {
			if req.WantReply {
				_ = req.Reply(false, nil)
			}
			continue
		}

		var payload struct{ Command string }
		if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
			_ = req.Reply(false, nil)
			return
		}
		_ = req.Reply(true, nil)

		stdin, _ := io.ReadAll(ch)
		call := remoteCall{Command: payload.Command, Stdin: string(stdin)}
		record(call)

		stdout, stderr, status := h(call)
		_, _ = io.WriteString(ch, stdout)
		_, _ = io.WriteString(ch.Stderr(), stderr)
		_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
		return
	}
}

var remoteEnv = map[string]string{
	gitprocess.EnvLocalGitDirectory: "/opt/git",
	gitprocess.EnvGitExecPath:       "/opt/git/libexec/git-core",
}

func TestExecFunc_Success(t *testing.T) {
	client, calls := startServer(t, func(call remoteCall) (string, string, uint32) {
		return "abc123\n", "", 0
	})

	result, err := gitprocess.Exec(context.Background(), []string{"hash-object", "--stdin"}, "/srv/repo",
		gitprocess.WithEnv(remoteEnv),
		gitprocess.WithStdinString("hello\n"),
		gitprocess.WithExecFunc(New(client)))
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", result.Stdout)

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t,
		"cd '/srv/repo' && env GIT_EXEC_PATH='/opt/git/libexec/git-core' LOCAL_GIT_DIRECTORY='/opt/git' '/opt/git/bin/git' 'hash-object' '--stdin'",
		got[0].Command)
	assert.Equal(t, "hello\n", got[0].Stdin)
}

func TestExecFunc_ClassifiesRemoteFailure(t *testing.T) {
	client, _ := startServer(t, func(call remoteCall) (string, string, uint32) {
		return "", "fatal: repository not found\n", 128
	})

	result, err := gitprocess.Exec(context.Background(), []string{"clone", "--", "git@example.com:missing.git", "."}, "/srv",
		gitprocess.WithEnv(remoteEnv),
		gitprocess.WithExecFunc(New(client)))
	require.Error(t, err)
	assert.Equal(t, 128, result.ExitCode)
	assert.Equal(t, gitprocess.KindRepositoryDoesNotExist, gitprocess.KindOf(err))
}

func TestExecFunc_TruncatesOutput(t *testing.T) {
	client, _ := startServer(t, func(call remoteCall) (string, string, uint32) {
		return "0123456789abcdef", "", 0
	})

	result, err := gitprocess.Exec(context.Background(), []string{"log"}, "",
		gitprocess.WithEnv(remoteEnv),
		gitprocess.WithExecFunc(New(client, WithMaxOutput(8))))
	require.NoError(t, err)
	assert.Equal(t, "01234567", result.Stdout)
}

// fakeSession blocks in Run until it is signaled.
type fakeSession struct {
	signaled chan ssh.Signal
	closed   chan struct{}
	once     sync.Once
}

func (s *fakeSession) Run(cmd string, stdin io.Reader, stdout, stderr io.Writer) error {
	_, _ = io.WriteString(stdout, "partial")
	<-s.closed
	return &ssh.ExitMissingError{}
}

func (s *fakeSession) Signal(sig ssh.Signal) error {
	s.signaled <- sig
	return nil
}

func (s *fakeSession) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

type fakeFactory struct {
	session Session
	err     error
}

func (f fakeFactory) NewSession() (Session, error) {
	return f.session, f.err
}

func TestExecFunc_Cancellation(t *testing.T) {
	session := &fakeSession{signaled: make(chan ssh.Signal, 1), closed: make(chan struct{})}
	fn := NewWithSessions(fakeFactory{session: session})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := fn(ctx, "/opt/git/bin/git", []string{"fetch"}, gitprocess.ExecOptions{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, ssh.SIGKILL, <-session.signaled)
}

func TestExecFunc_SessionFailure(t *testing.T) {
	errLost := errors.New("connection lost")
	fn := NewWithSessions(fakeFactory{err: errLost})

	_, _, err := fn(context.Background(), "git", nil, gitprocess.ExecOptions{})
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNetwork, platformerrors.GetCode(err))

	_, err = gitprocess.Exec(context.Background(), []string{"fetch", "origin"}, "/srv",
		gitprocess.WithEnv(remoteEnv),
		gitprocess.WithExecFunc(fn))
	require.Error(t, err)
	assert.ErrorIs(t, err, errLost)
	assert.Equal(t, gitprocess.KindUnclassified, gitprocess.KindOf(err))
	assert.Equal(t, platformerrors.CodeNetwork, platformerrors.GetCode(err))
	assert.True(t, platformerrors.IsRetryable(err))
}

func TestCappedBuffer(t *testing.T) {
	b := newCappedBuffer(5)
	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = b.Write([]byte("defgh"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "abcde", b.String())
	assert.True(t, b.truncated)

	_, _ = b.Write([]byte("ij"))
	assert.Equal(t, "abcde", b.String())
}
