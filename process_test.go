package gitprocess

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	platformerrors "github.com/jmgilman/gitprocess/errors"
	"github.com/jmgilman/gitprocess/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var remoteGitEnv = map[string]string{
	EnvLocalGitDirectory: "/opt/git",
	EnvGitExecPath:       "/opt/git/libexec/git-core",
	"FAKE_GIT_ON_PATH":   "/usr/bin/git",
}

func testRunner(env map[string]string, run func(args ...string) (*exec.Result, error), opts ...Option) (*Runner, *atomic.Int32) {
	spawned := &atomic.Int32{}
	r := New(opts...)
	r.resolver = fakeResolver("linux", env)
	r.newExecutor = func() exec.Executor {
		return newMockExecutor(func(args ...string) (*exec.Result, error) {
			spawned.Add(1)
			return run(args...)
		})
	}
	return r, spawned
}

func exitZero(args ...string) (*exec.Result, error) {
	return &exec.Result{Stdout: "ok\n"}, nil
}

func TestRunner_ExecFuncRequiresGitLocation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "nothing set", env: map[string]string{"FAKE_GIT_ON_PATH": "/usr/bin/git"}},
		{name: "only root", env: map[string]string{EnvLocalGitDirectory: "/opt/git", "FAKE_GIT_ON_PATH": "/usr/bin/git"}},
		{name: "only exec path", env: map[string]string{EnvGitExecPath: "/opt/git/libexec/git-core", "FAKE_GIT_ON_PATH": "/usr/bin/git"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called atomic.Int32
			spy := func(context.Context, string, []string, ExecOptions) (string, string, error) {
				called.Add(1)
				return "", "", nil
			}
			r, spawned := testRunner(tt.env, exitZero)

			result, err := r.Exec(context.Background(), []string{"status"}, "/work", WithExecFunc(spy))
			require.ErrorIs(t, err, ErrExecPathNotConfigured)
			assert.Equal(t, platformerrors.CodeInvalidConfig, platformerrors.GetCode(err))
			assert.Nil(t, result)
			assert.Zero(t, called.Load(), "exec function must not be called")
			assert.Zero(t, spawned.Load(), "git must not be spawned")
		})
	}
}

func TestRunner_ExternalClassification(t *testing.T) {
	r, spawned := testRunner(remoteGitEnv, exitZero)
	fn := func(context.Context, string, []string, ExecOptions) (string, string, error) {
		return "", "fatal: repository not found", exitCodeError{code: 128}
	}

	args := []string{"clone", "--", "https://example.com/missing.git", "."}
	result, err := r.Exec(context.Background(), args, "/work", WithExecFunc(fn))
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 128, result.ExitCode)
	assert.Zero(t, spawned.Load())

	var gitErr *GitError
	require.ErrorAs(t, err, &gitErr)
	assert.Equal(t, KindRepositoryDoesNotExist, gitErr.Kind)
	assert.Equal(t, args, gitErr.Args)
	assert.Equal(t, "/work", gitErr.Dir)
	assert.Same(t, result, gitErr.Result)

	// The same pair from a local spawn classifies identically.
	local, _ := testRunner(remoteGitEnv, func(args ...string) (*exec.Result, error) {
		res := &exec.Result{ExitCode: 128, Stderr: "fatal: repository not found"}
		return res, &exec.ExecError{ExitCode: 128, Err: errors.New("exit status 128")}
	})
	_, localErr := local.Exec(context.Background(), args, "/work")
	assert.Equal(t, gitErr.Kind, KindOf(localErr))
}

func TestRunner_SuccessWithStderr(t *testing.T) {
	r, _ := testRunner(remoteGitEnv, func(args ...string) (*exec.Result, error) {
		return &exec.Result{Stdout: "", Stderr: "Cloning into 'repo'...\n"}, nil
	})

	result, err := r.Exec(context.Background(), []string{"clone", "url", "repo"}, "/work")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "Cloning into 'repo'...\n", result.Stderr)
}

func TestRunner_Unclassified(t *testing.T) {
	r, _ := testRunner(remoteGitEnv, func(args ...string) (*exec.Result, error) {
		res := &exec.Result{ExitCode: 1, Stderr: "error: pathspec 'nope' did not match any file(s) known to git\n"}
		return res, &exec.ExecError{ExitCode: 1, Err: errors.New("exit status 1")}
	})

	result, err := r.Exec(context.Background(), []string{"checkout", "nope"}, "/work")
	require.Error(t, err)
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, KindUnclassified, KindOf(err))
	assert.Equal(t, platformerrors.CodeExecutionFailed, platformerrors.GetCode(err))
	assert.Contains(t, err.Error(), "did not match any file(s)")

	var execErr *exec.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 1, execErr.ExitCode)
}

func TestRunner_ExternalFailureKeepsCause(t *testing.T) {
	errTransport := errors.New("connection reset by peer")

	t.Run("transport failure keeps its code", func(t *testing.T) {
		r, _ := testRunner(remoteGitEnv, exitZero)
		fn := func(context.Context, string, []string, ExecOptions) (string, string, error) {
			return "", "", platformerrors.Wrap(errTransport, platformerrors.CodeNetwork, "failed to open ssh session")
		}

		result, err := r.Exec(context.Background(), []string{"fetch", "origin"}, "/work", WithExecFunc(fn))
		require.Error(t, err)
		assert.Equal(t, DefaultFailureExitCode, result.ExitCode)
		assert.ErrorIs(t, err, errTransport)
		assert.Equal(t, KindUnclassified, KindOf(err))
		assert.Equal(t, platformerrors.CodeNetwork, platformerrors.GetCode(err))
		assert.True(t, platformerrors.IsRetryable(err))
		assert.Contains(t, err.Error(), "failed to open ssh session")
	})

	t.Run("classified failure keeps its kind", func(t *testing.T) {
		r, _ := testRunner(remoteGitEnv, exitZero)
		fn := func(context.Context, string, []string, ExecOptions) (string, string, error) {
			return "", "fatal: repository not found\n", errTransport
		}

		result, err := r.Exec(context.Background(), []string{"fetch", "origin"}, "/work", WithExecFunc(fn))
		require.Error(t, err)
		assert.Equal(t, 128, result.ExitCode)
		assert.ErrorIs(t, err, errTransport)
		assert.Equal(t, KindRepositoryDoesNotExist, KindOf(err))
		assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
	})
}

func TestNew_ExecutorInheritsEnvironment(t *testing.T) {
	t.Setenv("GITPROCESS_PARENT_VAR", "parent")
	r := New()

	first := r.newExecutor()
	second := r.newExecutor()
	assert.NotSame(t, first, second)

	result, err := first.WithEnv(map[string]string{"GITPROCESS_CHILD_VAR": "child"}).
		Run("sh", "-c", "echo $GITPROCESS_PARENT_VAR $GITPROCESS_CHILD_VAR")
	require.NoError(t, err)
	assert.Equal(t, "parent child\n", result.Stdout)

	result, err = second.Run("sh", "-c", "echo $GITPROCESS_CHILD_VAR")
	require.NoError(t, err)
	assert.Equal(t, "\n", result.Stdout)
}

func TestRunner_InvalidMaxBuffer(t *testing.T) {
	r, spawned := testRunner(remoteGitEnv, exitZero)

	_, err := r.Exec(context.Background(), []string{"status"}, "", WithMaxBuffer(0))
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeInvalidConfig, platformerrors.GetCode(err))
	assert.Zero(t, spawned.Load())
}

func TestRunner_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Int32
	fn := func(context.Context, string, []string, ExecOptions) (string, string, error) {
		called.Add(1)
		return "", "", nil
	}
	r, spawned := testRunner(remoteGitEnv, exitZero)

	result, err := r.Exec(ctx, []string{"status"}, "")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsCanceled(err))
	assert.Equal(t, platformerrors.CodeCanceled, platformerrors.GetCode(err))
	assert.Empty(t, KindOf(err))

	_, err = r.Exec(ctx, []string{"status"}, "", WithExecFunc(fn))
	assert.True(t, IsCanceled(err))
	assert.Zero(t, spawned.Load())
	assert.Zero(t, called.Load())
}

func TestRunner_DefaultsAndOverrides(t *testing.T) {
	r := New(WithEnv(map[string]string{"A": "1", "B": "1"}), WithMaxBuffer(512))
	r.resolver = fakeResolver("linux", map[string]string{"FAKE_GIT_ON_PATH": "/usr/bin/git"})

	var envs []map[string]string
	var buffers []int
	r.newExecutor = func() exec.Executor {
		m := newMockExecutor(exitZero)
		m.WithEnvFunc = func(env map[string]string) exec.Executor {
			envs = append(envs, env)
			return m
		}
		m.WithMaxBufferFunc = func(n int) exec.Executor {
			buffers = append(buffers, n)
			return m
		}
		return m
	}

	_, err := r.Exec(context.Background(), []string{"status"}, "", WithEnv(map[string]string{"B": "2", "C": "3"}), WithMaxBuffer(1024))
	require.NoError(t, err)
	_, err = r.Exec(context.Background(), []string{"status"}, "")
	require.NoError(t, err)

	require.Len(t, envs, 2)
	assert.Equal(t, map[string]string{"A": "1", "B": "2", "C": "3"}, envs[0])
	assert.Equal(t, map[string]string{"A": "1", "B": "1"}, envs[1])
	assert.Equal(t, []int{1024, 512}, buffers)
}

func TestRunner_ExecFuncNeverFallsBack(t *testing.T) {
	var gotPath string
	fn := func(_ context.Context, path string, _ []string, _ ExecOptions) (string, string, error) {
		gotPath = path
		return "git version 2.45.1\n", "", nil
	}
	r, spawned := testRunner(remoteGitEnv, exitZero)

	result, err := r.Exec(context.Background(), []string{"--version"}, "", WithExecFunc(fn))
	require.NoError(t, err)
	assert.Equal(t, "git version 2.45.1\n", result.Stdout)
	assert.Equal(t, "/opt/git/bin/git", gotPath)
	assert.Zero(t, spawned.Load())
}

func TestRunner_LogsOverflow(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, _ := testRunner(remoteGitEnv, func(args ...string) (*exec.Result, error) {
		return &exec.Result{Stdout: "abcd", StdoutTruncated: true}, nil
	}, WithLogger(logger))

	result, err := r.Exec(context.Background(), []string{"log"}, "/work", WithMaxBuffer(4))
	require.NoError(t, err)
	assert.True(t, result.StdoutOverflow)
	assert.False(t, result.StderrOverflow)
	assert.True(t, result.Overflowed())

	logs := buf.String()
	assert.Contains(t, logs, "level=DEBUG msg=\"running git\"")
	assert.Contains(t, logs, "level=WARN msg=\"git output truncated\"")
	assert.Contains(t, logs, "max_buffer=4")
	assert.Contains(t, logs, "backend=local")
}
