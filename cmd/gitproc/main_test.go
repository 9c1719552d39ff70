package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// fakeGit creates a git installation whose bin/git is a shell script.
func fakeGit(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "git"), []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return root
}

func TestRootCommand_Help(t *testing.T) {
	res := runCLI(t, "", "--help")
	require.Equal(t, 0, res.code)
	for _, want := range []string{"gitproc", "run", "classify", "version"} {
		assert.Contains(t, res.stdout, want)
	}
}

func TestClassifyCommand(t *testing.T) {
	t.Run("from stdin", func(t *testing.T) {
		res := runCLI(t, "fatal: repository not found\n", "classify", "--exit-code", "128")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "repository-does-not-exist (NOT_FOUND, PERMANENT)\n", res.stdout)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stderr.txt")
		require.NoError(t, os.WriteFile(path, []byte("fatal: the remote end hung up unexpectedly\n"), 0o600))

		res := runCLI(t, "", "classify", "--exit-code", "128", "--stderr-file", path)
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "remote-disconnection (NETWORK_ERROR, RETRYABLE)\n", res.stdout)
	})

	t.Run("success", func(t *testing.T) {
		res := runCLI(t, "warning: something\n", "classify", "--exit-code", "0")
		require.Equal(t, 0, res.code)
		assert.Equal(t, "success\n", res.stdout)
	})

	t.Run("json", func(t *testing.T) {
		res := runCLI(t, "nothing to commit, working tree clean\n", "classify", "--exit-code", "1", "--json")
		require.Equal(t, 0, res.code, res.stderr)

		var out classification
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
		assert.Equal(t, classification{
			ExitCode:       1,
			Kind:           "nothing-to-commit",
			Code:           "CONFLICT",
			Classification: "PERMANENT",
		}, out)
	})

	t.Run("exit code required", func(t *testing.T) {
		res := runCLI(t, "", "classify")
		assert.Equal(t, exitFailure, res.code)
		assert.Contains(t, res.stderr, "exit-code")
	})
}

func TestRunCommand(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		root := fakeGit(t, `echo "on branch main"; echo "hint: ok" >&2`)

		res := runCLI(t, "", "run", "--env", "LOCAL_GIT_DIRECTORY="+root, "--", "status")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "on branch main\n", res.stdout)
		assert.Equal(t, "hint: ok\n", res.stderr)
	})

	t.Run("classified failure", func(t *testing.T) {
		root := fakeGit(t, `echo "fatal: repository not found" >&2; exit 128`)

		res := runCLI(t, "", "run", "-e", "LOCAL_GIT_DIRECTORY="+root, "--", "fetch", "origin")
		assert.Equal(t, 128, res.code)
		assert.Contains(t, res.stderr, "fatal: repository not found\n")
		assert.Contains(t, res.stderr, "gitproc: repository-does-not-exist")
	})

	t.Run("json report", func(t *testing.T) {
		root := fakeGit(t, `echo "error: pathspec 'x' did not match" >&2; exit 1`)

		res := runCLI(t, "", "run", "--json", "-e", "LOCAL_GIT_DIRECTORY="+root, "--", "checkout", "x")
		assert.Equal(t, 1, res.code)

		var report runReport
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
		assert.Equal(t, 1, report.ExitCode)
		assert.Equal(t, "unclassified", report.Kind)
		require.NotNil(t, report.Error)
		assert.Equal(t, "EXECUTION_FAILED", report.Error.Code)
	})

	t.Run("stdin and config", func(t *testing.T) {
		root := fakeGit(t, `cat; echo "$GREETING"`)
		cfgPath := filepath.Join(t.TempDir(), "gitproc.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("env:\n  GREETING: hello\n  LOCAL_GIT_DIRECTORY: "+root+"\n"), 0o600))

		res := runCLI(t, "payload\n", "run", "--config", cfgPath, "--stdin", "--", "hash-object", "--stdin")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "payload\nhello\n", res.stdout)
	})

	t.Run("truncated output", func(t *testing.T) {
		root := fakeGit(t, `echo 0123456789`)

		res := runCLI(t, "", "run", "--max-buffer", "4", "-e", "LOCAL_GIT_DIRECTORY="+root, "--", "log")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "0123", res.stdout)
		assert.Contains(t, res.stderr, "warning: output truncated")
	})

	t.Run("invalid env", func(t *testing.T) {
		res := runCLI(t, "", "run", "--env", "NOEQUALS", "--", "status")
		assert.Equal(t, exitFailure, res.code)
		assert.Contains(t, res.stderr, "expected KEY=VALUE")
	})

	t.Run("requires git arguments", func(t *testing.T) {
		res := runCLI(t, "", "run")
		assert.Equal(t, exitFailure, res.code)
	})
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, exitFailure, exitCodeFor(nil, assert.AnError))
	assert.Equal(t, exitCanceled, exitCodeFor(nil, context.Canceled))
}
