package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gitproc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		path := writeConfig(t, `
env:
  GIT_TERMINAL_PROMPT: "0"
max_buffer: 2048
terminate_on_overflow: true
ssh:
  host: build-host:2222
  user: ci
  key: ~/.ssh/id_ed25519
`)
		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"GIT_TERMINAL_PROMPT": "0"}, cfg.Env)
		assert.Equal(t, 2048, cfg.MaxBuffer)
		assert.True(t, cfg.TerminateOnOverflow)
		assert.Equal(t, sshConfig{Host: "build-host:2222", User: "ci", Key: "~/.ssh/id_ed25519"}, cfg.SSH)
		assert.Len(t, cfg.options(), 3)
	})

	t.Run("no path", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Empty(t, cfg.options())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := loadConfig(writeConfig(t, "env: [unterminated"))
		require.Error(t, err)
	})

	t.Run("negative max buffer", func(t *testing.T) {
		_, err := loadConfig(writeConfig(t, "max_buffer: -1\n"))
		require.ErrorContains(t, err, "max_buffer")
	})
}

func TestParseEnv(t *testing.T) {
	env, err := parseEnv([]string{"A=1", "B=x=y", "C="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": ""}, env)

	_, err = parseEnv([]string{"=1"})
	require.Error(t, err)
}
