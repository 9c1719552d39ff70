package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmgilman/gitprocess"
)

// fileConfig is the optional YAML configuration for gitproc run.
//
//	env:
//	  GIT_TERMINAL_PROMPT: "0"
//	max_buffer: 1048576
//	terminate_on_overflow: true
//	ssh:
//	  host: build-host:22
//	  user: git
//	  key: ~/.ssh/id_ed25519
type fileConfig struct {
	Env                 map[string]string `yaml:"env"`
	MaxBuffer           int               `yaml:"max_buffer"`
	TerminateOnOverflow bool              `yaml:"terminate_on_overflow"`
	SSH                 sshConfig         `yaml:"ssh"`
}

type sshConfig struct {
	Host       string `yaml:"host"`
	User       string `yaml:"user"`
	Key        string `yaml:"key"`
	KnownHosts string `yaml:"known_hosts"`
}

// loadConfig reads the configuration at path. An empty path yields the zero
// configuration.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxBuffer < 0 {
		return nil, fmt.Errorf("parse config %s: max_buffer must not be negative", path)
	}
	return cfg, nil
}

// options converts the configuration into invocation options.
func (c *fileConfig) options() []gitprocess.Option {
	var opts []gitprocess.Option
	if len(c.Env) > 0 {
		opts = append(opts, gitprocess.WithEnv(c.Env))
	}
	if c.MaxBuffer > 0 {
		opts = append(opts, gitprocess.WithMaxBuffer(c.MaxBuffer))
	}
	if c.TerminateOnOverflow {
		opts = append(opts, gitprocess.WithTerminateOnOverflow())
	}
	return opts
}

// parseEnv parses KEY=VALUE pairs.
func parseEnv(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --env value %q, expected KEY=VALUE", pair)
		}
		env[k] = v
	}
	return env, nil
}
