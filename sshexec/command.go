package sshexec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var envName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CommandLine renders a POSIX shell command that changes into dir, sets env
// and runs path with args. Every value is single-quoted.
func CommandLine(path string, args []string, dir string, env map[string]string) (string, error) {
	var b strings.Builder
	if dir != "" {
		b.WriteString("cd ")
		b.WriteString(Quote(dir))
		b.WriteString(" && ")
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		if !envName.MatchString(k) {
			return "", fmt.Errorf("invalid environment variable name %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		b.WriteString("env ")
		for _, k := range keys {
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(Quote(env[k]))
			b.WriteByte(' ')
		}
	}

	b.WriteString(Quote(path))
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(Quote(arg))
	}
	return b.String(), nil
}

// Quote wraps s in single quotes for a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
