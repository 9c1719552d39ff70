package gitprocess

import (
	"maps"
	"os"
	osexec "os/exec"
	"runtime"
	"strings"
)

const (
	// EnvLocalGitDirectory names the root of a git installation to use
	// instead of the git found on PATH.
	EnvLocalGitDirectory = "LOCAL_GIT_DIRECTORY"

	// EnvGitExecPath names the directory holding git's helper programs.
	EnvGitExecPath = "GIT_EXEC_PATH"

	envTemplateDir = "GIT_TEMPLATE_DIR"
	envPrefix      = "PREFIX"
	envPath        = "PATH"
)

// environment is the resolved executable and the variables passed to it.
type environment struct {
	// path is the git executable.
	path string

	// vars holds the caller overrides plus the derived git variables. The
	// local process environment is not included.
	vars map[string]string
}

// resolver locates git and assembles its environment. Lookups consult the
// per-call overrides before the process environment.
type resolver struct {
	goos      string
	lookupEnv func(string) (string, bool)
	lookPath  func(string) (string, error)
}

func systemResolver() resolver {
	return resolver{
		goos:      runtime.GOOS,
		lookupEnv: os.LookupEnv,
		lookPath:  osexec.LookPath,
	}
}

func (r resolver) lookup(overrides map[string]string, key string) (string, bool) {
	if v, ok := overrides[key]; ok {
		return v, v != ""
	}
	v, ok := r.lookupEnv(key)
	return v, ok && v != ""
}

// external resolves the environment for an ExecFunc. Both
// LOCAL_GIT_DIRECTORY and GIT_EXEC_PATH must be set.
func (r resolver) external(overrides map[string]string) (*environment, error) {
	root, okRoot := r.lookup(overrides, EnvLocalGitDirectory)
	execPath, okExec := r.lookup(overrides, EnvGitExecPath)
	if !okRoot || !okExec {
		return nil, ErrExecPathNotConfigured
	}

	vars := copyVars(overrides)
	vars[EnvLocalGitDirectory] = root
	vars[EnvGitExecPath] = execPath
	return &environment{path: r.executable(root), vars: vars}, nil
}

// local resolves the environment for a locally spawned git. Without
// LOCAL_GIT_DIRECTORY, git is looked up on PATH.
func (r resolver) local(inv *invocation) (*environment, error) {
	overrides := inv.opts.env
	vars := copyVars(overrides)

	root, ok := r.lookup(overrides, EnvLocalGitDirectory)
	if !ok {
		path, err := r.lookPath("git")
		if err != nil {
			return nil, newGitError(KindGitNotFound, inv, nil, err, "Git could not be found on PATH")
		}
		return &environment{path: path, vars: vars}, nil
	}

	if _, ok := r.lookup(overrides, EnvGitExecPath); !ok {
		if r.goos == "windows" {
			vars[EnvGitExecPath] = r.join(root, "mingw64", "libexec", "git-core")
		} else {
			vars[EnvGitExecPath] = r.join(root, "libexec", "git-core")
		}
	}

	if r.goos == "windows" {
		dirs := []string{r.join(root, "mingw64", "bin"), r.join(root, "usr", "bin")}
		if existing, ok := r.lookup(overrides, envPath); ok {
			dirs = append(dirs, existing)
		}
		vars[envPath] = strings.Join(dirs, ";")
	} else {
		if _, ok := r.lookup(overrides, envTemplateDir); !ok {
			vars[envTemplateDir] = r.join(root, "share", "git-core", "templates")
		}
		if _, ok := r.lookup(overrides, envPrefix); !ok {
			vars[envPrefix] = root
		}
	}

	return &environment{path: r.executable(root), vars: vars}, nil
}

func (r resolver) executable(root string) string {
	if r.goos == "windows" {
		return r.join(root, "cmd", "git.exe")
	}
	return r.join(root, "bin", "git")
}

// join builds a path for the target OS, which may differ from the host in
// tests.
func (r resolver) join(root string, elem ...string) string {
	sep := "/"
	if r.goos == "windows" {
		sep = `\`
	}
	return strings.Join(append([]string{strings.TrimRight(root, `/\`)}, elem...), sep)
}

func copyVars(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+4)
	maps.Copy(dst, src)
	return dst
}
