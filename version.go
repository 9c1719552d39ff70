package gitprocess

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	platformerrors "github.com/jmgilman/gitprocess/errors"
)

var versionPattern = regexp.MustCompile(`git version (\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts the version from `git --version` output. Vendor
// suffixes such as ".windows.1" or " (Apple Git-146)" are ignored.
func ParseVersion(output string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, platformerrors.Newf(platformerrors.CodeInvalidInput,
			"unrecognized git version output: %q", output)
	}

	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	v, err := semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], patch))
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidInput, "failed to parse git version")
	}
	return v, nil
}

// Version runs `git --version` and parses its output.
func (r *Runner) Version(ctx context.Context, opts ...Option) (*semver.Version, error) {
	result, err := r.Exec(ctx, []string{"--version"}, "", opts...)
	if err != nil {
		return nil, err
	}
	return ParseVersion(result.Stdout)
}

// Version runs `git --version` with default options and parses its output.
func Version(ctx context.Context, opts ...Option) (*semver.Version, error) {
	return defaultRunner.Version(ctx, opts...)
}
