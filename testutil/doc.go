// Package testutil creates throwaway git repositories on disk for tests that
// run the git command-line tool against them.
//
// Repositories are built with go-git, so fixtures do not depend on the git
// binary under test.
package testutil
