package testutil

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a non-bare repository in a temporary directory.
type Repo struct {
	// Dir is the absolute path of the worktree.
	Dir string

	// Git is the go-git handle to the repository.
	Git *gogit.Repository

	// FS is the worktree filesystem.
	FS billy.Filesystem
}

// NewRepo initializes a repository in t.TempDir() with a README committed on
// the master branch. It fails the test on error.
//
// Example:
//
//	repo := testutil.NewRepo(t)
//	_, err := gitprocess.Exec(ctx, []string{"branch", "master"}, repo.Dir)
func NewRepo(t testing.TB) *Repo {
	t.Helper()

	repo := NewEmptyRepo(t)
	if err := repo.WriteFile("README.md", TestFileContent); err != nil {
		t.Fatalf("write README: %v", err)
	}
	if _, err := repo.Commit(TestInitialCommit, "README.md"); err != nil {
		t.Fatalf("initial commit: %v", err)
	}
	return repo
}

// NewEmptyRepo initializes a repository in t.TempDir() without commits.
func NewEmptyRepo(t testing.TB) *Repo {
	t.Helper()

	dir := t.TempDir()
	r, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	wt, err := r.Worktree()
	if err != nil {
		t.Fatalf("open worktree: %v", err)
	}
	return &Repo{Dir: dir, Git: r, FS: wt.Filesystem}
}

// WriteFile writes content to path relative to the worktree, creating parent
// directories as needed.
func (r *Repo) WriteFile(path, content string) error {
	//nolint:wrapcheck // Test utility - billy errors are descriptive enough
	return util.WriteFile(r.FS, path, []byte(content), 0o644)
}

// Commit stages paths and commits them with the test author. With no paths
// an empty commit is created.
func (r *Repo) Commit(message string, paths ...string) (string, error) {
	wt, err := r.Git.Worktree()
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			//nolint:wrapcheck // Test utility - errors from go-git are transparent
			return "", err
		}
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  TestAuthor,
			Email: TestEmail,
			When:  time.Now(),
		},
		AllowEmptyCommits: len(paths) == 0,
	})
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	return hash.String(), nil
}

// CreateBranch creates a branch pointing at HEAD without checking it out.
func (r *Repo) CreateBranch(name string) error {
	head, err := r.Git.Head()
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return err
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	//nolint:wrapcheck // Test utility - errors from go-git are transparent
	return r.Git.Storer.SetReference(ref)
}

// CreateTag creates a lightweight tag pointing at HEAD.
func (r *Repo) CreateTag(name string) error {
	head, err := r.Git.Head()
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return err
	}
	_, err = r.Git.CreateTag(name, head.Hash(), nil)
	//nolint:wrapcheck // Test utility - errors from go-git are transparent
	return err
}

// Head returns the hash HEAD points at.
func (r *Repo) Head() (string, error) {
	head, err := r.Git.Head()
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	return head.Hash().String(), nil
}
