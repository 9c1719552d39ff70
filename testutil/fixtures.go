package testutil

// Test user information used for fixture commits.
const (
	// TestAuthor is the author name for fixture commits.
	TestAuthor = "Test User"

	// TestEmail is the author email for fixture commits.
	TestEmail = "test@example.com"
)

// Fixture content.
const (
	// TestFileContent is the README written by NewRepo.
	TestFileContent = "# Test Repository\n\nThis is a test repository.\n"

	// TestInitialCommit is the message of the commit created by NewRepo.
	TestInitialCommit = "Initial commit"

	// TestBranchMain is the branch NewRepo leaves checked out.
	TestBranchMain = "master"

	// TestBranchName is a feature branch name for tests.
	TestBranchName = "feature/test-branch"

	// TestTagName is a tag name for tests.
	TestTagName = "v1.0.0"
)

// Sample stderr output of failed git commands, keyed by what went wrong.
const (
	// StderrRepositoryNotFound is printed by clone or fetch when the remote
	// repository does not exist.
	StderrRepositoryNotFound = "fatal: repository not found"

	// StderrNotARepository is printed when a command runs outside a repository.
	StderrNotARepository = "fatal: not a git repository (or any of the parent directories): .git"

	// StderrBranchExists is printed by `git branch` for an existing name.
	StderrBranchExists = "fatal: a branch named 'master' already exists"

	// StderrMergeConflict is printed by a merge that stops on conflicts.
	StderrMergeConflict = "CONFLICT (content): Merge conflict in README.md\nAutomatic merge failed; fix conflicts and then commit the result."

	// StderrLockFile is printed when index.lock is held by another process.
	StderrLockFile = "fatal: Unable to create '/repo/.git/index.lock': File exists.\n\nAnother git process seems to be running in this repository, e.g.\nan editor opened by 'git commit'."

	// StderrHostDown is printed by clone when DNS resolution fails.
	StderrHostDown = "Cloning into 'repo'...\nfatal: unable to access 'https://example.invalid/repo.git/': Could not resolve host: example.invalid"
)
