package gitprocess

import "regexp"

// exitFatal is the status git exits with after printing a "fatal:" message.
const exitFatal = 128

// Rule maps an exit code and a stderr pattern to an ErrorKind.
type Rule struct {
	// Kind is reported when the rule matches.
	Kind ErrorKind

	// ExitCodes lists the exit codes the rule applies to. An empty list
	// matches any non-zero exit code.
	ExitCodes []int

	// Pattern is searched for anywhere in stderr.
	Pattern *regexp.Regexp
}

// Matches reports whether the rule applies to the exit code and stderr text.
func (r Rule) Matches(exitCode int, stderr string) bool {
	if exitCode == 0 || !r.admits(exitCode) {
		return false
	}
	return r.Pattern.MatchString(stderr)
}

func (r Rule) admits(exitCode int) bool {
	if len(r.ExitCodes) == 0 {
		return true
	}
	for _, code := range r.ExitCodes {
		if code == exitCode {
			return true
		}
	}
	return false
}

func fatal(kind ErrorKind, pattern string) Rule {
	return Rule{Kind: kind, ExitCodes: []int{exitFatal}, Pattern: regexp.MustCompile(pattern)}
}

func anyExit(kind ErrorKind, pattern string) Rule {
	return Rule{Kind: kind, Pattern: regexp.MustCompile(pattern)}
}

// rules is evaluated top to bottom; the first match wins. More specific
// patterns must come before the generic ones they overlap with.
var rules = []Rule{
	fatal(KindSSHKeyAuditUnverified, `ERROR: ([\s\S]+?)\n+\[EPOLICYKEYAGE\]\n+fatal: Could not read from remote repository.`),
	fatal(KindHTTPSAuthenticationFailed, `fatal: Authentication failed for 'https://`),
	fatal(KindSSHAuthenticationFailed, `fatal: Authentication failed`),
	fatal(KindSSHPermissionDenied, `fatal: Could not read from remote repository.`),
	fatal(KindHTTPSAuthenticationFailed, `The requested URL returned error: 403`),
	fatal(KindRemoteDisconnection, `fatal: [Tt]he remote end hung up unexpectedly`),
	fatal(KindHostDown, `fatal: unable to access '(.+)': Failed to connect to (.+): Host is down`),
	fatal(KindHostDown, `Cloning into '(.+)'...\nfatal: unable to access '(.+)': Could not resolve host: (.+)`),
	anyExit(KindRebaseConflicts, `Failed to merge in the changes.`),
	anyExit(KindMergeConflicts, `(Merge conflict|Automatic merge failed; fix conflicts and then commit the result.)`),
	fatal(KindRepositoryDoesNotExist, `fatal: repository '(.+)' not found`),
	fatal(KindRepositoryDoesNotExist, `fatal: repository not found`),
	fatal(KindSSHRepositoryNotFound, `ERROR: Repository not found`),
	anyExit(KindPushNotFastForward, `\((non-fast-forward|fetch first)\)\nerror: failed to push some refs to '.*'`),
	anyExit(KindBranchDeletionFailed, `error: unable to delete '(.+)': remote ref does not exist`),
	anyExit(KindDefaultBranchDeletionFailed, `\[remote rejected\] (.+) \(deletion of the current branch prohibited\)`),
	anyExit(KindRevertConflicts, `error: could not revert .*\nhint: after resolving the conflicts, mark the corrected paths\nhint: with 'git add <paths>' or 'git rm <paths>'\nhint: and commit the result with 'git commit'`),
	anyExit(KindEmptyRebasePatch, `Applying: .*\nNo changes - did you forget to use 'git add'\?\nIf there is nothing left to stage, chances are that something else\n.*`),
	anyExit(KindNoMatchingRemoteBranch, `There are no candidates for (rebasing|merging) among the refs that you just fetched.\nGenerally this means that you provided a wildcard refspec which had no\nmatches on the remote end.`),
	anyExit(KindNoExistingRemoteBranch, `Your configuration specifies to merge with the ref '(.+)'\nfrom the remote, but no such ref was fetched.`),
	anyExit(KindNothingToCommit, `nothing to commit`),
	anyExit(KindNoSubmoduleMapping, `[Nn]o submodule mapping found in .gitmodules for path '(.+)'`),
	fatal(KindSubmoduleRepositoryDoesNotExist, `fatal: repository '(.+)' does not exist\nfatal: clone of '.+' into submodule path '(.+)' failed`),
	fatal(KindRepositoryDoesNotExist, `fatal: repository '(.+)' does not exist`),
	anyExit(KindInvalidSubmoduleSHA, `Fetched in submodule path '(.+)', but it did not contain (.+). Direct fetching of that commit failed.`),
	fatal(KindLocalPermissionDenied, `fatal: could not create work tree dir '(.+)'.*: Permission denied`),
	anyExit(KindInvalidMerge, `merge: (.+) - not something we can merge`),
	anyExit(KindInvalidRebase, `invalid upstream (.+)`),
	fatal(KindNonFastForwardMergeIntoEmptyHead, `fatal: Non-fast-forward commit does not make sense into an empty head`),
	anyExit(KindPatchDoesNotApply, `error: (.+): (patch does not apply|already exists in working directory)`),
	fatal(KindBranchAlreadyExists, `fatal: [Aa] branch named '(.+)' already exists.?`),
	fatal(KindBadRevision, `fatal: bad revision '(.*)'`),
	fatal(KindNotAGitRepository, `fatal: [Nn]ot a git repository \(or any of the parent directories\): (.*)`),
	fatal(KindCannotMergeUnrelatedHistories, `fatal: refusing to merge unrelated histories`),
	anyExit(KindLFSAttributeDoesNotMatch, `The .+ attribute should be .+ but is .+`),
	fatal(KindBranchRenameFailed, `fatal: Branch rename failed`),
	fatal(KindPathDoesNotExist, `fatal: path '(.+)' does not exist .+`),
	fatal(KindInvalidObjectName, `fatal: invalid object name '(.+)'.`),
	fatal(KindOutsideRepository, `fatal: .+: '(.+)' is outside repository`),
	anyExit(KindLockFileAlreadyExists, `Another git process seems to be running in this repository, e.g.`),
	fatal(KindNoMergeToAbort, `fatal: There is no merge to abort`),
	anyExit(KindLocalChangesOverwritten, `error: (?:Your local changes to the following|The following untracked working tree) files would be overwritten by checkout:`),
	anyExit(KindUnresolvedConflicts, `You must edit all merge conflicts and then\nmark them as resolved using git add|fatal: Exiting because of an unresolved conflict`),
	anyExit(KindGPGFailedToSignData, `error: gpg failed to sign the data`),
	anyExit(KindConflictModifyDeletedInBranch, `CONFLICT \(modify/delete\): (.+) deleted in (.+) and modified in (.+)`),

	anyExit(KindPushWithFileSizeExceedingLimit, `error: GH001: `),
	anyExit(KindHexBranchNameRejected, `error: GH002: `),
	anyExit(KindForcePushRejected, `error: GH003: Sorry, force-pushing to (.+) is not allowed.`),
	anyExit(KindInvalidRefLength, `error: GH005: Sorry, refs longer than (.+) bytes are not allowed`),
	anyExit(KindProtectedBranchRequiresReview, `error: GH006: Protected branch update failed for (.+)\nremote: error: At least one approved review is required`),
	anyExit(KindProtectedBranchForcePush, `error: GH006: Protected branch update failed for (.+)\nremote: error: Cannot force-push to a protected branch`),
	anyExit(KindProtectedBranchDeleteRejected, `error: GH006: Protected branch update failed for (.+)\nremote: error: Cannot delete a protected branch`),
	anyExit(KindProtectedBranchRequiredStatus, `error: GH006: Protected branch update failed for (.+).\nremote: error: Required status check "(.+)" is expected`),
	anyExit(KindPushWithPrivateEmail, `error: GH007: Your push would publish a private email address.`),

	anyExit(KindConfigLockFileAlreadyExists, `error: could not lock config file (.+): File exists`),
	anyExit(KindRemoteAlreadyExists, `error: remote (.+) already exists.`),
	fatal(KindTagAlreadyExists, `fatal: tag '(.+)' already exists`),
	anyExit(KindMergeWithLocalChanges, `error: Your local changes to the following files would be overwritten by merge:\n`),
	anyExit(KindRebaseWithLocalChanges, `error: cannot (pull with rebase|rebase): You have unstaged changes\.`),
	anyExit(KindMergeCommitNoMainlineOption, `error: commit (.+) is a merge but no -m option was given`),
	fatal(KindUnsafeDirectory, `fatal: detected dubious ownership in repository at`),
	fatal(KindPathExistsButNotInRef, `fatal: path '(.+)' exists on disk, but not in '(.+)'`),
}

// Rules returns a copy of the classification table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
