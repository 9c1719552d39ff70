package gitprocess

import platformerrors "github.com/jmgilman/gitprocess/errors"

// ErrorKind names a class of git failure. Kinds are stable strings so they
// can be logged, serialized and compared across processes.
type ErrorKind string

// Engine-level kinds.
const (
	// KindUnclassified is reported for a non-zero exit no rule recognizes.
	KindUnclassified ErrorKind = "unclassified"

	// KindRepositoryDoesNotExist is reported when the working directory is
	// missing or git reports the repository does not exist.
	KindRepositoryDoesNotExist ErrorKind = "repository-does-not-exist"

	// KindGitNotFound is reported when the git executable cannot be found.
	KindGitNotFound ErrorKind = "git-not-found"

	// KindMaxBufferExceeded is reported when git was killed because its
	// output outgrew the buffer.
	KindMaxBufferExceeded ErrorKind = "max-buffer-exceeded"
)

// Kinds recognized from git's stderr.
const (
	KindSSHKeyAuditUnverified            ErrorKind = "ssh-key-audit-unverified"
	KindSSHAuthenticationFailed          ErrorKind = "ssh-authentication-failed"
	KindSSHPermissionDenied              ErrorKind = "ssh-permission-denied"
	KindHTTPSAuthenticationFailed        ErrorKind = "https-authentication-failed"
	KindRemoteDisconnection              ErrorKind = "remote-disconnection"
	KindHostDown                         ErrorKind = "host-down"
	KindRebaseConflicts                  ErrorKind = "rebase-conflicts"
	KindMergeConflicts                   ErrorKind = "merge-conflicts"
	KindSSHRepositoryNotFound            ErrorKind = "ssh-repository-not-found"
	KindPushNotFastForward               ErrorKind = "push-not-fast-forward"
	KindBranchDeletionFailed             ErrorKind = "branch-deletion-failed"
	KindDefaultBranchDeletionFailed      ErrorKind = "default-branch-deletion-failed"
	KindRevertConflicts                  ErrorKind = "revert-conflicts"
	KindEmptyRebasePatch                 ErrorKind = "empty-rebase-patch"
	KindNoMatchingRemoteBranch           ErrorKind = "no-matching-remote-branch"
	KindNoExistingRemoteBranch           ErrorKind = "no-existing-remote-branch"
	KindNothingToCommit                  ErrorKind = "nothing-to-commit"
	KindNoSubmoduleMapping               ErrorKind = "no-submodule-mapping"
	KindSubmoduleRepositoryDoesNotExist  ErrorKind = "submodule-repository-does-not-exist"
	KindInvalidSubmoduleSHA              ErrorKind = "invalid-submodule-sha"
	KindLocalPermissionDenied            ErrorKind = "local-permission-denied"
	KindInvalidMerge                     ErrorKind = "invalid-merge"
	KindInvalidRebase                    ErrorKind = "invalid-rebase"
	KindNonFastForwardMergeIntoEmptyHead ErrorKind = "non-fast-forward-merge-into-empty-head"
	KindPatchDoesNotApply                ErrorKind = "patch-does-not-apply"
	KindBranchAlreadyExists              ErrorKind = "branch-already-exists"
	KindBadRevision                      ErrorKind = "bad-revision"
	KindNotAGitRepository                ErrorKind = "not-a-git-repository"
	KindCannotMergeUnrelatedHistories    ErrorKind = "cannot-merge-unrelated-histories"
	KindLFSAttributeDoesNotMatch         ErrorKind = "lfs-attribute-does-not-match"
	KindBranchRenameFailed               ErrorKind = "branch-rename-failed"
	KindPathDoesNotExist                 ErrorKind = "path-does-not-exist"
	KindInvalidObjectName                ErrorKind = "invalid-object-name"
	KindOutsideRepository                ErrorKind = "outside-repository"
	KindLockFileAlreadyExists            ErrorKind = "lock-file-already-exists"
	KindNoMergeToAbort                   ErrorKind = "no-merge-to-abort"
	KindLocalChangesOverwritten          ErrorKind = "local-changes-overwritten"
	KindUnresolvedConflicts              ErrorKind = "unresolved-conflicts"
	KindGPGFailedToSignData              ErrorKind = "gpg-failed-to-sign-data"
	KindConflictModifyDeletedInBranch    ErrorKind = "conflict-modify-deleted-in-branch"
	KindConfigLockFileAlreadyExists      ErrorKind = "config-lock-file-already-exists"
	KindRemoteAlreadyExists              ErrorKind = "remote-already-exists"
	KindTagAlreadyExists                 ErrorKind = "tag-already-exists"
	KindMergeWithLocalChanges            ErrorKind = "merge-with-local-changes"
	KindRebaseWithLocalChanges           ErrorKind = "rebase-with-local-changes"
	KindMergeCommitNoMainlineOption      ErrorKind = "merge-commit-no-mainline-option"
	KindUnsafeDirectory                  ErrorKind = "unsafe-directory"
	KindPathExistsButNotInRef            ErrorKind = "path-exists-but-not-in-ref"
)

// Kinds for push rejections reported by GitHub (GH001-GH007).
const (
	KindPushWithFileSizeExceedingLimit ErrorKind = "push-with-file-size-exceeding-limit"
	KindHexBranchNameRejected          ErrorKind = "hex-branch-name-rejected"
	KindForcePushRejected              ErrorKind = "force-push-rejected"
	KindInvalidRefLength               ErrorKind = "invalid-ref-length"
	KindProtectedBranchRequiresReview  ErrorKind = "protected-branch-requires-review"
	KindProtectedBranchForcePush       ErrorKind = "protected-branch-force-push"
	KindProtectedBranchDeleteRejected  ErrorKind = "protected-branch-delete-rejected"
	KindProtectedBranchRequiredStatus  ErrorKind = "protected-branch-required-status"
	KindPushWithPrivateEmail           ErrorKind = "push-with-private-email"
)

var kindCodes = map[ErrorKind]platformerrors.ErrorCode{
	KindUnclassified:           platformerrors.CodeExecutionFailed,
	KindRepositoryDoesNotExist: platformerrors.CodeNotFound,
	KindGitNotFound:            platformerrors.CodeNotFound,
	KindMaxBufferExceeded:      platformerrors.CodeOutputLimitExceeded,

	KindSSHKeyAuditUnverified:     platformerrors.CodeUnauthorized,
	KindSSHAuthenticationFailed:   platformerrors.CodeUnauthorized,
	KindHTTPSAuthenticationFailed: platformerrors.CodeUnauthorized,

	KindSSHPermissionDenied:            platformerrors.CodeForbidden,
	KindLocalPermissionDenied:          platformerrors.CodeForbidden,
	KindDefaultBranchDeletionFailed:    platformerrors.CodeForbidden,
	KindUnsafeDirectory:                platformerrors.CodeForbidden,
	KindPushWithFileSizeExceedingLimit: platformerrors.CodeForbidden,
	KindHexBranchNameRejected:          platformerrors.CodeForbidden,
	KindForcePushRejected:              platformerrors.CodeForbidden,
	KindInvalidRefLength:               platformerrors.CodeForbidden,
	KindProtectedBranchRequiresReview:  platformerrors.CodeForbidden,
	KindProtectedBranchForcePush:       platformerrors.CodeForbidden,
	KindProtectedBranchDeleteRejected:  platformerrors.CodeForbidden,
	KindProtectedBranchRequiredStatus:  platformerrors.CodeForbidden,
	KindPushWithPrivateEmail:           platformerrors.CodeForbidden,

	KindRemoteDisconnection: platformerrors.CodeNetwork,
	KindHostDown:            platformerrors.CodeNetwork,

	KindLockFileAlreadyExists:       platformerrors.CodeUnavailable,
	KindConfigLockFileAlreadyExists: platformerrors.CodeUnavailable,

	KindRebaseConflicts:                  platformerrors.CodeConflict,
	KindMergeConflicts:                   platformerrors.CodeConflict,
	KindPushNotFastForward:               platformerrors.CodeConflict,
	KindRevertConflicts:                  platformerrors.CodeConflict,
	KindEmptyRebasePatch:                 platformerrors.CodeConflict,
	KindNothingToCommit:                  platformerrors.CodeConflict,
	KindNonFastForwardMergeIntoEmptyHead: platformerrors.CodeConflict,
	KindPatchDoesNotApply:                platformerrors.CodeConflict,
	KindCannotMergeUnrelatedHistories:    platformerrors.CodeConflict,
	KindLocalChangesOverwritten:          platformerrors.CodeConflict,
	KindUnresolvedConflicts:              platformerrors.CodeConflict,
	KindConflictModifyDeletedInBranch:    platformerrors.CodeConflict,
	KindMergeWithLocalChanges:            platformerrors.CodeConflict,
	KindRebaseWithLocalChanges:           platformerrors.CodeConflict,

	KindSSHRepositoryNotFound:           platformerrors.CodeNotFound,
	KindSubmoduleRepositoryDoesNotExist: platformerrors.CodeNotFound,
	KindBranchDeletionFailed:            platformerrors.CodeNotFound,
	KindNoMatchingRemoteBranch:          platformerrors.CodeNotFound,
	KindNoExistingRemoteBranch:          platformerrors.CodeNotFound,
	KindNoSubmoduleMapping:              platformerrors.CodeNotFound,
	KindNotAGitRepository:               platformerrors.CodeNotFound,
	KindPathDoesNotExist:                platformerrors.CodeNotFound,
	KindNoMergeToAbort:                  platformerrors.CodeNotFound,
	KindPathExistsButNotInRef:           platformerrors.CodeNotFound,

	KindBranchAlreadyExists: platformerrors.CodeAlreadyExists,
	KindRemoteAlreadyExists: platformerrors.CodeAlreadyExists,
	KindTagAlreadyExists:    platformerrors.CodeAlreadyExists,

	KindInvalidSubmoduleSHA:         platformerrors.CodeInvalidInput,
	KindInvalidMerge:                platformerrors.CodeInvalidInput,
	KindInvalidRebase:               platformerrors.CodeInvalidInput,
	KindBadRevision:                 platformerrors.CodeInvalidInput,
	KindInvalidObjectName:           platformerrors.CodeInvalidInput,
	KindOutsideRepository:           platformerrors.CodeInvalidInput,
	KindMergeCommitNoMainlineOption: platformerrors.CodeInvalidInput,
	KindLFSAttributeDoesNotMatch:    platformerrors.CodeInvalidInput,

	KindBranchRenameFailed:  platformerrors.CodeExecutionFailed,
	KindGPGFailedToSignData: platformerrors.CodeExecutionFailed,
}

// Code returns the platform error code for the kind.
// Unknown kinds map to CodeExecutionFailed.
func (k ErrorKind) Code() platformerrors.ErrorCode {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return platformerrors.CodeExecutionFailed
}

func (k ErrorKind) String() string {
	return string(k)
}
