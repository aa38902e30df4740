// Package gitexec provides a narrow, interface-segregated wrapper around
// the git CLI. Mutating operations live here; read-only introspection that
// assembles higher-level domain views lives in gitprobe, which is built on
// top of the Runner interface defined below.
package gitexec

// BranchOperations covers branch creation, switching and deletion.
type BranchOperations interface {
	CurrentBranch() (string, error)
	CreateBranch(name string) error
	CreateAndCheckoutBranch(name string) error
	CheckoutBranch(name string) error
	BranchExists(name string) (bool, error)
	DeleteBranch(name string) error
	MostRecentBranch() (string, error)
}

// DiffOperations covers status and diff inspection.
type DiffOperations interface {
	Status() (string, error)
	HasChanges() (bool, error)
	Diff(base string) (string, error)
	DiffBetween(ref1, ref2 string) (string, error)
	ChangedFiles(base string) ([]string, error)
	ChangedFilesBetween(ref1, ref2 string) ([]string, error)
	ChangedFilesRelative(branch, relativeTo string) ([]string, error)
	ConflictedFiles() ([]string, error)
}

// CommitOperations covers staging and committing.
type CommitOperations interface {
	Add(paths ...string) error
	Commit(message string) error
	Reset(ref string) error
	CheckoutPath(path string) error
	CurrentCommitSHA() (string, error)
}

// MergeOperations covers merge and rebase.
type MergeOperations interface {
	Merge(branch string) error
	MergeNoFF(branch string) error
	MergeNoFFMessage(branch, message string) error
	MergeAbort() error
	MergeBase(branch1, branch2 string) (string, error)
	HasConflicts() (bool, error)
	Rebase(base string) error
	RebaseAbort() error
	RebaseContinue() error
}

// StashOperations covers the working-tree preservation invariant (I3):
// uncommitted work is never discarded by a flow.
type StashOperations interface {
	StashPush(message string) (bool, error)
	StashPop() error
	StashList() ([]string, error)
}

// RemoteOperations covers fetch/pull/push against a remote.
type RemoteOperations interface {
	Fetch(remote, branch string) error
	PullFFOnly() error
	PullRebase(remote, branch string) error
	PullMerge(remote, branch string) error
	Push(remote, branch string) error
	PushSetUpstream(remote, branch string) error
	PushForceWithLease(remote, branch string) error
	RevListCount(rangeSpec string) (int, error)
	LogOneline(rangeSpec string) ([]CommitSummary, error)
	RemoteBranchExists(remote, branch string) (bool, error)
}

// FileOperations covers conflicted-file resolution primitives.
type FileOperations interface {
	ShowFile(ref, path string) (string, error)
	CheckoutOurs(path string) error
	CheckoutTheirs(path string) error
	RemoveFile(path string) error
	UnmergedStages(path string) ([]int, error)
}

// CommitSummary is a single one-line log entry (sha + subject).
type CommitSummary struct {
	SHA     string
	Subject string
}

// Runner is the complete git command surface gitline needs. Consumers
// should depend on the narrower interfaces above where possible.
type Runner interface {
	BranchOperations
	DiffOperations
	CommitOperations
	MergeOperations
	StashOperations
	RemoteOperations
	FileOperations
	// Run executes an arbitrary git command and returns trimmed combined output.
	Run(args ...string) (string, error)
	// RepoPath returns the repository root this runner operates on.
	RepoPath() string
}
