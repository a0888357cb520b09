package shared

import (
	"context"
	"time"

	"github.com/temirov/hubkeeper/internal/execshell"
)

const (
	// DefaultRemoteNameConstant identifies the remote the build service watches.
	DefaultRemoteNameConstant = "origin"
	// DefaultBaseBranchConstant identifies the branch every release branch is rebased onto.
	DefaultBaseBranchConstant = "master"
	// HeadReferenceNameConstant is the symbolic ref that for-each-ref reports for remote HEAD pointers.
	HeadReferenceNameConstant = "HEAD"
)

// GitExecutor exposes the subset of shell execution used for git.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CurlExecutor exposes the subset of shell execution used for HTTP requests.
type CurlExecutor interface {
	ExecuteCurl(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// VersionControl exposes the repository operations hubkeeper orchestrates.
type VersionControl interface {
	Fetch(executionContext context.Context, repositoryPath string, remoteName string) error
	ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error)
	ListRemoteBranches(executionContext context.Context, repositoryPath string, remoteName string) ([]string, error)
	// IsAheadOf reports whether reference contains commits that baseReference lacks.
	// A missing ref yields errors.RefNotFoundError.
	IsAheadOf(executionContext context.Context, repositoryPath string, reference string, baseReference string) (bool, error)
	// UpstreamOf returns the configured upstream of branchName, or an empty string when none is set.
	UpstreamOf(executionContext context.Context, repositoryPath string, branchName string) (string, error)
	Checkout(executionContext context.Context, repositoryPath string, branchName string) error
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error
	FastForward(executionContext context.Context, repositoryPath string, targetReference string) error
	Rebase(executionContext context.Context, repositoryPath string, upstreamReference string) error
	Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
	DescribeBranches(executionContext context.Context, repositoryPath string) (string, error)
	Stage(executionContext context.Context, repositoryPath string, filePaths ...string) error
	HasStagedChanges(executionContext context.Context, repositoryPath string) (bool, error)
	Commit(executionContext context.Context, repositoryPath string, message string) error
}

// Sleeper pauses between rate-limited actions.
type Sleeper interface {
	Sleep(executionContext context.Context, duration time.Duration) error
}

// SystemSleeper waits on a timer and stops early when the context is cancelled.
type SystemSleeper struct{}

// Sleep blocks for duration or until the context is done.
func (SystemSleeper) Sleep(executionContext context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-timer.C:
		return nil
	}
}
