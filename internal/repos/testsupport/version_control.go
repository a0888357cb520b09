// Package testsupport provides in-memory collaborators for hubkeeper service tests.
package testsupport

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/temirov/hubkeeper/internal/execshell"
	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
	"github.com/temirov/hubkeeper/internal/repos/shared"
)

const (
	callSeparatorConstant = " "
	rangeSeparator        = ".."
)

var mutatingCallPrefixes = []string{"checkout", "merge", "rebase", "push", "add", "commit"}

// FakeVersionControl implements shared.VersionControl in memory and records every call
// in git argument form, for example "checkout -b v3 master" or "rebase master".
type FakeVersionControl struct {
	RemoteName     string
	LocalBranches  []string
	RemoteBranches []string
	// Ahead lists git ranges "base..reference" that contain commits.
	Ahead map[string]bool
	// Upstreams maps local branches to their configured upstream.
	Upstreams     map[string]string
	BranchSummary string
	StagedChanges bool
	// Failures maps a recorded call to the error it returns.
	Failures map[string]error
	// RebaseFailures maps a branch name to the error returned when it is rebased.
	RebaseFailures map[string]error

	CurrentBranch   string
	RepositoryPaths []string
	Calls           []string
}

// NewFakeVersionControl constructs a fake with the default remote and the given branch lists.
func NewFakeVersionControl(localBranches []string, remoteBranches []string) *FakeVersionControl {
	return &FakeVersionControl{
		RemoteName:     shared.DefaultRemoteNameConstant,
		LocalBranches:  slices.Clone(localBranches),
		RemoteBranches: slices.Clone(remoteBranches),
		Ahead:          map[string]bool{},
		Upstreams:      map[string]string{},
		Failures:       map[string]error{},
		RebaseFailures: map[string]error{},
	}
}

// MutatingCalls returns the recorded calls that change the repository or its remote.
func (fake *FakeVersionControl) MutatingCalls() []string {
	mutating := make([]string, 0, len(fake.Calls))
	for _, call := range fake.Calls {
		for _, prefix := range mutatingCallPrefixes {
			if strings.HasPrefix(call, prefix+callSeparatorConstant) {
				mutating = append(mutating, call)
				break
			}
		}
	}
	return mutating
}

// Fetch records the fetch.
func (fake *FakeVersionControl) Fetch(_ context.Context, repositoryPath string, remoteName string) error {
	return fake.record(repositoryPath, "fetch", remoteName)
}

// ListLocalBranches returns LocalBranches.
func (fake *FakeVersionControl) ListLocalBranches(_ context.Context, repositoryPath string) ([]string, error) {
	if recordError := fake.record(repositoryPath, "for-each-ref", "refs/heads/"); recordError != nil {
		return nil, recordError
	}
	return slices.Clone(fake.LocalBranches), nil
}

// ListRemoteBranches returns RemoteBranches.
func (fake *FakeVersionControl) ListRemoteBranches(_ context.Context, repositoryPath string, remoteName string) ([]string, error) {
	if recordError := fake.record(repositoryPath, "for-each-ref", "refs/remotes/"+remoteName+"/"); recordError != nil {
		return nil, recordError
	}
	return slices.Clone(fake.RemoteBranches), nil
}

// IsAheadOf consults Ahead after checking that both refs exist.
// Local branches and <RemoteName>/<remote branch> refs exist; anything else is missing.
func (fake *FakeVersionControl) IsAheadOf(_ context.Context, repositoryPath string, reference string, baseReference string) (bool, error) {
	commitRange := baseReference + rangeSeparator + reference
	if recordError := fake.record(repositoryPath, "rev-list", "--count", commitRange); recordError != nil {
		return false, recordError
	}
	for _, candidate := range []string{reference, baseReference} {
		if !fake.referenceExists(candidate) {
			return false, repoerrors.RefNotFoundError{Reference: candidate, RepositoryPath: repositoryPath}
		}
	}
	if reference == baseReference {
		return false, nil
	}
	return fake.Ahead[commitRange], nil
}

// UpstreamOf returns the configured upstream from Upstreams.
func (fake *FakeVersionControl) UpstreamOf(_ context.Context, repositoryPath string, branchName string) (string, error) {
	if recordError := fake.record(repositoryPath, "for-each-ref", "--format=%(upstream:short)", "refs/heads/"+branchName); recordError != nil {
		return "", recordError
	}
	return fake.Upstreams[branchName], nil
}

// Checkout records the switch and updates CurrentBranch.
func (fake *FakeVersionControl) Checkout(_ context.Context, repositoryPath string, branchName string) error {
	if recordError := fake.record(repositoryPath, "checkout", branchName); recordError != nil {
		return recordError
	}
	fake.CurrentBranch = branchName
	return nil
}

// CreateBranch records the creation, adds the branch locally, and checks it out.
func (fake *FakeVersionControl) CreateBranch(_ context.Context, repositoryPath string, branchName string, startPoint string) error {
	if recordError := fake.record(repositoryPath, "checkout", "-b", branchName, startPoint); recordError != nil {
		return recordError
	}
	fake.LocalBranches = append(fake.LocalBranches, branchName)
	fake.CurrentBranch = branchName
	return nil
}

// FastForward records the fast-forward.
func (fake *FakeVersionControl) FastForward(_ context.Context, repositoryPath string, targetReference string) error {
	return fake.record(repositoryPath, "merge", "--ff-only", targetReference)
}

// Rebase records the rebase and returns RebaseFailures[CurrentBranch] when set.
func (fake *FakeVersionControl) Rebase(_ context.Context, repositoryPath string, upstreamReference string) error {
	if recordError := fake.record(repositoryPath, "rebase", upstreamReference); recordError != nil {
		return recordError
	}
	return fake.RebaseFailures[fake.CurrentBranch]
}

// Push records the push.
func (fake *FakeVersionControl) Push(_ context.Context, repositoryPath string, remoteName string, branchName string) error {
	return fake.record(repositoryPath, "push", remoteName, branchName+":"+branchName)
}

// DescribeBranches returns BranchSummary.
func (fake *FakeVersionControl) DescribeBranches(_ context.Context, repositoryPath string) (string, error) {
	if recordError := fake.record(repositoryPath, "branch", "-vv"); recordError != nil {
		return "", recordError
	}
	return fake.BranchSummary, nil
}

// Stage records the paths.
func (fake *FakeVersionControl) Stage(_ context.Context, repositoryPath string, filePaths ...string) error {
	return fake.record(repositoryPath, append([]string{"add", "--"}, filePaths...)...)
}

// HasStagedChanges returns StagedChanges.
func (fake *FakeVersionControl) HasStagedChanges(_ context.Context, repositoryPath string) (bool, error) {
	if recordError := fake.record(repositoryPath, "diff", "--cached", "--quiet"); recordError != nil {
		return false, recordError
	}
	return fake.StagedChanges, nil
}

// Commit records the commit message.
func (fake *FakeVersionControl) Commit(_ context.Context, repositoryPath string, message string) error {
	return fake.record(repositoryPath, "commit", "-m", message)
}

func (fake *FakeVersionControl) referenceExists(reference string) bool {
	if slices.Contains(fake.LocalBranches, reference) {
		return true
	}
	remotePrefix := fake.RemoteName + "/"
	if !strings.HasPrefix(reference, remotePrefix) {
		return false
	}
	return slices.Contains(fake.RemoteBranches, strings.TrimPrefix(reference, remotePrefix))
}

func (fake *FakeVersionControl) record(repositoryPath string, arguments ...string) error {
	call := strings.Join(arguments, callSeparatorConstant)
	fake.Calls = append(fake.Calls, call)
	fake.RepositoryPaths = append(fake.RepositoryPaths, repositoryPath)
	return fake.Failures[call]
}

// RecordingSleeper captures requested pauses without waiting.
// When Journal is set, each pause is also appended to its Calls as "sleep <duration>".
type RecordingSleeper struct {
	Durations []time.Duration
	Journal   *FakeVersionControl
	Error     error
}

// Sleep records the duration.
func (sleeper *RecordingSleeper) Sleep(_ context.Context, duration time.Duration) error {
	sleeper.Durations = append(sleeper.Durations, duration)
	if sleeper.Journal != nil {
		sleeper.Journal.Calls = append(sleeper.Journal.Calls, "sleep "+duration.String())
	}
	return sleeper.Error
}

// CurlResponse configures one RecordingCurlExecutor reply.
type CurlResponse struct {
	Result execshell.ExecutionResult
	Error  error
}

// RecordingCurlExecutor records curl invocations and replays Responses in order.
// Once Responses is exhausted every call succeeds.
type RecordingCurlExecutor struct {
	Responses        []CurlResponse
	RecordedCommands []execshell.CommandDetails
}

// ExecuteCurl records the invocation.
func (executor *RecordingCurlExecutor) ExecuteCurl(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.RecordedCommands = append(executor.RecordedCommands, details)
	if len(executor.Responses) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	response := executor.Responses[0]
	executor.Responses = executor.Responses[1:]
	return response.Result, response.Error
}
