package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/hubkeeper/internal/execshell"
	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
	"github.com/temirov/hubkeeper/internal/repos/shared"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	repositoryPathRequiredMessageConstant       = "repository path must be provided"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	gitExecutableNameConstant                   = "git"

	gitFetchSubcommandConstant        = "fetch"
	gitForEachRefSubcommandConstant   = "for-each-ref"
	gitRevParseSubcommandConstant     = "rev-parse"
	gitRevListSubcommandConstant      = "rev-list"
	gitCheckoutSubcommandConstant     = "checkout"
	gitMergeSubcommandConstant        = "merge"
	gitRebaseSubcommandConstant       = "rebase"
	gitPushSubcommandConstant         = "push"
	gitBranchSubcommandConstant       = "branch"
	gitAddSubcommandConstant          = "add"
	gitDiffSubcommandConstant         = "diff"
	gitCommitSubcommandConstant       = "commit"
	gitLocalBranchFormatConstant      = "--format=%(refname:strip=2)"
	gitRemoteBranchFormatConstant     = "--format=%(refname:strip=3)"
	gitLocalBranchNamespaceConstant   = "refs/heads/"
	gitUpstreamFormatConstant         = "--format=%(upstream:short)"
	gitRemoteBranchNamespaceTemplate  = "refs/remotes/%s/"
	gitVerifyFlagConstant             = "--verify"
	gitQuietFlagConstant              = "--quiet"
	gitCommitPeelSuffixConstant       = "^{commit}"
	gitCountFlagConstant              = "--count"
	gitRangeSeparatorConstant         = ".."
	gitCreateBranchFlagConstant       = "-b"
	gitFastForwardOnlyFlagConstant    = "--ff-only"
	gitForceWithLeaseFlagConstant     = "--force-with-lease"
	gitSetUpstreamFlagConstant        = "--set-upstream"
	gitRefspecSeparatorConstant       = ":"
	gitVerboseVerboseFlagConstant     = "-vv"
	gitPathSeparatorArgumentConstant  = "--"
	gitCachedFlagConstant             = "--cached"
	gitMessageFlagConstant            = "-m"
	gitRefMissingExitCodeConstant     = 1
	gitDiffHasChangesExitCodeConstant = 1
	commandArgumentSeparatorConstant  = " "

	fetchErrorTemplate              = "failed to fetch %s: %w"
	listLocalBranchesErrorTemplate  = "failed to list local branches: %w"
	listRemoteBranchesErrorTemplate = "failed to list branches of remote %s: %w"
	verifyReferenceErrorTemplate    = "failed to verify reference %q: %w"
	countCommitsErrorTemplate       = "failed to count commits in %s: %w"
	parseCommitCountErrorTemplate   = "unexpected commit count %q for %s: %w"
	upstreamErrorTemplate           = "failed to resolve upstream of %s: %w"
	checkoutErrorTemplate           = "failed to check out %s: %w"
	createBranchErrorTemplate       = "failed to create branch %s from %s: %w"
	fastForwardErrorTemplate        = "failed to fast-forward to %s: %w"
	rebaseErrorTemplate             = "failed to rebase onto %s: %w"
	pushErrorTemplate               = "failed to push %s to %s: %w"
	describeBranchesErrorTemplate   = "failed to describe branches: %w"
	stageErrorTemplate              = "failed to stage %s: %w"
	stagedChangesErrorTemplate      = "failed to inspect staged changes: %w"
	commitErrorTemplate             = "failed to commit: %w"
)

// ErrGitExecutorNotConfigured indicates NewRepository received a nil executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryPathRequired indicates an operation was called without a repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// Repository implements shared.VersionControl by shelling out to git.
type Repository struct {
	executor shared.GitExecutor
}

// NewRepository constructs a Repository around the provided executor.
func NewRepository(executor shared.GitExecutor) (*Repository, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Repository{executor: executor}, nil
}

// PushArguments returns the git arguments used to publish a branch under its own name.
func PushArguments(remoteName string, branchName string) []string {
	return []string{
		gitPushSubcommandConstant,
		gitForceWithLeaseFlagConstant,
		gitSetUpstreamFlagConstant,
		remoteName,
		branchName + gitRefspecSeparatorConstant + branchName,
	}
}

// FormatPushCommand renders the push command line an operator can run by hand.
func FormatPushCommand(remoteName string, branchName string) string {
	return gitExecutableNameConstant + commandArgumentSeparatorConstant + strings.Join(PushArguments(remoteName, branchName), commandArgumentSeparatorConstant)
}

// RemoteReference joins a remote and a branch into a remote-tracking ref name.
func RemoteReference(remoteName string, branchName string) string {
	return remoteName + "/" + branchName
}

// Fetch updates remote-tracking refs from the remote.
func (repository *Repository) Fetch(executionContext context.Context, repositoryPath string, remoteName string) error {
	if _, executionError := repository.run(executionContext, repositoryPath, nil, gitFetchSubcommandConstant, remoteName); executionError != nil {
		return fmt.Errorf(fetchErrorTemplate, remoteName, executionError)
	}
	return nil
}

// ListLocalBranches returns the names under refs/heads in git's order.
func (repository *Repository) ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	result, executionError := repository.run(executionContext, repositoryPath, nil, gitForEachRefSubcommandConstant, gitLocalBranchFormatConstant, gitLocalBranchNamespaceConstant)
	if executionError != nil {
		return nil, fmt.Errorf(listLocalBranchesErrorTemplate, executionError)
	}
	return splitLines(result.StandardOutput), nil
}

// ListRemoteBranches returns the remote-tracking branch names of remoteName without the remote prefix.
// The list reflects the last fetch.
func (repository *Repository) ListRemoteBranches(executionContext context.Context, repositoryPath string, remoteName string) ([]string, error) {
	result, executionError := repository.run(executionContext, repositoryPath, nil, gitForEachRefSubcommandConstant, gitRemoteBranchFormatConstant, fmt.Sprintf(gitRemoteBranchNamespaceTemplate, remoteName))
	if executionError != nil {
		return nil, fmt.Errorf(listRemoteBranchesErrorTemplate, remoteName, executionError)
	}
	return splitLines(result.StandardOutput), nil
}

// IsAheadOf reports whether baseReference..reference is non-empty.
// Both refs are verified first; a missing one yields repoerrors.RefNotFoundError.
func (repository *Repository) IsAheadOf(executionContext context.Context, repositoryPath string, reference string, baseReference string) (bool, error) {
	for _, candidate := range []string{reference, baseReference} {
		if verifyError := repository.verifyReference(executionContext, repositoryPath, candidate); verifyError != nil {
			return false, verifyError
		}
	}

	commitRange := baseReference + gitRangeSeparatorConstant + reference
	result, executionError := repository.run(executionContext, repositoryPath, nil, gitRevListSubcommandConstant, gitCountFlagConstant, commitRange)
	if executionError != nil {
		return false, fmt.Errorf(countCommitsErrorTemplate, commitRange, executionError)
	}

	trimmedCount := strings.TrimSpace(result.StandardOutput)
	commitCount, parseError := strconv.Atoi(trimmedCount)
	if parseError != nil {
		return false, fmt.Errorf(parseCommitCountErrorTemplate, trimmedCount, commitRange, parseError)
	}
	return commitCount > 0, nil
}

// UpstreamOf returns the short name of the branch's upstream, empty when no upstream is configured.
func (repository *Repository) UpstreamOf(executionContext context.Context, repositoryPath string, branchName string) (string, error) {
	result, executionError := repository.run(executionContext, repositoryPath, nil, gitForEachRefSubcommandConstant, gitUpstreamFormatConstant, gitLocalBranchNamespaceConstant+branchName)
	if executionError != nil {
		return "", fmt.Errorf(upstreamErrorTemplate, branchName, executionError)
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// Checkout switches the working tree to branchName.
func (repository *Repository) Checkout(executionContext context.Context, repositoryPath string, branchName string) error {
	if _, executionError := repository.run(executionContext, repositoryPath, nil, gitCheckoutSubcommandConstant, branchName); executionError != nil {
		return fmt.Errorf(checkoutErrorTemplate, branchName, executionError)
	}
	return nil
}

// CreateBranch creates branchName at startPoint and checks it out.
func (repository *Repository) CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error {
	if _, executionError := repository.run(executionContext, repositoryPath, nil, gitCheckoutSubcommandConstant, gitCreateBranchFlagConstant, branchName, startPoint); executionError != nil {
		return fmt.Errorf(createBranchErrorTemplate, branchName, startPoint, executionError)
	}
	return nil
}

// FastForward advances the checked-out branch to targetReference and refuses to create merge commits.
func (repository *Repository) FastForward(executionContext context.Context, repositoryPath string, targetReference string) error {
	if _, executionError := repository.run(executionContext, repositoryPath, nil, gitMergeSubcommandConstant, gitFastForwardOnlyFlagConstant, targetReference); executionError != nil {
		return fmt.Errorf(fastForwardErrorTemplate, targetReference, executionError)
	}
	return nil
}

// Rebase replays the checked-out branch onto upstreamReference.
// A conflict leaves the repository mid-rebase.
func (repository *Repository) Rebase(executionContext context.Context, repositoryPath string, upstreamReference string) error {
	if _, executionError := repository.run(executionContext, repositoryPath, nil, gitRebaseSubcommandConstant, upstreamReference); executionError != nil {
		return fmt.Errorf(rebaseErrorTemplate, upstreamReference, executionError)
	}
	return nil
}

// Push publishes branchName to remoteName with a lease and records the upstream.
func (repository *Repository) Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	if _, executionError := repository.run(executionContext, repositoryPath, nil, PushArguments(remoteName, branchName)...); executionError != nil {
		return fmt.Errorf(pushErrorTemplate, branchName, remoteName, executionError)
	}
	return nil
}

// DescribeBranches returns the verbose tracking summary printed by git branch -vv.
func (repository *Repository) DescribeBranches(executionContext context.Context, repositoryPath string) (string, error) {
	result, executionError := repository.run(executionContext, repositoryPath, nil, gitBranchSubcommandConstant, gitVerboseVerboseFlagConstant)
	if executionError != nil {
		return "", fmt.Errorf(describeBranchesErrorTemplate, executionError)
	}
	return result.StandardOutput, nil
}

// Stage adds the given paths to the index.
func (repository *Repository) Stage(executionContext context.Context, repositoryPath string, filePaths ...string) error {
	arguments := append([]string{gitAddSubcommandConstant, gitPathSeparatorArgumentConstant}, filePaths...)
	if _, executionError := repository.run(executionContext, repositoryPath, nil, arguments...); executionError != nil {
		return fmt.Errorf(stageErrorTemplate, strings.Join(filePaths, ", "), executionError)
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func (repository *Repository) HasStagedChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	result, executionError := repository.run(executionContext, repositoryPath, []int{gitDiffHasChangesExitCodeConstant}, gitDiffSubcommandConstant, gitCachedFlagConstant, gitQuietFlagConstant)
	if executionError != nil {
		return false, fmt.Errorf(stagedChangesErrorTemplate, executionError)
	}
	return result.ExitCode == gitDiffHasChangesExitCodeConstant, nil
}

// Commit records the index with message.
func (repository *Repository) Commit(executionContext context.Context, repositoryPath string, message string) error {
	if _, executionError := repository.run(executionContext, repositoryPath, nil, gitCommitSubcommandConstant, gitMessageFlagConstant, message); executionError != nil {
		return fmt.Errorf(commitErrorTemplate, executionError)
	}
	return nil
}

func (repository *Repository) verifyReference(executionContext context.Context, repositoryPath string, reference string) error {
	result, executionError := repository.run(executionContext, repositoryPath, []int{gitRefMissingExitCodeConstant}, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, reference+gitCommitPeelSuffixConstant)
	if executionError != nil {
		return fmt.Errorf(verifyReferenceErrorTemplate, reference, executionError)
	}
	if result.ExitCode == gitRefMissingExitCodeConstant {
		return repoerrors.RefNotFoundError{Reference: reference, RepositoryPath: repositoryPath}
	}
	return nil
}

func (repository *Repository) run(executionContext context.Context, repositoryPath string, acceptedExitCodes []int, arguments ...string) (execshell.ExecutionResult, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return execshell.ExecutionResult{}, ErrRepositoryPathRequired
	}
	return repository.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:         arguments,
		WorkingDirectory:  trimmedRepositoryPath,
		AcceptedExitCodes: acceptedExitCodes,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
}

func splitLines(output string) []string {
	lines := strings.Split(output, "\n")
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		names = append(names, trimmedLine)
	}
	return names
}
