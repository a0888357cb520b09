// Package rebase replays release branches onto the base branch one at a time.
package rebase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/gitrepo"
	"github.com/temirov/hubkeeper/internal/repos/shared"
)

const (
	versionControlMissingMessageConstant  = "version control not configured"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	rebaseConflictTemplateConstant        = "rebase of %s stopped; resolve the conflict in the repository or run \"git rebase --abort\": %v"
	rebaseFailureTemplateConstant         = "rebase %s: %w"
	fetchFailureTemplateConstant          = "rebase: %w"
	targetsMessageTemplateConstant        = "Branches to rebase: %s\n"
	branchMessageTemplateConstant         = "- Rebasing %s on %s...\n"
	targetListSeparatorConstant           = ", "
)

// ErrVersionControlNotConfigured indicates the version control dependency was missing.
var ErrVersionControlNotConfigured = errors.New(versionControlMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// RebaseConflictError reports the branch whose rebase failed. The repository is left mid-rebase.
type RebaseConflictError struct {
	Branch string
	Cause  error
}

// Error names the branch and the underlying failure.
func (conflictError RebaseConflictError) Error() string {
	return fmt.Sprintf(rebaseConflictTemplateConstant, conflictError.Branch, conflictError.Cause)
}

// Unwrap returns the failing git command error.
func (conflictError RebaseConflictError) Unwrap() error {
	return conflictError.Cause
}

// Dependencies enumerates collaborators required to rebase branches.
type Dependencies struct {
	VersionControl shared.VersionControl
	Reporter       shared.Reporter
}

// Options configures a rebase run.
type Options struct {
	RepositoryPath string
	RemoteName     string
	BaseBranch     string
	// All selects every local and remote branch; otherwise Branches are used.
	All      bool
	Branches []string
}

// Result lists the branches that were rebased, in order.
type Result struct {
	Targets       []string
	Rebased       []string
	FastForwarded []string
}

// Service rebases release branches onto the base branch.
type Service struct {
	versionControl shared.VersionControl
	reporter       shared.Reporter
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.VersionControl == nil {
		return nil, ErrVersionControlNotConfigured
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	return &Service{versionControl: dependencies.VersionControl, reporter: reporter}, nil
}

// Rebase fetches once, then for each target in sorted order checks it out, fast-forwards it
// when only the remote tracking branch has new commits, and rebases it onto the base branch.
// The first failing rebase stops the run with a RebaseConflictError.
func (service *Service) Rebase(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	if fetchError := service.versionControl.Fetch(executionContext, repositoryPath, options.RemoteName); fetchError != nil {
		return Result{}, fmt.Errorf(fetchFailureTemplateConstant, fetchError)
	}

	targets, targetsError := service.resolveTargets(executionContext, repositoryPath, options)
	if targetsError != nil {
		return Result{}, targetsError
	}
	service.reporter.Printf(targetsMessageTemplateConstant, strings.Join(targets, targetListSeparatorConstant))

	result := Result{Targets: targets}
	for _, branchName := range targets {
		remoteReference := gitrepo.RemoteReference(options.RemoteName, branchName)

		if checkoutError := service.versionControl.Checkout(executionContext, repositoryPath, branchName); checkoutError != nil {
			return result, fmt.Errorf(rebaseFailureTemplateConstant, branchName, checkoutError)
		}

		remoteNewer, comparisonError := branches.NeedsFastForward(executionContext, service.versionControl, repositoryPath, branchName, remoteReference)
		if comparisonError != nil {
			return result, fmt.Errorf(rebaseFailureTemplateConstant, branchName, comparisonError)
		}
		source := branchName
		if remoteNewer {
			source = remoteReference
		}
		service.reporter.Printf(branchMessageTemplateConstant, source, options.BaseBranch)

		if remoteNewer {
			if mergeError := service.versionControl.FastForward(executionContext, repositoryPath, remoteReference); mergeError != nil {
				return result, fmt.Errorf(rebaseFailureTemplateConstant, branchName, mergeError)
			}
			result.FastForwarded = append(result.FastForwarded, branchName)
		}

		if rebaseError := service.versionControl.Rebase(executionContext, repositoryPath, options.BaseBranch); rebaseError != nil {
			return result, RebaseConflictError{Branch: branchName, Cause: rebaseError}
		}
		result.Rebased = append(result.Rebased, branchName)
	}
	return result, nil
}

func (service *Service) resolveTargets(executionContext context.Context, repositoryPath string, options Options) ([]string, error) {
	sentinels := []string{shared.HeadReferenceNameConstant, options.BaseBranch}
	if !options.All {
		return branches.Normalize(sentinels, slices.Clone(options.Branches)), nil
	}

	localBranches, localError := service.versionControl.ListLocalBranches(executionContext, repositoryPath)
	if localError != nil {
		return nil, fmt.Errorf(fetchFailureTemplateConstant, localError)
	}
	remoteBranches, remoteError := service.versionControl.ListRemoteBranches(executionContext, repositoryPath, options.RemoteName)
	if remoteError != nil {
		return nil, fmt.Errorf(fetchFailureTemplateConstant, remoteError)
	}
	return branches.Normalize(sentinels, localBranches, remoteBranches), nil
}
