// Package push publishes local branches that carry commits their remote copies lack.
package push

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/gitrepo"
	"github.com/temirov/hubkeeper/internal/repos/shared"
)

const (
	versionControlMissingMessageConstant  = "version control not configured"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	pushFailureTemplateConstant           = "push %s: %w"
	enumerationFailureTemplateConstant    = "push: %w"
	candidatesMessageTemplateConstant     = "Local branches: %s\n"
	candidateListSeparatorConstant        = ", "
)

// ErrVersionControlNotConfigured indicates the version control dependency was missing.
var ErrVersionControlNotConfigured = errors.New(versionControlMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// Dependencies enumerates collaborators required to publish branches.
type Dependencies struct {
	VersionControl shared.VersionControl
	Sleeper        shared.Sleeper
	Reporter       shared.Reporter
}

// Options configures a push run.
type Options struct {
	RepositoryPath string
	RemoteName     string
	DryRun         bool
	Delay          time.Duration
}

// Result lists what the run found and did.
type Result struct {
	Candidates []string
	Ahead      []string
	// PlannedCommands holds the rendered push commands of a dry run.
	PlannedCommands []string
	Pushed          []string
}

// Service publishes branches ahead of the remote.
type Service struct {
	versionControl shared.VersionControl
	sleeper        shared.Sleeper
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
	return &Service{
		versionControl: dependencies.VersionControl,
		sleeper:        dependencies.Sleeper,
		reporter:       reporter,
	}, nil
}

// Push collects local branches ahead of <remote>/<branch>, where a missing remote branch counts as ahead.
// A dry run only renders the push commands. Otherwise each branch is force-pushed with lease,
// pausing for the delay between consecutive pushes.
func (service *Service) Push(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	localBranches, localError := service.versionControl.ListLocalBranches(executionContext, repositoryPath)
	if localError != nil {
		return Result{}, fmt.Errorf(enumerationFailureTemplateConstant, localError)
	}
	candidates := branches.Normalize([]string{shared.HeadReferenceNameConstant}, localBranches)
	service.reporter.Printf(candidatesMessageTemplateConstant, strings.Join(candidates, candidateListSeparatorConstant))

	result := Result{Candidates: candidates}
	for _, branchName := range candidates {
		localNewer, comparisonError := branches.LocalIsNewer(executionContext, service.versionControl, repositoryPath, branchName, gitrepo.RemoteReference(options.RemoteName, branchName))
		if comparisonError != nil {
			return result, fmt.Errorf(pushFailureTemplateConstant, branchName, comparisonError)
		}
		if localNewer {
			result.Ahead = append(result.Ahead, branchName)
		}
	}

	if options.DryRun {
		for _, branchName := range result.Ahead {
			result.PlannedCommands = append(result.PlannedCommands, gitrepo.FormatPushCommand(options.RemoteName, branchName))
		}
		return result, nil
	}

	sleeper := service.sleeper
	if sleeper == nil {
		sleeper = shared.SystemSleeper{}
	}
	for branchIndex, branchName := range result.Ahead {
		if branchIndex > 0 {
			if sleepError := sleeper.Sleep(executionContext, options.Delay); sleepError != nil {
				return result, sleepError
			}
		}
		if pushError := service.versionControl.Push(executionContext, repositoryPath, options.RemoteName, branchName); pushError != nil {
			return result, fmt.Errorf(pushFailureTemplateConstant, branchName, pushError)
		}
		result.Pushed = append(result.Pushed, branchName)
	}
	return result, nil
}
