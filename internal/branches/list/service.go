package list

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/repos/shared"
)

const (
	versionControlMissingMessageConstant  = "version control not configured"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	fetchFailureTemplateConstant          = "branches: %w"
	enumerationFailureTemplateConstant    = "branches: %w"
)

// ErrVersionControlNotConfigured indicates the version control dependency was missing.
var ErrVersionControlNotConfigured = errors.New(versionControlMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// Dependencies enumerates collaborators required to list branches.
type Dependencies struct {
	VersionControl shared.VersionControl
}

// Options configures a listing.
type Options struct {
	RepositoryPath string
	RemoteName     string
}

// Result carries the sorted branch union and git's tracking summary.
type Result struct {
	Branches        []string
	TrackingSummary string
}

// Service lists the branches known locally and on the remote.
type Service struct {
	versionControl shared.VersionControl
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.VersionControl == nil {
		return nil, ErrVersionControlNotConfigured
	}
	return &Service{versionControl: dependencies.VersionControl}, nil
}

// List fetches the remote and returns local ∪ remote branches without HEAD, plus the branch -vv summary.
// It never changes the working tree.
func (service *Service) List(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	if fetchError := service.versionControl.Fetch(executionContext, repositoryPath, options.RemoteName); fetchError != nil {
		return Result{}, fmt.Errorf(fetchFailureTemplateConstant, fetchError)
	}

	localBranches, localError := service.versionControl.ListLocalBranches(executionContext, repositoryPath)
	if localError != nil {
		return Result{}, fmt.Errorf(enumerationFailureTemplateConstant, localError)
	}
	remoteBranches, remoteError := service.versionControl.ListRemoteBranches(executionContext, repositoryPath, options.RemoteName)
	if remoteError != nil {
		return Result{}, fmt.Errorf(enumerationFailureTemplateConstant, remoteError)
	}

	trackingSummary, describeError := service.versionControl.DescribeBranches(executionContext, repositoryPath)
	if describeError != nil {
		return Result{}, fmt.Errorf(enumerationFailureTemplateConstant, describeError)
	}

	return Result{
		Branches:        branches.Normalize([]string{shared.HeadReferenceNameConstant}, localBranches, remoteBranches),
		TrackingSummary: trackingSummary,
	}, nil
}
