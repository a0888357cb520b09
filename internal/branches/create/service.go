package create

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/gitrepo"
	"github.com/temirov/hubkeeper/internal/repos/shared"
)

const (
	versionControlMissingMessageConstant  = "version control not configured"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	createFailureTemplateConstant         = "create %s: %w"
	baseRefreshFailureTemplateConstant    = "create %s: refresh %s: %w"
	hookFailureTemplateConstant           = "create %s: hook: %w"
)

// ErrVersionControlNotConfigured indicates the version control dependency was missing.
var ErrVersionControlNotConfigured = errors.New(versionControlMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// Dependencies enumerates collaborators required to create branches.
type Dependencies struct {
	VersionControl shared.VersionControl
	FileSystem     afero.Fs
}

// Options configures a single branch creation.
type Options struct {
	RepositoryPath string
	RemoteName     string
	BaseBranch     string
	BranchName     shared.BranchName
	Hook           HookConfiguration
}

// Result summarizes the creation.
type Result struct {
	RepositoryPath    string
	BranchName        string
	BaseFastForwarded bool
	HookFile          string
	HookCommitted     bool
}

// Service creates release branches.
type Service struct {
	versionControl shared.VersionControl
	hook           *FileEditHook
}

// NewService constructs a Service. The OS filesystem backs the hook unless another is supplied.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.VersionControl == nil {
		return nil, ErrVersionControlNotConfigured
	}
	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	hook, hookError := NewFileEditHook(fileSystem)
	if hookError != nil {
		return nil, hookError
	}
	return &Service{versionControl: dependencies.VersionControl, hook: hook}, nil
}

// Create fetches, fast-forwards the base branch when the remote copy is ahead,
// and checks out a new branch from it. A configured hook then edits and commits one file.
func (service *Service) Create(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}
	branchName := options.BranchName.String()
	remoteName := options.RemoteName
	baseBranch := options.BaseBranch

	if fetchError := service.versionControl.Fetch(executionContext, repositoryPath, remoteName); fetchError != nil {
		return Result{}, fmt.Errorf(createFailureTemplateConstant, branchName, fetchError)
	}

	result := Result{RepositoryPath: repositoryPath, BranchName: branchName}

	remoteBase := gitrepo.RemoteReference(remoteName, baseBranch)
	remoteNewer, comparisonError := branches.NeedsFastForward(executionContext, service.versionControl, repositoryPath, baseBranch, remoteBase)
	if comparisonError != nil {
		return Result{}, fmt.Errorf(baseRefreshFailureTemplateConstant, branchName, baseBranch, comparisonError)
	}
	if remoteNewer {
		if checkoutError := service.versionControl.Checkout(executionContext, repositoryPath, baseBranch); checkoutError != nil {
			return Result{}, fmt.Errorf(baseRefreshFailureTemplateConstant, branchName, baseBranch, checkoutError)
		}
		if mergeError := service.versionControl.FastForward(executionContext, repositoryPath, remoteBase); mergeError != nil {
			return Result{}, fmt.Errorf(baseRefreshFailureTemplateConstant, branchName, baseBranch, mergeError)
		}
		result.BaseFastForwarded = true
	}

	if createError := service.versionControl.CreateBranch(executionContext, repositoryPath, branchName, baseBranch); createError != nil {
		return Result{}, fmt.Errorf(createFailureTemplateConstant, branchName, createError)
	}

	if !options.Hook.Enabled() {
		return result, nil
	}

	hookResult, hookError := service.hook.Apply(options.Hook, HookData{
		BranchName:     branchName,
		BaseBranch:     baseBranch,
		RepositoryPath: repositoryPath,
	})
	if hookError != nil {
		return Result{}, fmt.Errorf(hookFailureTemplateConstant, branchName, hookError)
	}
	result.HookFile = hookResult.FilePath

	if stageError := service.versionControl.Stage(executionContext, repositoryPath, hookResult.FilePath); stageError != nil {
		return Result{}, fmt.Errorf(hookFailureTemplateConstant, branchName, stageError)
	}
	staged, stagedError := service.versionControl.HasStagedChanges(executionContext, repositoryPath)
	if stagedError != nil {
		return Result{}, fmt.Errorf(hookFailureTemplateConstant, branchName, stagedError)
	}
	if !staged {
		return result, nil
	}
	if commitError := service.versionControl.Commit(executionContext, repositoryPath, hookResult.CommitMessage); commitError != nil {
		return Result{}, fmt.Errorf(hookFailureTemplateConstant, branchName, commitError)
	}
	result.HookCommitted = true
	return result, nil
}
