package rebase

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/repos/dependencies"
	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
	"github.com/temirov/hubkeeper/internal/repos/shared"
	flagutils "github.com/temirov/hubkeeper/internal/utils/flags"
)

const (
	commandUseConstant              = "rebase"
	commandShortDescriptionConstant = "Rebase release branches onto the base branch"
	commandLongDescriptionConstant  = "rebase fetches the remote once, then checks out each selected branch in sorted order, fast-forwards it when the remote copy is newer, and rebases it onto the base branch. The first conflict stops the run and leaves the repository mid-rebase."
	commandExampleConstant          = "hubkeeper rebase --all\nhubkeeper rebase -b v8.19 -b v8.20"
	allBranchesUsageConstant        = "Rebase every local and remote branch except HEAD and the base branch"
	branchUsageConstant             = "Branch to rebase (can be supplied multiple times)"
	missingSelectionMessageConstant = "rebase requires --all or at least one -b/--branch"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the rebase command.
type CommandBuilder struct {
	LoggerProvider                  LoggerProvider
	GitExecutor                     shared.GitExecutor
	VersionControl                  shared.VersionControl
	HumanReadableLoggingProvider    func() bool
	RepositoryConfigurationProvider func() branches.RepositoryConfiguration
}

// Build constructs the rebase command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.NoArgs,
	}
	selection := flagutils.BindBranchSelectionFlags(command, flagutils.BranchSelectionDefinition{
		AllUsage:    allBranchesUsageConstant,
		BranchUsage: branchUsageConstant,
	})
	command.RunE = func(command *cobra.Command, _ []string) error {
		return builder.run(command, *selection)
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, selection flagutils.BranchSelection) error {
	if selection.Empty() {
		return repoerrors.NewUsageError(missingSelectionMessageConstant)
	}

	repositoryConfiguration := builder.resolveRepositoryConfiguration()
	repositoryPath, pathError := branches.ResolveRepositoryPath(command.Context(), repositoryConfiguration)
	if pathError != nil {
		return pathError
	}

	versionControl, versionControlError := builder.resolveVersionControl()
	if versionControlError != nil {
		return versionControlError
	}

	service, serviceError := NewService(Dependencies{
		VersionControl: versionControl,
		Reporter:       shared.NewWriterReporter(command.ErrOrStderr()),
	})
	if serviceError != nil {
		return serviceError
	}

	_, rebaseError := service.Rebase(command.Context(), Options{
		RepositoryPath: repositoryPath,
		RemoteName:     repositoryConfiguration.RemoteName,
		BaseBranch:     repositoryConfiguration.BaseBranch,
		All:            selection.All,
		Branches:       selection.SelectedBranches(),
	})
	return rebaseError
}

func (builder *CommandBuilder) resolveVersionControl() (shared.VersionControl, error) {
	if builder.VersionControl != nil {
		return builder.VersionControl, nil
	}
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, builder.resolveLogger(), builder.humanReadableLogging())
	if executorError != nil {
		return nil, executorError
	}
	return dependencies.ResolveVersionControl(nil, gitExecutor)
}

func (builder *CommandBuilder) resolveRepositoryConfiguration() branches.RepositoryConfiguration {
	if builder.RepositoryConfigurationProvider == nil {
		return branches.DefaultRepositoryConfiguration()
	}
	return builder.RepositoryConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	return builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
