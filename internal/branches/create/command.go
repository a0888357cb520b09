package create

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/repos/dependencies"
	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
	"github.com/temirov/hubkeeper/internal/repos/shared"
)

const (
	commandUseConstant              = "create NAME"
	commandShortDescriptionConstant = "Create a release branch from the base branch"
	commandLongDescriptionConstant  = "create fetches the remote, fast-forwards the base branch when the remote copy is newer, then creates and checks out NAME from it. A configured hook may edit and commit one tracked file on the new branch."
	commandExampleConstant          = "hubkeeper create v8.20"
	missingNameMessageConstant      = "create requires exactly one branch NAME"
	invalidNameTemplateConstant     = "invalid branch name %q: %v"
	baseFastForwardTemplateConstant = "Fast-forwarded %s to %s/%s"
	hookCommittedTemplateConstant   = "Committed hook changes to %s"
	guidanceTemplateConstant        = "Please \"cd %s\" and inspect branch %s\nbefore running \"%s push -n\""
	programNameFallbackConstant     = "hubkeeper"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the create command.
type CommandBuilder struct {
	LoggerProvider                  LoggerProvider
	GitExecutor                     shared.GitExecutor
	VersionControl                  shared.VersionControl
	FileSystem                      afero.Fs
	HumanReadableLoggingProvider    func() bool
	RepositoryConfigurationProvider func() branches.RepositoryConfiguration
	ConfigurationProvider           func() CommandConfiguration
}

// Build constructs the create command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return repoerrors.NewUsageError(missingNameMessageConstant)
	}
	branchName, nameError := shared.NewBranchName(arguments[0])
	if nameError != nil {
		return repoerrors.NewUsageError(fmt.Sprintf(invalidNameTemplateConstant, arguments[0], nameError))
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

	service, serviceError := NewService(Dependencies{VersionControl: versionControl, FileSystem: builder.FileSystem})
	if serviceError != nil {
		return serviceError
	}

	result, createError := service.Create(command.Context(), Options{
		RepositoryPath: repositoryPath,
		RemoteName:     repositoryConfiguration.RemoteName,
		BaseBranch:     repositoryConfiguration.BaseBranch,
		BranchName:     branchName,
		Hook:           builder.resolveConfiguration().Hook,
	})
	if createError != nil {
		return createError
	}

	output := command.OutOrStdout()
	if result.BaseFastForwarded {
		fmt.Fprintf(output, baseFastForwardTemplateConstant+"\n", repositoryConfiguration.BaseBranch, repositoryConfiguration.RemoteName, repositoryConfiguration.BaseBranch)
	}
	if result.HookCommitted {
		fmt.Fprintf(output, hookCommittedTemplateConstant+"\n", result.HookFile)
	}
	fmt.Fprintf(output, guidanceTemplateConstant+"\n", result.RepositoryPath, result.BranchName, programName(command))
	return nil
}

func programName(command *cobra.Command) string {
	if command == nil || !command.HasParent() {
		return programNameFallbackConstant
	}
	return command.Root().Name()
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

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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
