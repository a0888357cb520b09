package push

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/repos/dependencies"
	"github.com/temirov/hubkeeper/internal/repos/shared"
	"github.com/temirov/hubkeeper/internal/ui"
	flagutils "github.com/temirov/hubkeeper/internal/utils/flags"
)

const (
	commandUseConstant              = "push"
	commandShortDescriptionConstant = "Push branches that are ahead of the remote"
	commandLongDescriptionConstant  = "push compares every local branch with its remote copy and force-pushes (with lease) those carrying new commits, setting upstream tracking. Pushes are spaced by the configured delay so the build service registers each one. With --dry-run the push commands are printed instead."
	commandExampleConstant          = "hubkeeper push -n\nhubkeeper push"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the push command.
type CommandBuilder struct {
	LoggerProvider                  LoggerProvider
	GitExecutor                     shared.GitExecutor
	VersionControl                  shared.VersionControl
	Sleeper                         shared.Sleeper
	HumanReadableLoggingProvider    func() bool
	RepositoryConfigurationProvider func() branches.RepositoryConfiguration
	ConfigurationProvider           func() CommandConfiguration
}

// Build constructs the push command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
	}
	flagutils.BindExecutionFlags(command, flagutils.ExecutionDefaults{}, flagutils.DefaultExecutionFlagDefinitions())
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	dryRun, dryRunError := flagutils.ResolveDryRun(command, configuration.DryRun)
	if dryRunError != nil {
		return dryRunError
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
		Sleeper:        dependencies.ResolveSleeper(builder.Sleeper),
		Reporter:       shared.NewWriterReporter(command.ErrOrStderr()),
	})
	if serviceError != nil {
		return serviceError
	}

	result, pushError := service.Push(command.Context(), Options{
		RepositoryPath: repositoryPath,
		RemoteName:     repositoryConfiguration.RemoteName,
		DryRun:         dryRun,
		Delay:          configuration.Delay,
	})
	if pushError != nil {
		return pushError
	}

	output := command.OutOrStdout()
	palette := ui.NewPalette(output)
	for _, plannedCommand := range result.PlannedCommands {
		fmt.Fprintln(output, palette.Command(plannedCommand))
	}
	return nil
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
