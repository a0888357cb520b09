package list

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/repos/dependencies"
	"github.com/temirov/hubkeeper/internal/repos/shared"
	"github.com/temirov/hubkeeper/internal/ui"
)

const (
	commandUseConstant              = "branches"
	commandShortDescriptionConstant = "Fetch and list local and remote branches"
	commandLongDescriptionConstant  = "branches fetches the remote, prints the sorted union of local and remote branch names, then shows git's tracking status for each local branch. The repository is not modified."
	commandExampleConstant          = "hubkeeper branches --repo ~/src/docker-coq"
	trackingHeadingConstant         = "Tracking status:"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the branches command.
type CommandBuilder struct {
	LoggerProvider                  LoggerProvider
	GitExecutor                     shared.GitExecutor
	VersionControl                  shared.VersionControl
	HumanReadableLoggingProvider    func() bool
	RepositoryConfigurationProvider func() branches.RepositoryConfiguration
}

// Build constructs the branches command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	repositoryConfiguration := builder.resolveRepositoryConfiguration()
	repositoryPath, pathError := branches.ResolveRepositoryPath(command.Context(), repositoryConfiguration)
	if pathError != nil {
		return pathError
	}

	versionControl, versionControlError := builder.resolveVersionControl()
	if versionControlError != nil {
		return versionControlError
	}

	service, serviceError := NewService(Dependencies{VersionControl: versionControl})
	if serviceError != nil {
		return serviceError
	}

	result, listError := service.List(command.Context(), Options{
		RepositoryPath: repositoryPath,
		RemoteName:     repositoryConfiguration.RemoteName,
	})
	if listError != nil {
		return listError
	}

	output := command.OutOrStdout()
	palette := ui.NewPalette(output)
	for _, branchName := range result.Branches {
		fmt.Fprintln(output, palette.Branch(branchName))
	}
	fmt.Fprintln(output)
	fmt.Fprintln(output, palette.Heading(trackingHeadingConstant))
	fmt.Fprintln(output, strings.TrimRight(result.TrackingSummary, "\n"))
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
