package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/branches/create"
	"github.com/temirov/hubkeeper/internal/branches/list"
	"github.com/temirov/hubkeeper/internal/branches/push"
	"github.com/temirov/hubkeeper/internal/branches/rebase"
	"github.com/temirov/hubkeeper/internal/trigger"
)

const unknownCommandKindTemplateConstant = "unknown command kind %q"

// CommandKind identifies one hubkeeper subcommand.
type CommandKind string

// Supported subcommands.
const (
	CommandKindBranches CommandKind = "branches"
	CommandKindCreate   CommandKind = "create"
	CommandKindTrigger  CommandKind = "trigger"
	CommandKindRebase   CommandKind = "rebase"
	CommandKindPush     CommandKind = "push"
)

// CommandKinds lists the subcommands in the order they are registered.
func CommandKinds() []CommandKind {
	return []CommandKind{
		CommandKindBranches,
		CommandKindCreate,
		CommandKindTrigger,
		CommandKindRebase,
		CommandKindPush,
	}
}

type commandBuilder interface {
	Build() (*cobra.Command, error)
}

func (application *Application) commandBuilder(kind CommandKind) (commandBuilder, error) {
	loggerProvider := func() *zap.Logger {
		return application.logger
	}
	repositoryConfigurationProvider := func() branches.RepositoryConfiguration {
		return application.configuration.Repository
	}

	switch kind {
	case CommandKindBranches:
		return &list.CommandBuilder{
			LoggerProvider:                  loggerProvider,
			VersionControl:                  application.versionControl,
			HumanReadableLoggingProvider:    application.humanReadableLoggingEnabled,
			RepositoryConfigurationProvider: repositoryConfigurationProvider,
		}, nil
	case CommandKindCreate:
		return &create.CommandBuilder{
			LoggerProvider:                  loggerProvider,
			VersionControl:                  application.versionControl,
			FileSystem:                      application.fileSystem,
			HumanReadableLoggingProvider:    application.humanReadableLoggingEnabled,
			RepositoryConfigurationProvider: repositoryConfigurationProvider,
			ConfigurationProvider: func() create.CommandConfiguration {
				return application.configuration.Tools.Create
			},
		}, nil
	case CommandKindTrigger:
		return &trigger.CommandBuilder{
			LoggerProvider:               loggerProvider,
			CurlExecutor:                 application.curlExecutor,
			HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
			ConfigurationProvider: func() trigger.CommandConfiguration {
				return application.configuration.Tools.Trigger
			},
		}, nil
	case CommandKindRebase:
		return &rebase.CommandBuilder{
			LoggerProvider:                  loggerProvider,
			VersionControl:                  application.versionControl,
			HumanReadableLoggingProvider:    application.humanReadableLoggingEnabled,
			RepositoryConfigurationProvider: repositoryConfigurationProvider,
		}, nil
	case CommandKindPush:
		return &push.CommandBuilder{
			LoggerProvider:                  loggerProvider,
			VersionControl:                  application.versionControl,
			Sleeper:                         application.sleeper,
			HumanReadableLoggingProvider:    application.humanReadableLoggingEnabled,
			RepositoryConfigurationProvider: repositoryConfigurationProvider,
			ConfigurationProvider: func() push.CommandConfiguration {
				return application.configuration.Tools.Push
			},
		}, nil
	default:
		return nil, fmt.Errorf(unknownCommandKindTemplateConstant, kind)
	}
}
