package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/branches/create"
	"github.com/temirov/hubkeeper/internal/branches/push"
	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
	"github.com/temirov/hubkeeper/internal/repos/shared"
	"github.com/temirov/hubkeeper/internal/trigger"
	"github.com/temirov/hubkeeper/internal/utils"
	flagutils "github.com/temirov/hubkeeper/internal/utils/flags"
	pathutils "github.com/temirov/hubkeeper/internal/utils/path"
)

const (
	applicationNameConstant                 = "hubkeeper"
	applicationVersionConstant              = "0.1.0"
	applicationShortDescriptionConstant     = "Maintain multi-branch, automated-build repositories on Docker Hub"
	applicationLongDescriptionConstant      = "hubkeeper creates, rebases, and pushes the release branches of a repository whose branches feed Docker Hub automated builds, and triggers rebuilds through the Docker Hub webhook. The repository uses the base branch (master) as its trunk and origin as its remote unless configured otherwise."
	versionTemplateConstant                 = "{{.Name}} version {{.Version}}\n"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level"
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format"
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "HUBKEEPER"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationRepositoryFieldConstant    = "repository"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	repositoryResolutionWarningConstant     = "unable to resolve default repository path"
	rootCommandInfoMessageConstant          = "hubkeeper executed"
	rootCommandDebugMessageConstant         = "hubkeeper diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	unknownCommandTemplateConstant          = "unknown command %q for %s"
	defaultConfigurationSearchPathConstant  = "."
	homeConfigurationSearchPathConstant     = "$HOME/.hubkeeper"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common     ApplicationCommonConfiguration   `mapstructure:"common"`
	Repository branches.RepositoryConfiguration `mapstructure:"repository"`
	Tools      ApplicationToolsConfiguration    `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for individual subcommands.
type ApplicationToolsConfiguration struct {
	Create  create.CommandConfiguration  `mapstructure:"create"`
	Push    push.CommandConfiguration    `mapstructure:"push"`
	Trigger trigger.CommandConfiguration `mapstructure:"trigger"`
}

// ApplicationOption customizes collaborators of an Application.
type ApplicationOption func(application *Application)

// WithVersionControl replaces the git-backed repository operations.
func WithVersionControl(versionControl shared.VersionControl) ApplicationOption {
	return func(application *Application) {
		application.versionControl = versionControl
	}
}

// WithCurlExecutor replaces the curl process used for build triggers.
func WithCurlExecutor(curlExecutor shared.CurlExecutor) ApplicationOption {
	return func(application *Application) {
		application.curlExecutor = curlExecutor
	}
}

// WithSleeper replaces the timer used between pushes.
func WithSleeper(sleeper shared.Sleeper) ApplicationOption {
	return func(application *Application) {
		application.sleeper = sleeper
	}
}

// WithFileSystem replaces the filesystem edited by the post-creation hook.
func WithFileSystem(fileSystem afero.Fs) ApplicationOption {
	return func(application *Application) {
		application.fileSystem = fileSystem
	}
}

// WithExecutableLocator replaces the lookup used to derive the default repository path.
func WithExecutableLocator(locator pathutils.ExecutableLocator) ApplicationOption {
	return func(application *Application) {
		application.repositoryPathResolver = pathutils.NewRepositoryPathResolver(nil, locator)
	}
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	repositoryFlagValue    string
	commandContextAccessor utils.CommandContextAccessor
	repositoryPathResolver *pathutils.RepositoryPathResolver

	versionControl shared.VersionControl
	curlExecutor   shared.CurlExecutor
	sleeper        shared.Sleeper
	fileSystem     afero.Fs
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication(options ...ApplicationOption) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant, homeConfigurationSearchPathConstant},
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		repositoryPathResolver: pathutils.NewRepositoryPathResolver(nil, nil),
	}
	for _, option := range options {
		if option != nil {
			option(application)
		}
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       applicationVersionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(command *cobra.Command, arguments []string) error {
			if len(arguments) > 0 {
				return repoerrors.NewUsageError(fmt.Sprintf(unknownCommandTemplateConstant, arguments[0], command.CommandPath()))
			}
			return nil
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.SetFlagErrorFunc(func(_ *cobra.Command, flagError error) error {
		return repoerrors.NewUsageError(flagError.Error())
	})
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flagutils.FormatChoiceUsage(string(utils.LogLevelInfo), []string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)}, logLevelFlagUsageConstant))
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flagutils.FormatChoiceUsage(string(utils.LogFormatConsole), []string{string(utils.LogFormatConsole), string(utils.LogFormatStructured)}, logFormatFlagUsageConstant))
	cobraCommand.PersistentFlags().StringVar(&application.repositoryFlagValue, flagutils.RepositoryFlagName, "", flagutils.RepositoryFlagUsage)

	for _, commandKind := range CommandKinds() {
		builder, builderError := application.commandBuilder(commandKind)
		if builderError != nil {
			continue
		}
		subcommand, buildError := builder.Build()
		if buildError == nil {
			cobraCommand.AddCommand(subcommand)
		}
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
// An interrupt cancels the running command and any child process it started.
func (application *Application) Execute() error {
	executionContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	if flagGroupError := command.ValidateFlagGroups(); flagGroupError != nil {
		return repoerrors.NewUsageError(flagGroupError.Error())
	}

	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration
	application.configuration.Repository = application.configuration.Repository.Sanitize()

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.createLogger(command)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	repositoryCandidates := []string{application.configuration.Repository.Path}
	if application.persistentFlagChanged(command, flagutils.RepositoryFlagName) {
		repositoryCandidates = append([]string{application.repositoryFlagValue}, repositoryCandidates...)
	}
	repositoryPath, repositoryError := application.repositoryPathResolver.Resolve(repositoryCandidates...)
	if repositoryError != nil {
		application.logger.Warn(repositoryResolutionWarningConstant, zap.Error(repositoryError))
	}

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationRepositoryFieldConstant, repositoryPath),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		if repositoryError == nil {
			updatedContext = application.commandContextAccessor.WithRepositoryPath(updatedContext, repositoryPath)
		}
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) createLogger(command *cobra.Command) (*zap.Logger, error) {
	logLevel := utils.LogLevel(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogLevel)))
	if !application.humanReadableLoggingEnabled() {
		return application.loggerFactory.CreateLogger(logLevel, utils.LogFormat(strings.TrimSpace(application.configuration.Common.LogFormat)))
	}
	if command == nil {
		return application.loggerFactory.CreateHumanReadableLogger(logLevel, os.Stderr)
	}
	return application.loggerFactory.CreateHumanReadableLogger(logLevel, command.ErrOrStderr())
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Debug(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
