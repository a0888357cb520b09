package trigger

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkeeper/internal/repos/dependencies"
	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
	"github.com/temirov/hubkeeper/internal/repos/shared"
	flagutils "github.com/temirov/hubkeeper/internal/utils/flags"
)

const (
	commandUseConstant              = "trigger IMAGE TOKEN"
	commandShortDescriptionConstant = "Trigger automated builds on Docker Hub"
	commandLongDescriptionConstant  = "trigger posts to the build trigger endpoint of IMAGE (user/repo) with TOKEN. --all rebuilds every branch in one request; otherwise one request is sent per -b/--branch in the given order. IMAGE and TOKEN fall back to tools.trigger.image and tools.trigger.token."
	commandExampleConstant          = "hubkeeper trigger coqorg/coq $TOKEN -b v8.19 -b v8.20"
	allBranchesUsageConstant        = "Trigger a rebuild of all branches"
	branchUsageConstant             = "Branch to rebuild (can be supplied multiple times)"
	tooManyArgumentsMessageConstant = "trigger accepts at most IMAGE and TOKEN"
	deliveryMessageTemplateConstant = "Triggered build of %s for %s"
	maximumArgumentCountConstant    = 2
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the trigger command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CurlExecutor                 shared.CurlExecutor
	BuildTrigger                 BuildTrigger
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the trigger command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
	}
	selection := flagutils.BindBranchSelectionFlags(command, flagutils.BranchSelectionDefinition{
		AllUsage:    allBranchesUsageConstant,
		BranchUsage: branchUsageConstant,
	})
	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.run(command, arguments, *selection)
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string, selection flagutils.BranchSelection) error {
	if len(arguments) > maximumArgumentCountConstant {
		return repoerrors.NewUsageError(tooManyArgumentsMessageConstant)
	}
	configuration := builder.resolveConfiguration()

	options := Options{
		Image:    configuration.Image,
		Token:    configuration.Token,
		All:      selection.All,
		Branches: selection.SelectedBranches(),
	}
	if len(arguments) > 0 {
		options.Image = strings.TrimSpace(arguments[0])
	}
	if len(arguments) > 1 {
		options.Token = strings.TrimSpace(arguments[1])
	}

	if _, validationError := Payloads(options); validationError != nil {
		return validationError
	}

	buildTrigger, triggerError := builder.resolveBuildTrigger(configuration)
	if triggerError != nil {
		return triggerError
	}
	service, serviceError := NewService(Dependencies{Trigger: buildTrigger})
	if serviceError != nil {
		return serviceError
	}

	result, runError := service.Trigger(command.Context(), options)
	for _, delivery := range result.Deliveries {
		fmt.Fprintf(command.OutOrStdout(), deliveryMessageTemplateConstant+"\n", delivery.Payload.Label(), options.Image)
	}
	return runError
}

func (builder *CommandBuilder) resolveBuildTrigger(configuration CommandConfiguration) (BuildTrigger, error) {
	if builder.BuildTrigger != nil {
		return builder.BuildTrigger, nil
	}
	humanReadableLogging := builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
	curlExecutor, executorError := dependencies.ResolveCurlExecutor(builder.CurlExecutor, builder.resolveLogger(), humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}
	return NewCurlBuildTrigger(curlExecutor, configuration.Endpoint)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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
