// Package flags provides helpers for binding the flags hubkeeper commands share.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagShorthand provides the shorthand for the dry-run flag.
	DryRunFlagShorthand = "n"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Only display the git commands that would run"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions enables the dry-run flag with its standard name and shorthand.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun: ExecutionFlagDefinition{
			Name:      DryRunFlagName,
			Usage:     DryRunFlagUsage,
			Shorthand: DryRunFlagShorthand,
			Enabled:   true,
		},
	}
}

// BindExecutionFlags attaches execution flags to the command's local flag set.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}
	bindBoolFlag(command.Flags(), definitions.DryRun, defaults.DryRun)
}

// ResolveDryRun reads the dry-run flag, falling back to the configured default when the flag is absent or unchanged.
func ResolveDryRun(command *cobra.Command, configuredDefault bool) (bool, error) {
	if command == nil {
		return configuredDefault, nil
	}
	dryRunFlag := command.Flags().Lookup(DryRunFlagName)
	if dryRunFlag == nil || !dryRunFlag.Changed {
		return configuredDefault, nil
	}
	return command.Flags().GetBool(DryRunFlagName)
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil {
		return
	}
	if !definition.Enabled {
		return
	}
	if len(definition.Name) == 0 {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}
