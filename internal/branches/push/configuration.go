package push

import "time"

// DefaultPushDelay spaces consecutive pushes so the build service registers each one.
const DefaultPushDelay = 2 * time.Second

// CommandConfiguration captures persisted configuration for publishing branches.
type CommandConfiguration struct {
	Delay  time.Duration `mapstructure:"delay"`
	DryRun bool          `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration returns baseline configuration values for publishing branches.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Delay:  DefaultPushDelay,
		DryRun: false,
	}
}

// Sanitize clamps a negative delay to zero.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	if sanitized.Delay < 0 {
		sanitized.Delay = 0
	}
	return sanitized
}
