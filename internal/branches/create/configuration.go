package create

import "strings"

// HookConfiguration describes a regular-expression edit applied to one tracked file after a branch is created.
// Replacement and CommitMessage are text/template strings rendered with HookData.
type HookConfiguration struct {
	File          string `mapstructure:"file"`
	Pattern       string `mapstructure:"pattern"`
	Replacement   string `mapstructure:"replacement"`
	CommitMessage string `mapstructure:"commit_message"`
}

// Enabled reports whether a hook file is configured.
func (configuration HookConfiguration) Enabled() bool {
	return len(strings.TrimSpace(configuration.File)) > 0
}

// CommandConfiguration captures persisted configuration for branch creation.
type CommandConfiguration struct {
	Hook HookConfiguration `mapstructure:"hook"`
}

// DefaultCommandConfiguration disables the post-creation hook.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Hook: HookConfiguration{
			CommitMessage: defaultHookCommitMessageConstant,
		},
	}
}

// Sanitize trims the file path and restores the default commit message.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Hook.File = strings.TrimSpace(configuration.Hook.File)
	if len(strings.TrimSpace(sanitized.Hook.CommitMessage)) == 0 {
		sanitized.Hook.CommitMessage = defaultHookCommitMessageConstant
	}
	return sanitized
}
