package branches

import (
	"strings"

	"github.com/temirov/hubkeeper/internal/repos/shared"
)

// RepositoryConfiguration describes the working repository every branch command operates on.
type RepositoryConfiguration struct {
	Path       string `mapstructure:"path"`
	RemoteName string `mapstructure:"remote"`
	BaseBranch string `mapstructure:"base_branch"`
}

// DefaultRepositoryConfiguration targets origin and master; the path is resolved from the installation layout.
func DefaultRepositoryConfiguration() RepositoryConfiguration {
	return RepositoryConfiguration{
		Path:       "",
		RemoteName: shared.DefaultRemoteNameConstant,
		BaseBranch: shared.DefaultBaseBranchConstant,
	}
}

// Sanitize trims values and restores defaults for blank remote and base branch names.
func (configuration RepositoryConfiguration) Sanitize() RepositoryConfiguration {
	sanitized := configuration
	sanitized.Path = strings.TrimSpace(configuration.Path)
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	sanitized.BaseBranch = strings.TrimSpace(configuration.BaseBranch)

	defaults := DefaultRepositoryConfiguration()
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaults.RemoteName
	}
	if len(sanitized.BaseBranch) == 0 {
		sanitized.BaseBranch = defaults.BaseBranch
	}
	return sanitized
}

// Sentinels returns the names excluded from rebase and push target sets.
func (configuration RepositoryConfiguration) Sentinels() []string {
	return []string{shared.HeadReferenceNameConstant, configuration.BaseBranch}
}
