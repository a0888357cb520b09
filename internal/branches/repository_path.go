package branches

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/hubkeeper/internal/utils"
)

const repositoryPathMissingMessageConstant = "repository path is not configured; pass --repo"

// ErrRepositoryPathMissing indicates neither the command context nor configuration supplied a repository.
var ErrRepositoryPathMissing = errors.New(repositoryPathMissingMessageConstant)

// ResolveRepositoryPath prefers the path resolved at the root command and falls back to configuration.
func ResolveRepositoryPath(executionContext context.Context, configuration RepositoryConfiguration) (string, error) {
	if repositoryPath, available := utils.NewCommandContextAccessor().RepositoryPath(executionContext); available {
		return repositoryPath, nil
	}
	configuredPath := strings.TrimSpace(configuration.Path)
	if len(configuredPath) == 0 {
		return "", ErrRepositoryPathMissing
	}
	return configuredPath, nil
}
