package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultRepositoryDirectoryName is the sibling directory of the installation used when no path is configured.
	DefaultRepositoryDirectoryName = "docker-coq"
	parentDirectoryConstant        = ".."
	executableLookupErrorTemplate  = "unable to locate hubkeeper executable: %w"
	absolutePathErrorTemplate      = "unable to resolve repository path %q: %w"
	emptyRepositoryPathMessage     = "repository path is empty"
)

// ErrRepositoryPathEmpty indicates that no candidate path could be resolved.
var ErrRepositoryPathEmpty = errors.New(emptyRepositoryPathMessage)

// ExecutableLocator returns the path of the running binary.
type ExecutableLocator func() (string, error)

// RepositoryPathResolver picks the working repository from explicit input or the installation layout.
type RepositoryPathResolver struct {
	homeExpander      *HomeExpander
	executableLocator ExecutableLocator
}

// NewRepositoryPathResolver constructs a resolver backed by os.Executable.
func NewRepositoryPathResolver(homeExpander *HomeExpander, executableLocator ExecutableLocator) *RepositoryPathResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	if executableLocator == nil {
		executableLocator = os.Executable
	}
	return &RepositoryPathResolver{homeExpander: homeExpander, executableLocator: executableLocator}
}

// DefaultRepositoryPath returns <directory of the real executable>/../docker-coq.
func (resolver *RepositoryPathResolver) DefaultRepositoryPath() (string, error) {
	executablePath, locateError := resolver.executableLocator()
	if locateError != nil {
		return "", fmt.Errorf(executableLookupErrorTemplate, locateError)
	}
	if resolvedPath, evaluateError := filepath.EvalSymlinks(executablePath); evaluateError == nil {
		executablePath = resolvedPath
	}
	return filepath.Clean(filepath.Join(filepath.Dir(executablePath), parentDirectoryConstant, DefaultRepositoryDirectoryName)), nil
}

// Resolve returns the first non-blank candidate, home-expanded and absolute,
// or the default repository path when every candidate is blank.
func (resolver *RepositoryPathResolver) Resolve(candidates ...string) (string, error) {
	for _, candidate := range candidates {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		expandedCandidate := resolver.homeExpander.Expand(trimmedCandidate)
		absolutePath, absoluteError := filepath.Abs(expandedCandidate)
		if absoluteError != nil {
			return "", fmt.Errorf(absolutePathErrorTemplate, expandedCandidate, absoluteError)
		}
		return absolutePath, nil
	}

	defaultPath, defaultError := resolver.DefaultRepositoryPath()
	if defaultError != nil {
		return "", defaultError
	}
	if len(defaultPath) == 0 {
		return "", ErrRepositoryPathEmpty
	}
	return defaultPath, nil
}
