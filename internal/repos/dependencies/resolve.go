// Package dependencies resolves optional collaborators to their production defaults.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/hubkeeper/internal/execshell"
	"github.com/temirov/hubkeeper/internal/gitrepo"
	"github.com/temirov/hubkeeper/internal/repos/shared"
	"github.com/temirov/hubkeeper/internal/ui"
)

// ResolveShellExecutor constructs an os/exec backed executor.
// With humanReadableLogging the logger also receives one console line per command lifecycle event.
func ResolveShellExecutor(logger *zap.Logger, humanReadableLogging bool) (*execshell.ShellExecutor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var options []execshell.ShellExecutorOption
	if humanReadableLogging {
		options = append(options, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), options...)
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	shellExecutor, creationError := ResolveShellExecutor(logger, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveCurlExecutor returns the provided executor or constructs a shell-backed default.
func ResolveCurlExecutor(existing shared.CurlExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.CurlExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	shellExecutor, creationError := ResolveShellExecutor(logger, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveVersionControl returns the provided implementation or wraps the executor in a gitrepo.Repository.
func ResolveVersionControl(existing shared.VersionControl, executor shared.GitExecutor) (shared.VersionControl, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepository(executor)
}

// ResolveSleeper returns the provided sleeper or the system timer.
func ResolveSleeper(existing shared.Sleeper) shared.Sleeper {
	if existing != nil {
		return existing
	}
	return shared.SystemSleeper{}
}
