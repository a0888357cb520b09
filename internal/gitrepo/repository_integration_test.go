package gitrepo_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/hubkeeper/internal/execshell"
	"github.com/temirov/hubkeeper/internal/gitrepo"
	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
)

func newRealRepository(testInstance *testing.T) (*gitrepo.Repository, *execshell.ShellExecutor, string) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, creationError)

	repositoryPath := testInstance.TempDir()
	runGit(testInstance, executor, repositoryPath, "init", "--quiet")
	runGit(testInstance, executor, repositoryPath, "symbolic-ref", "HEAD", "refs/heads/master")
	runGit(testInstance, executor, repositoryPath, "config", "user.email", "maintainer@example.com")
	runGit(testInstance, executor, repositoryPath, "config", "user.name", "Maintainer")
	runGit(testInstance, executor, repositoryPath, "config", "commit.gpgsign", "false")
	commitFile(testInstance, executor, repositoryPath, "Dockerfile", "FROM debian\n", "initial")

	repository, repositoryError := gitrepo.NewRepository(executor)
	require.NoError(testInstance, repositoryError)
	return repository, executor, repositoryPath
}

func runGit(testInstance *testing.T, executor *execshell.ShellExecutor, repositoryPath string, arguments ...string) {
	testInstance.Helper()
	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
	require.NoError(testInstance, executionError)
}

func commitFile(testInstance *testing.T, executor *execshell.ShellExecutor, repositoryPath string, fileName string, content string, message string) {
	testInstance.Helper()
	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, fileName), []byte(content), 0o644))
	runGit(testInstance, executor, repositoryPath, "add", fileName)
	runGit(testInstance, executor, repositoryPath, "commit", "--quiet", "-m", message)
}

func TestRepositoryAgainstRealGit(testInstance *testing.T) {
	repository, executor, repositoryPath := newRealRepository(testInstance)
	executionContext := context.Background()

	sameAhead, sameError := repository.IsAheadOf(executionContext, repositoryPath, "master", "master")
	require.NoError(testInstance, sameError)
	require.False(testInstance, sameAhead)

	require.NoError(testInstance, repository.CreateBranch(executionContext, repositoryPath, "v8.10", "master"))
	commitFile(testInstance, executor, repositoryPath, "VERSION", "8.10\n", "pin 8.10")

	ahead, aheadError := repository.IsAheadOf(executionContext, repositoryPath, "v8.10", "master")
	require.NoError(testInstance, aheadError)
	require.True(testInstance, ahead)

	behind, behindError := repository.IsAheadOf(executionContext, repositoryPath, "master", "v8.10")
	require.NoError(testInstance, behindError)
	require.False(testInstance, behind)

	_, missingError := repository.IsAheadOf(executionContext, repositoryPath, "v8.10", "origin/v8.10")
	var refError repoerrors.RefNotFoundError
	require.ErrorAs(testInstance, missingError, &refError)
	require.Equal(testInstance, "origin/v8.10", refError.Reference)

	upstream, upstreamError := repository.UpstreamOf(executionContext, repositoryPath, "v8.10")
	require.NoError(testInstance, upstreamError)
	require.Empty(testInstance, upstream)

	runGit(testInstance, executor, repositoryPath, "branch", "--set-upstream-to=master", "v8.10")
	upstream, upstreamError = repository.UpstreamOf(executionContext, repositoryPath, "v8.10")
	require.NoError(testInstance, upstreamError)
	require.Equal(testInstance, "master", upstream)

	localBranches, listError := repository.ListLocalBranches(executionContext, repositoryPath)
	require.NoError(testInstance, listError)
	require.ElementsMatch(testInstance, []string{"master", "v8.10"}, localBranches)

	staged, stagedError := repository.HasStagedChanges(executionContext, repositoryPath)
	require.NoError(testInstance, stagedError)
	require.False(testInstance, staged)

	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, "VERSION"), []byte("8.10.1\n"), 0o644))
	require.NoError(testInstance, repository.Stage(executionContext, repositoryPath, "VERSION"))
	staged, stagedError = repository.HasStagedChanges(executionContext, repositoryPath)
	require.NoError(testInstance, stagedError)
	require.True(testInstance, staged)
	require.NoError(testInstance, repository.Commit(executionContext, repositoryPath, "pin 8.10.1"))

	summary, describeError := repository.DescribeBranches(executionContext, repositoryPath)
	require.NoError(testInstance, describeError)
	require.Contains(testInstance, summary, "v8.10")
}
