package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hubkeeper/internal/execshell"
)

const (
	testMessagesRepositoryPathConstant = "/workspace/docker-coq"
	testMessagesTokenConstant          = "abc123"
)

func TestCommandMessageFormatterStartedMessages(testInstance *testing.T) {
	testCases := []struct {
		name            string
		command         execshell.ShellCommand
		expectedMessage string
	}{
		{
			name:            "fetch",
			command:         gitCommand("fetch", "origin"),
			expectedMessage: "Fetching from origin in /workspace/docker-coq",
		},
		{
			name:            "list_refs",
			command:         gitCommand("for-each-ref", "--format=%(refname:strip=2)", "refs/heads/"),
			expectedMessage: "Listing refs/heads/ in /workspace/docker-coq",
		},
		{
			name:            "checkout",
			command:         gitCommand("checkout", "v8.10"),
			expectedMessage: "Switching /workspace/docker-coq to branch v8.10",
		},
		{
			name:            "create_branch",
			command:         gitCommand("checkout", "-b", "v8.11", "master"),
			expectedMessage: "Creating branch v8.11 from master in /workspace/docker-coq",
		},
		{
			name:            "fast_forward",
			command:         gitCommand("merge", "--ff-only", "origin/v8.10"),
			expectedMessage: "Fast-forwarding to origin/v8.10 in /workspace/docker-coq",
		},
		{
			name:            "rebase",
			command:         gitCommand("rebase", "master"),
			expectedMessage: "Rebasing onto master in /workspace/docker-coq",
		},
		{
			name:            "push",
			command:         gitCommand("push", "--force-with-lease", "--set-upstream", "origin", "v8.10:v8.10"),
			expectedMessage: "Pushing v8.10:v8.10 to origin from /workspace/docker-coq",
		},
		{
			name:            "stage",
			command:         gitCommand("add", "--", "Dockerfile"),
			expectedMessage: "Staging Dockerfile in /workspace/docker-coq",
		},
		{
			name:            "commit",
			command:         gitCommand("commit", "-m", "Bump version"),
			expectedMessage: "Creating commit in /workspace/docker-coq with message \"Bump version\"",
		},
		{
			name:            "unknown_git_subcommand",
			command:         gitCommand("status"),
			expectedMessage: "Running git status (in /workspace/docker-coq)",
		},
	}

	formatter := execshell.CommandMessageFormatter{}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedMessage, formatter.BuildStartedMessage(testCase.command))
		})
	}
}

func TestCommandMessageFormatterFailureMessages(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	failureMessage := formatter.BuildFailureMessage(gitCommand("rebase", "master"), execshell.ExecutionResult{ExitCode: 1, StandardError: "CONFLICT (content)\n"})
	require.Equal(testInstance, "Failed to rebase onto master in /workspace/docker-coq (exit code 1: CONFLICT (content))", failureMessage)

	executionFailureMessage := formatter.BuildExecutionFailureMessage(gitCommand("fetch", "origin"), errors.New("executable file not found"))
	require.Equal(testInstance, "Unable to fetch from origin in /workspace/docker-coq: executable file not found", executionFailureMessage)

	successMessage := formatter.BuildSuccessMessage(gitCommand("checkout", "master"))
	require.Equal(testInstance, "/workspace/docker-coq now on branch master", successMessage)
}

func TestCommandMessageFormatterRedactsCurlSecrets(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandCurl,
		Details: execshell.CommandDetails{
			Arguments:    []string{"--silent", "-X", "POST", "https://registry.hub.docker.com/u/coqorg/coq/trigger/" + testMessagesTokenConstant + "/"},
			SecretValues: []string{testMessagesTokenConstant},
		},
	}

	formatter := execshell.CommandMessageFormatter{}
	require.Equal(testInstance, "Posting build trigger to https://registry.hub.docker.com/u/coqorg/coq/trigger/***/", formatter.BuildStartedMessage(command))
	require.NotContains(testInstance, formatter.BuildFailureMessage(command, execshell.ExecutionResult{ExitCode: 22}), testMessagesTokenConstant)
}

func gitCommand(arguments ...string) execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        arguments,
			WorkingDirectory: testMessagesRepositoryPathConstant,
		},
	}
}
