package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	environmentAssignmentSeparatorConstant = "="
)

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command, waits for it, and reports its output and exit code.
// A non-zero exit is not an error at this level; callers decide what it means.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := exec.CommandContext(executionContext, string(command.Name), slices.Clone(command.Details.Arguments)...)
	executable.Dir = strings.TrimSpace(command.Details.WorkingDirectory)
	if len(command.Details.EnvironmentVariables) > 0 {
		executable.Env = mergeEnvironment(os.Environ(), command.Details.EnvironmentVariables)
	}
	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	result := ExecutionResult{}
	runError := executable.Run()
	result.StandardOutput = standardOutputBuffer.String()
	result.StandardError = standardErrorBuffer.String()

	if runError == nil {
		return result, nil
	}

	var exitError *exec.ExitError
	if errors.As(runError, &exitError) && executionContext.Err() == nil {
		result.ExitCode = exitError.ExitCode()
		return result, nil
	}
	return ExecutionResult{}, runError
}

// mergeEnvironment appends overrides in key order so later entries win.
func mergeEnvironment(baseEnvironment []string, overrides map[string]string) []string {
	merged := slices.Clone(baseEnvironment)
	overrideKeys := lo.Keys(overrides)
	slices.Sort(overrideKeys)
	for _, environmentKey := range overrideKeys {
		merged = append(merged, environmentKey+environmentAssignmentSeparatorConstant+overrides[environmentKey])
	}
	return merged
}
