package execshell

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"
)

const (
	// CommandGit identifies the git executable.
	CommandGit CommandName = "git"
	// CommandCurl identifies the curl executable.
	CommandCurl CommandName = "curl"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	commandStartLogMessageConstant            = "executing command"
	commandCompletedLogMessageConstant        = "command completed"
	commandFailedLogMessageConstant           = "command failed"
	commandExecutionErrorLogMessageConstant   = "command execution error"
	logFieldCommandConstant                   = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardErrorConstant             = "stderr"
	redactedValuePlaceholderConstant          = "***"
)

// ErrLoggerNotConfigured indicates NewShellExecutor received a nil logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates NewShellExecutor received a nil runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandName identifies an external executable.
type CommandName string

// CommandDetails describes how an external executable is invoked.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	// AcceptedExitCodes lists non-zero exit codes that carry meaning for the caller
	// and are returned as results instead of errors.
	AcceptedExitCodes []int
	// SecretValues are masked wherever the command is logged or formatted.
	SecretValues []string
}

// AcceptsExitCode reports whether the exit code is returned to the caller as a result.
func (details CommandDetails) AcceptsExitCode(exitCode int) bool {
	if exitCode == 0 {
		return true
	}
	return slices.Contains(details.AcceptedExitCodes, exitCode)
}

// RedactedArguments returns the arguments with secret values masked.
func (details CommandDetails) RedactedArguments() []string {
	redacted := make([]string, len(details.Arguments))
	for argumentIndex, argument := range details.Arguments {
		redacted[argumentIndex] = details.Redact(argument)
	}
	return redacted
}

// Redact masks every configured secret occurring in value.
func (details CommandDetails) Redact(value string) string {
	for _, secretValue := range details.SecretValues {
		if len(secretValue) == 0 {
			continue
		}
		value = strings.ReplaceAll(value, secretValue, redactedValuePlaceholderConstant)
	}
	return value
}

// ShellCommand couples an executable with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable output of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner starts a process and waits for it to finish.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a process that exited with an unaccepted non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failure using the command message formatter.
func (failedError CommandFailedError) Error() string {
	return CommandMessageFormatter{}.BuildFailureMessage(failedError.Command, failedError.Result)
}

// ExitCode exposes the process exit code.
func (failedError CommandFailedError) ExitCode() int {
	return failedError.Result.ExitCode
}

// CommandExecutionError reports a process that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return CommandMessageFormatter{}.BuildExecutionFailureMessage(executionError.Command, executionError.Cause)
}

// Unwrap returns the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutorOption customizes a ShellExecutor.
type ShellExecutorOption func(executor *ShellExecutor)

// WithCommandEventObserver registers an observer for command lifecycle events.
func WithCommandEventObserver(observer CommandEventObserver) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		if observer != nil {
			executor.observer = observer
		}
	}
}

// ShellExecutor runs external tools synchronously with structured logging.
type ShellExecutor struct {
	logger        *zap.Logger
	commandRunner CommandRunner
	observer      CommandEventObserver
}

// NewShellExecutor validates its collaborators and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, options ...ShellExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	executor := &ShellExecutor{
		logger:        logger,
		commandRunner: commandRunner,
		observer:      noopCommandEventObserver{},
	}
	for _, option := range options {
		if option != nil {
			option(executor)
		}
	}
	return executor, nil
}

// Execute runs the command and converts unaccepted exit codes into CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.RedactedArguments()),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.observer.CommandStarted(command)
	executor.logger.Debug(commandStartLogMessageConstant, commandFields...)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Error(commandExecutionErrorLogMessageConstant, append(commandFields, zap.Error(runError))...)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)

	resultFields := append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))
	if !command.Details.AcceptsExitCode(executionResult.ExitCode) {
		executor.logger.Warn(commandFailedLogMessageConstant, append(resultFields, zap.String(logFieldStandardErrorConstant, command.Details.Redact(strings.TrimSpace(executionResult.StandardError))))...)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(commandCompletedLogMessageConstant, resultFields...)
	return executionResult, nil
}

// ExecuteGit runs git with the supplied details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteCurl runs curl with the supplied details.
func (executor *ShellExecutor) ExecuteCurl(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandCurl, Details: details})
}
