package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
	urlSchemeSeparatorConstant              = "://"
)

const (
	gitFetchSubcommandNameConstant      = "fetch"
	gitForEachRefSubcommandNameConstant = "for-each-ref"
	gitCheckoutSubcommandNameConstant   = "checkout"
	gitMergeSubcommandNameConstant      = "merge"
	gitRebaseSubcommandNameConstant     = "rebase"
	gitPushSubcommandNameConstant       = "push"
	gitAddSubcommandNameConstant        = "add"
	gitCommitSubcommandNameConstant     = "commit"
	gitCreateBranchFlagConstant         = "-b"
	gitMessageFlagConstant              = "-m"
)

// templates are ordered start, success, failure, execution failure.
type stageTemplates [4]string

var (
	gitFetchTemplates = stageTemplates{
		"Fetching from %s in %s",
		"Fetched from %s in %s",
		"Failed to fetch from %s in %s (exit code %d%s)",
		"Unable to fetch from %s in %s: %s",
	}
	gitForEachRefTemplates = stageTemplates{
		"Listing %s in %s",
		"Listed %s in %s",
		"Failed to list %s in %s (exit code %d%s)",
		"Unable to list %s in %s: %s",
	}
	gitCheckoutTemplates = stageTemplates{
		"Switching %s to branch %s",
		"%s now on branch %s",
		"Failed to switch %s to branch %s (exit code %d%s)",
		"Unable to switch %s to branch %s: %s",
	}
	gitCreateBranchTemplates = stageTemplates{
		"Creating branch %s from %s in %s",
		"Created branch %s from %s in %s",
		"Failed to create branch %s from %s in %s (exit code %d%s)",
		"Unable to create branch %s from %s in %s: %s",
	}
	gitMergeTemplates = stageTemplates{
		"Fast-forwarding to %s in %s",
		"Fast-forwarded to %s in %s",
		"Failed to fast-forward to %s in %s (exit code %d%s)",
		"Unable to fast-forward to %s in %s: %s",
	}
	gitRebaseTemplates = stageTemplates{
		"Rebasing onto %s in %s",
		"Rebased onto %s in %s",
		"Failed to rebase onto %s in %s (exit code %d%s)",
		"Unable to rebase onto %s in %s: %s",
	}
	gitPushTemplates = stageTemplates{
		"Pushing %s to %s from %s",
		"Pushed %s to %s from %s",
		"Failed to push %s to %s from %s (exit code %d%s)",
		"Unable to push %s to %s from %s: %s",
	}
	gitAddTemplates = stageTemplates{
		"Staging %s in %s",
		"Staged %s in %s",
		"Failed to stage %s in %s (exit code %d%s)",
		"Unable to stage %s in %s: %s",
	}
	gitCommitTemplates = stageTemplates{
		"Creating commit in %s with message %q",
		"Created commit in %s with message %q",
		"Failed to create commit in %s with message %q (exit code %d%s)",
		"Unable to create commit in %s with message %q: %s",
	}
	curlTriggerTemplates = stageTemplates{
		"Posting build trigger to %s",
		"Posted build trigger to %s",
		"Failed to post build trigger to %s (exit code %d%s)",
		"Unable to post build trigger to %s: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with an accepted exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned an unaccepted exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	result.StandardError = command.Details.Redact(result.StandardError)
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandCurl:
		return formatter.describeCurlMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.RedactedArguments()
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	positional := formatter.positionalArguments(arguments[1:])

	switch strings.TrimSpace(arguments[0]) {
	case gitFetchSubcommandNameConstant:
		return formatter.render(gitFetchTemplates, stage, result, failure, formatter.ensureValue(formatter.argumentAtIndex(positional, 0)), workingDirectory)
	case gitForEachRefSubcommandNameConstant:
		return formatter.render(gitForEachRefTemplates, stage, result, failure, formatter.ensureValue(formatter.argumentAtIndex(positional, 0)), workingDirectory)
	case gitCheckoutSubcommandNameConstant:
		if containsArgument(arguments, gitCreateBranchFlagConstant) {
			branchName := findFlagValue(arguments, gitCreateBranchFlagConstant)
			startPoint := formatter.argumentAtIndex(positional, 0)
			return formatter.render(gitCreateBranchTemplates, stage, result, failure, formatter.ensureValue(branchName), formatter.ensureValue(startPoint), workingDirectory)
		}
		return formatter.render(gitCheckoutTemplates, stage, result, failure, workingDirectory, formatter.ensureValue(formatter.argumentAtIndex(positional, 0)))
	case gitMergeSubcommandNameConstant:
		return formatter.render(gitMergeTemplates, stage, result, failure, formatter.ensureValue(formatter.lastArgument(positional)), workingDirectory)
	case gitRebaseSubcommandNameConstant:
		return formatter.render(gitRebaseTemplates, stage, result, failure, formatter.ensureValue(formatter.lastArgument(positional)), workingDirectory)
	case gitPushSubcommandNameConstant:
		return formatter.render(gitPushTemplates, stage, result, failure, formatter.ensureValue(formatter.argumentAtIndex(positional, 1)), formatter.ensureValue(formatter.argumentAtIndex(positional, 0)), workingDirectory)
	case gitAddSubcommandNameConstant:
		return formatter.render(gitAddTemplates, stage, result, failure, formatter.ensureValue(strings.Join(positional, ", ")), workingDirectory)
	case gitCommitSubcommandNameConstant:
		return formatter.render(gitCommitTemplates, stage, result, failure, workingDirectory, formatter.ensureValue(findFlagValue(arguments, gitMessageFlagConstant)))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCurlMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	for _, argument := range command.Details.RedactedArguments() {
		if strings.Contains(argument, urlSchemeSeparatorConstant) {
			return formatter.render(curlTriggerTemplates, stage, result, failure, strings.TrimSpace(argument))
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

// render appends the exit code and standard error for failures, or the failure text for execution failures.
func (formatter CommandMessageFormatter) render(templates stageTemplates, stage messageStage, result ExecutionResult, failure error, values ...any) string {
	switch stage {
	case messageStageStart, messageStageSuccess:
		return fmt.Sprintf(templates[stage], values...)
	case messageStageFailure:
		return fmt.Sprintf(templates[stage], append(values, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates[stage], append(values, formatter.describeFailure(failure))...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if arguments := command.Details.RedactedArguments(); len(arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(arguments, commandArgumentsJoinSeparatorConstant)
	}
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// positionalArguments drops flags and the values of flags that take one.
func (formatter CommandMessageFormatter) positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		trimmed := strings.TrimSpace(arguments[argumentIndex])
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, flagPrefixConstant) {
			if (trimmed == gitCreateBranchFlagConstant || trimmed == gitMessageFlagConstant) && argumentIndex+1 < len(arguments) {
				argumentIndex++
			}
			continue
		}
		positional = append(positional, trimmed)
	}
	return positional
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastArgument(arguments []string) string {
	return formatter.argumentAtIndex(arguments, len(arguments)-1)
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}
