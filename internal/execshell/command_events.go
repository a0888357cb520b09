package execshell

// CommandEventObserver receives lifecycle notifications for git and curl invocations.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once a process exits, regardless of its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not be started or awaited.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
