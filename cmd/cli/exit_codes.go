package cli

import (
	"errors"

	"github.com/temirov/hubkeeper/internal/execshell"
	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
)

const (
	exitCodeSuccessConstant = 0
	exitCodeFailureConstant = 1
	exitCodeUsageConstant   = 2
)

// ExitCode maps an execution error to the process exit status: 2 for usage errors,
// the external command's own code when one failed, and 1 otherwise.
func ExitCode(executionError error) int {
	if executionError == nil {
		return exitCodeSuccessConstant
	}

	var usageError repoerrors.UsageError
	if errors.As(executionError, &usageError) {
		return exitCodeUsageConstant
	}

	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) && failedError.ExitCode() > 0 {
		return failedError.ExitCode()
	}

	return exitCodeFailureConstant
}
