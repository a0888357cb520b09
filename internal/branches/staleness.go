package branches

import (
	"context"
	"errors"
	"strings"

	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
	"github.com/temirov/hubkeeper/internal/repos/shared"
)

// LocalIsNewer reports whether branchName has commits its upstream lacks.
// An empty upstreamReference selects the branch's configured upstream.
// A branch without an upstream, or whose upstream ref is missing, counts as newer.
func LocalIsNewer(executionContext context.Context, versionControl shared.VersionControl, repositoryPath string, branchName string, upstreamReference string) (bool, error) {
	upstream := strings.TrimSpace(upstreamReference)
	if len(upstream) == 0 {
		configuredUpstream, upstreamError := versionControl.UpstreamOf(executionContext, repositoryPath, branchName)
		if upstreamError != nil {
			return false, upstreamError
		}
		if len(configuredUpstream) == 0 {
			return true, nil
		}
		upstream = configuredUpstream
	}

	ahead, aheadError := versionControl.IsAheadOf(executionContext, repositoryPath, branchName, upstream)
	if isRefNotFound(aheadError) {
		return true, nil
	}
	return ahead, aheadError
}

// RemoteIsNewer reports whether remoteReference has commits branchName lacks.
// A missing ref on either side leaves the local branch authoritative.
func RemoteIsNewer(executionContext context.Context, versionControl shared.VersionControl, repositoryPath string, branchName string, remoteReference string) (bool, error) {
	ahead, aheadError := versionControl.IsAheadOf(executionContext, repositoryPath, remoteReference, branchName)
	if isRefNotFound(aheadError) {
		return false, nil
	}
	return ahead, aheadError
}

// NeedsFastForward reports whether branchName should be fast-forwarded to remoteReference.
// A branch with commits of its own is never fast-forwarded, even when the remote also moved.
func NeedsFastForward(executionContext context.Context, versionControl shared.VersionControl, repositoryPath string, branchName string, remoteReference string) (bool, error) {
	localNewer, localError := LocalIsNewer(executionContext, versionControl, repositoryPath, branchName, remoteReference)
	if localError != nil {
		return false, localError
	}
	if localNewer {
		return false, nil
	}
	return RemoteIsNewer(executionContext, versionControl, repositoryPath, branchName, remoteReference)
}

func isRefNotFound(candidate error) bool {
	var refError repoerrors.RefNotFoundError
	return errors.As(candidate, &refError)
}
