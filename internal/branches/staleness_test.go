package branches_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hubkeeper/internal/branches"
	"github.com/temirov/hubkeeper/internal/repos/testsupport"
)

const testRepositoryPathConstant = "/workspace/docker-coq"

func TestLocalIsNewer(testInstance *testing.T) {
	testCases := []struct {
		name      string
		configure func(fake *testsupport.FakeVersionControl)
		branch    string
		upstream  string
		expected  bool
	}{
		{
			name: "ahead_of_remote",
			configure: func(fake *testsupport.FakeVersionControl) {
				fake.Ahead["origin/v1..v1"] = true
			},
			branch:   "v1",
			upstream: "origin/v1",
			expected: true,
		},
		{
			name:     "in_sync",
			branch:   "v1",
			upstream: "origin/v1",
			expected: false,
		},
		{
			name:     "missing_remote_branch_means_local_wins",
			branch:   "v2",
			upstream: "origin/v2",
			expected: true,
		},
		{
			name:     "no_configured_upstream_means_local_wins",
			branch:   "v2",
			upstream: "",
			expected: true,
		},
		{
			name: "configured_upstream_is_used",
			configure: func(fake *testsupport.FakeVersionControl) {
				fake.Upstreams["v1"] = "origin/v1"
			},
			branch:   "v1",
			upstream: "",
			expected: false,
		},
		{
			name:     "same_ref_is_never_ahead",
			branch:   "v1",
			upstream: "v1",
			expected: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fake := testsupport.NewFakeVersionControl([]string{"master", "v1", "v2"}, []string{"master", "v1"})
			if testCase.configure != nil {
				testCase.configure(fake)
			}

			newer, newerError := branches.LocalIsNewer(context.Background(), fake, testRepositoryPathConstant, testCase.branch, testCase.upstream)
			require.NoError(testInstance, newerError)
			require.Equal(testInstance, testCase.expected, newer)
		})
	}
}

func TestRemoteIsNewer(testInstance *testing.T) {
	fake := testsupport.NewFakeVersionControl([]string{"master", "v1", "v2", "v3"}, []string{"master", "v1", "v2"})
	fake.Ahead["v2..origin/v2"] = true
	fake.Ahead["origin/v1..v1"] = true

	testCases := []struct {
		branch   string
		expected bool
	}{
		{branch: "v1", expected: false},
		{branch: "v2", expected: true},
		{branch: "v3", expected: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.branch, func(testInstance *testing.T) {
			newer, newerError := branches.RemoteIsNewer(context.Background(), fake, testRepositoryPathConstant, testCase.branch, "origin/"+testCase.branch)
			require.NoError(testInstance, newerError)
			require.Equal(testInstance, testCase.expected, newer)
		})
	}
}

func TestStalenessPropagatesToolFailures(testInstance *testing.T) {
	fake := testsupport.NewFakeVersionControl([]string{"v1"}, []string{"v1"})
	toolFailure := errors.New("git exited 128")
	fake.Failures["rev-list --count origin/v1..v1"] = toolFailure
	fake.Failures["rev-list --count v1..origin/v1"] = toolFailure

	_, localError := branches.LocalIsNewer(context.Background(), fake, testRepositoryPathConstant, "v1", "origin/v1")
	require.ErrorIs(testInstance, localError, toolFailure)

	_, remoteError := branches.RemoteIsNewer(context.Background(), fake, testRepositoryPathConstant, "v1", "origin/v1")
	require.ErrorIs(testInstance, remoteError, toolFailure)
}

func TestNeedsFastForward(testInstance *testing.T) {
	testCases := []struct {
		name        string
		localAhead  bool
		remoteAhead bool
		expected    bool
	}{
		{name: "in_sync", expected: false},
		{name: "remote_ahead", remoteAhead: true, expected: true},
		{name: "local_ahead", localAhead: true, expected: false},
		{name: "diverged_keeps_local", localAhead: true, remoteAhead: true, expected: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fake := testsupport.NewFakeVersionControl([]string{"v1"}, []string{"v1"})
			fake.Ahead["origin/v1..v1"] = testCase.localAhead
			fake.Ahead["v1..origin/v1"] = testCase.remoteAhead

			needed, neededError := branches.NeedsFastForward(context.Background(), fake, testRepositoryPathConstant, "v1", "origin/v1")
			require.NoError(testInstance, neededError)
			require.Equal(testInstance, testCase.expected, needed)
		})
	}

	fake := testsupport.NewFakeVersionControl([]string{"v1"}, nil)
	needed, neededError := branches.NeedsFastForward(context.Background(), fake, testRepositoryPathConstant, "v1", "origin/v1")
	require.NoError(testInstance, neededError)
	require.False(testInstance, needed)
}
