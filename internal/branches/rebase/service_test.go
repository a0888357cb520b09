package rebase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hubkeeper/internal/branches/rebase"
	"github.com/temirov/hubkeeper/internal/repos/shared"
	"github.com/temirov/hubkeeper/internal/repos/testsupport"
)

const testRepositoryPathConstant = "/workspace/docker-coq"

func newRebaseService(testInstance *testing.T, fake *testsupport.FakeVersionControl) (*rebase.Service, *bytes.Buffer) {
	testInstance.Helper()
	var report bytes.Buffer
	service, creationError := rebase.NewService(rebase.Dependencies{VersionControl: fake, Reporter: shared.NewWriterReporter(&report)})
	require.NoError(testInstance, creationError)
	return service, &report
}

func TestRebaseTargetSelection(testInstance *testing.T) {
	testCases := []struct {
		name            string
		local           []string
		remote          []string
		options         rebase.Options
		expectedTargets []string
	}{
		{
			name:            "all_excludes_sentinels",
			local:           []string{"master", "v1"},
			remote:          []string{"HEAD", "master", "v1", "v2"},
			options:         rebase.Options{All: true},
			expectedTargets: []string{"v1", "v2"},
		},
		{
			name:            "explicit_list_sorted_and_deduplicated",
			local:           []string{"master", "v1", "v2"},
			remote:          []string{"master", "v1", "v2"},
			options:         rebase.Options{Branches: []string{"v2", "master", "v1", "v2", "HEAD"}},
			expectedTargets: []string{"v1", "v2"},
		},
		{
			name:            "explicit_base_only",
			local:           []string{"master"},
			remote:          []string{"master"},
			options:         rebase.Options{Branches: []string{"master"}},
			expectedTargets: []string{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fake := testsupport.NewFakeVersionControl(testCase.local, testCase.remote)
			service, _ := newRebaseService(testInstance, fake)

			options := testCase.options
			options.RepositoryPath = testRepositoryPathConstant
			options.RemoteName = "origin"
			options.BaseBranch = "master"

			result, rebaseError := service.Rebase(context.Background(), options)
			require.NoError(testInstance, rebaseError)
			require.Equal(testInstance, testCase.expectedTargets, result.Targets)
			require.ElementsMatch(testInstance, testCase.expectedTargets, result.Rebased)
			require.Equal(testInstance, "fetch origin", fake.Calls[0])
		})
	}
}

func TestRebaseFastForwardsOnlyBranchesBehindRemote(testInstance *testing.T) {
	fake := testsupport.NewFakeVersionControl([]string{"master", "v1", "v2"}, []string{"master", "v1", "v2"})
	fake.Ahead["origin/v1..v1"] = true
	fake.Ahead["v2..origin/v2"] = true
	service, report := newRebaseService(testInstance, fake)

	result, rebaseError := service.Rebase(context.Background(), rebase.Options{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     "origin",
		BaseBranch:     "master",
		All:            true,
	})
	require.NoError(testInstance, rebaseError)
	require.Equal(testInstance, []string{"v2"}, result.FastForwarded)
	require.Equal(testInstance, []string{
		"checkout v1",
		"rebase master",
		"checkout v2",
		"merge --ff-only origin/v2",
		"rebase master",
	}, fake.MutatingCalls())
	require.Equal(testInstance, "Branches to rebase: v1, v2\n- Rebasing v1 on master...\n- Rebasing origin/v2 on master...\n", report.String())
}

func TestRebaseKeepsDivergedBranchesLocal(testInstance *testing.T) {
	fake := testsupport.NewFakeVersionControl([]string{"master", "v1"}, []string{"master", "v1"})
	fake.Ahead["origin/v1..v1"] = true
	fake.Ahead["v1..origin/v1"] = true
	service, report := newRebaseService(testInstance, fake)

	result, rebaseError := service.Rebase(context.Background(), rebase.Options{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     "origin",
		BaseBranch:     "master",
		All:            true,
	})
	require.NoError(testInstance, rebaseError)
	require.Empty(testInstance, result.FastForwarded)
	require.Equal(testInstance, []string{"v1"}, result.Rebased)
	require.Equal(testInstance, []string{"checkout v1", "rebase master"}, fake.MutatingCalls())
	require.Equal(testInstance, "Branches to rebase: v1\n- Rebasing v1 on master...\n", report.String())
}

func TestRebaseFetchesOnce(testInstance *testing.T) {
	fake := testsupport.NewFakeVersionControl([]string{"master", "v1", "v2"}, []string{"master", "v1", "v2"})
	service, _ := newRebaseService(testInstance, fake)

	_, rebaseError := service.Rebase(context.Background(), rebase.Options{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     "origin",
		BaseBranch:     "master",
		Branches:       []string{"v1", "v2"},
	})
	require.NoError(testInstance, rebaseError)

	fetchCount := 0
	for _, call := range fake.Calls {
		if call == "fetch origin" {
			fetchCount++
		}
	}
	require.Equal(testInstance, 1, fetchCount)
}

func TestRebaseStopsAtFirstConflict(testInstance *testing.T) {
	fake := testsupport.NewFakeVersionControl([]string{"master", "v1", "v2", "v3"}, []string{"master"})
	conflict := errors.New("CONFLICT (content): Merge conflict in Dockerfile")
	fake.RebaseFailures["v2"] = conflict
	service, _ := newRebaseService(testInstance, fake)

	result, rebaseError := service.Rebase(context.Background(), rebase.Options{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     "origin",
		BaseBranch:     "master",
		All:            true,
	})

	var conflictError rebase.RebaseConflictError
	require.ErrorAs(testInstance, rebaseError, &conflictError)
	require.Equal(testInstance, "v2", conflictError.Branch)
	require.ErrorIs(testInstance, rebaseError, conflict)
	require.Contains(testInstance, rebaseError.Error(), "v2")
	require.Equal(testInstance, []string{"v1"}, result.Rebased)
	require.NotContains(testInstance, fake.Calls, "checkout v3")
}

func TestRebaseStopsWhenFetchFails(testInstance *testing.T) {
	fake := testsupport.NewFakeVersionControl([]string{"master", "v1"}, nil)
	fetchFailure := errors.New("could not resolve host")
	fake.Failures["fetch origin"] = fetchFailure
	service, _ := newRebaseService(testInstance, fake)

	_, rebaseError := service.Rebase(context.Background(), rebase.Options{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     "origin",
		BaseBranch:     "master",
		All:            true,
	})
	require.ErrorIs(testInstance, rebaseError, fetchFailure)
	require.Empty(testInstance, fake.MutatingCalls())
}
