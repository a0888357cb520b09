package push_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hubkeeper/internal/branches/push"
	"github.com/temirov/hubkeeper/internal/repos/shared"
	"github.com/temirov/hubkeeper/internal/repos/testsupport"
)

const testRepositoryPathConstant = "/workspace/docker-coq"

func newPushFixture() *testsupport.FakeVersionControl {
	fake := testsupport.NewFakeVersionControl([]string{"v3", "master", "v1", "v2"}, []string{"HEAD", "master", "v1", "v2"})
	fake.Ahead["origin/v1..v1"] = true
	return fake
}

func TestPushDryRunPlansWithoutMutations(testInstance *testing.T) {
	fake := newPushFixture()
	sleeper := &testsupport.RecordingSleeper{}
	var report bytes.Buffer

	service, creationError := push.NewService(push.Dependencies{VersionControl: fake, Sleeper: sleeper, Reporter: shared.NewWriterReporter(&report)})
	require.NoError(testInstance, creationError)

	result, pushError := service.Push(context.Background(), push.Options{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     "origin",
		DryRun:         true,
		Delay:          push.DefaultPushDelay,
	})
	require.NoError(testInstance, pushError)
	require.Equal(testInstance, []string{"master", "v1", "v2", "v3"}, result.Candidates)
	require.Equal(testInstance, []string{"v1", "v3"}, result.Ahead)
	require.Equal(testInstance, []string{
		"git push --force-with-lease --set-upstream origin v1:v1",
		"git push --force-with-lease --set-upstream origin v3:v3",
	}, result.PlannedCommands)
	require.Empty(testInstance, fake.MutatingCalls())
	require.Empty(testInstance, sleeper.Durations)
	require.Empty(testInstance, result.Pushed)
	require.Equal(testInstance, "Local branches: master, v1, v2, v3\n", report.String())
}

func TestPushSleepsOnlyBetweenPushes(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configure     func(fake *testsupport.FakeVersionControl)
		expectedTail  []string
		expectedPause []time.Duration
	}{
		{
			name: "two_branches",
			expectedTail: []string{
				"push origin v1:v1",
				"sleep 2s",
				"push origin v3:v3",
			},
			expectedPause: []time.Duration{push.DefaultPushDelay},
		},
		{
			name: "single_branch",
			configure: func(fake *testsupport.FakeVersionControl) {
				fake.Ahead["origin/v1..v1"] = false
			},
			expectedTail: []string{"push origin v3:v3"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fake := newPushFixture()
			if testCase.configure != nil {
				testCase.configure(fake)
			}
			sleeper := &testsupport.RecordingSleeper{Journal: fake}

			service, creationError := push.NewService(push.Dependencies{VersionControl: fake, Sleeper: sleeper, Reporter: shared.NewWriterReporter(&bytes.Buffer{})})
			require.NoError(testInstance, creationError)

			_, pushError := service.Push(context.Background(), push.Options{
				RepositoryPath: testRepositoryPathConstant,
				RemoteName:     "origin",
				Delay:          push.DefaultPushDelay,
			})
			require.NoError(testInstance, pushError)
			require.Equal(testInstance, testCase.expectedTail, fake.Calls[len(fake.Calls)-len(testCase.expectedTail):])
			require.Equal(testInstance, testCase.expectedPause, sleeper.Durations)
		})
	}
}

func TestPushStopsOnFirstFailure(testInstance *testing.T) {
	fake := newPushFixture()
	rejected := errors.New("! [rejected] v1 -> v1 (stale info)")
	fake.Failures["push origin v1:v1"] = rejected

	service, creationError := push.NewService(push.Dependencies{VersionControl: fake, Sleeper: &testsupport.RecordingSleeper{}, Reporter: shared.NewWriterReporter(&bytes.Buffer{})})
	require.NoError(testInstance, creationError)

	result, pushError := service.Push(context.Background(), push.Options{RepositoryPath: testRepositoryPathConstant, RemoteName: "origin"})
	require.ErrorIs(testInstance, pushError, rejected)
	require.Empty(testInstance, result.Pushed)
	require.NotContains(testInstance, fake.Calls, "push origin v3:v3")
}

func TestPushStopsWhenPauseIsCancelled(testInstance *testing.T) {
	fake := newPushFixture()
	sleeper := &testsupport.RecordingSleeper{Error: context.Canceled}

	service, creationError := push.NewService(push.Dependencies{VersionControl: fake, Sleeper: sleeper, Reporter: shared.NewWriterReporter(&bytes.Buffer{})})
	require.NoError(testInstance, creationError)

	result, pushError := service.Push(context.Background(), push.Options{RepositoryPath: testRepositoryPathConstant, RemoteName: "origin", Delay: time.Second})
	require.ErrorIs(testInstance, pushError, context.Canceled)
	require.Equal(testInstance, []string{"v1"}, result.Pushed)
}

func TestCommandConfigurationSanitizeClampsDelay(testInstance *testing.T) {
	require.Equal(testInstance, time.Duration(0), push.CommandConfiguration{Delay: -time.Second}.Sanitize().Delay)
	require.Equal(testInstance, push.DefaultPushDelay, push.DefaultCommandConfiguration().Sanitize().Delay)
}
