package create_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/hubkeeper/internal/branches/create"
)

const (
	testRepositoryPathConstant = "/workspace/docker-coq"
	testDockerfilePathConstant = "/workspace/docker-coq/Dockerfile"
	testDockerfileConstant     = "FROM coqorg/base:latest\nARG COQ_VERSION=\"8.19\"\nRUN build\n"
	testVersionPatternConstant = `ARG COQ_VERSION="[^"]*"`
)

func TestFileEditHookApply(testInstance *testing.T) {
	testCases := []struct {
		name            string
		configuration   create.HookConfiguration
		expectedContent string
		expectChanged   bool
		expectedMessage string
		expectMismatch  bool
		expectError     bool
	}{
		{
			name: "template_replacement",
			configuration: create.HookConfiguration{
				File:          "Dockerfile",
				Pattern:       testVersionPatternConstant,
				Replacement:   `ARG COQ_VERSION="{{trimPrefix .BranchName "v"}}"`,
				CommitMessage: "Bump Coq to {{.BranchName}}",
			},
			expectedContent: "FROM coqorg/base:latest\nARG COQ_VERSION=\"8.20\"\nRUN build\n",
			expectChanged:   true,
			expectedMessage: "Bump Coq to v8.20",
		},
		{
			name: "capture_group_replacement",
			configuration: create.HookConfiguration{
				File:        testDockerfilePathConstant,
				Pattern:     `(ARG COQ_VERSION=)"[^"]*"`,
				Replacement: `${1}"dev"`,
			},
			expectedContent: "FROM coqorg/base:latest\nARG COQ_VERSION=\"dev\"\nRUN build\n",
			expectChanged:   true,
		},
		{
			name: "unchanged_content",
			configuration: create.HookConfiguration{
				File:        "Dockerfile",
				Pattern:     testVersionPatternConstant,
				Replacement: `ARG COQ_VERSION="8.19"`,
			},
			expectedContent: testDockerfileConstant,
		},
		{
			name: "pattern_mismatch",
			configuration: create.HookConfiguration{
				File:    "Dockerfile",
				Pattern: `ARG OCAML_VERSION=.*`,
			},
			expectedContent: testDockerfileConstant,
			expectMismatch:  true,
		},
		{
			name: "invalid_pattern",
			configuration: create.HookConfiguration{
				File:    "Dockerfile",
				Pattern: `ARG (`,
			},
			expectedContent: testDockerfileConstant,
			expectError:     true,
		},
		{
			name: "missing_file",
			configuration: create.HookConfiguration{
				File:    "Missing",
				Pattern: testVersionPatternConstant,
			},
			expectedContent: testDockerfileConstant,
			expectError:     true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fileSystem := afero.NewMemMapFs()
			require.NoError(testInstance, afero.WriteFile(fileSystem, testDockerfilePathConstant, []byte(testDockerfileConstant), 0o640))

			hook, creationError := create.NewFileEditHook(fileSystem)
			require.NoError(testInstance, creationError)

			result, applyError := hook.Apply(testCase.configuration, create.HookData{BranchName: "v8.20", BaseBranch: "master", RepositoryPath: testRepositoryPathConstant})

			switch {
			case testCase.expectMismatch:
				var mismatchError create.HookPatternMismatchError
				require.ErrorAs(testInstance, applyError, &mismatchError)
				require.Equal(testInstance, testDockerfilePathConstant, mismatchError.FilePath)
			case testCase.expectError:
				require.Error(testInstance, applyError)
			default:
				require.NoError(testInstance, applyError)
				require.Equal(testInstance, testDockerfilePathConstant, result.FilePath)
				require.Equal(testInstance, testCase.expectChanged, result.Changed)
				require.Equal(testInstance, testCase.expectedMessage, result.CommitMessage)
			}

			content, readError := afero.ReadFile(fileSystem, testDockerfilePathConstant)
			require.NoError(testInstance, readError)
			require.Equal(testInstance, testCase.expectedContent, string(content))

			fileInfo, statError := fileSystem.Stat(testDockerfilePathConstant)
			require.NoError(testInstance, statError)
			require.Equal(testInstance, 0o640, int(fileInfo.Mode().Perm()))
		})
	}
}

func TestNewFileEditHookRequiresFileSystem(testInstance *testing.T) {
	hook, creationError := create.NewFileEditHook(nil)
	require.ErrorIs(testInstance, creationError, create.ErrHookFileSystemNotConfigured)
	require.Nil(testInstance, hook)
}

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	sanitized := create.CommandConfiguration{Hook: create.HookConfiguration{File: "  Dockerfile "}}.Sanitize()
	require.Equal(testInstance, "Dockerfile", sanitized.Hook.File)
	require.Equal(testInstance, create.DefaultCommandConfiguration().Hook.CommitMessage, sanitized.Hook.CommitMessage)
	require.True(testInstance, sanitized.Hook.Enabled())
	require.False(testInstance, create.DefaultCommandConfiguration().Hook.Enabled())
}
