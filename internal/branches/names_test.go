package branches_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hubkeeper/internal/branches"
)

func TestNormalize(testInstance *testing.T) {
	testCases := []struct {
		name       string
		exclusions []string
		lists      [][]string
		expected   []string
	}{
		{
			name:       "union_and_deduplicate",
			exclusions: []string{"HEAD"},
			lists:      [][]string{{"v2", "master", "v1"}, {"master", "v1"}},
			expected:   []string{"master", "v1", "v2"},
		},
		{
			name:       "head_excluded",
			exclusions: []string{"HEAD"},
			lists:      [][]string{{"HEAD", "v1"}, {"HEAD"}},
			expected:   []string{"v1"},
		},
		{
			name:       "base_excluded_for_rebase",
			exclusions: []string{"HEAD", "master"},
			lists:      [][]string{{"HEAD", "master", "v1", "v2"}, {"master", "v1"}},
			expected:   []string{"v1", "v2"},
		},
		{
			name:       "lexicographic_order",
			exclusions: nil,
			lists:      [][]string{{"v8.9", "v8.10", "dev", "V8.11"}},
			expected:   []string{"V8.11", "dev", "v8.10", "v8.9"},
		},
		{
			name:       "blanks_dropped",
			exclusions: nil,
			lists:      [][]string{{" v1 ", "", "  "}, {"v1"}},
			expected:   []string{"v1"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, branches.Normalize(testCase.exclusions, testCase.lists...))
		})
	}
}

func TestNormalizeWithoutInputIsEmpty(testInstance *testing.T) {
	require.Empty(testInstance, branches.Normalize([]string{"HEAD"}))
}
