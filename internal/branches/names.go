package branches

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Normalize unions the lists, drops duplicates, blanks and exclusions, and sorts the result ascending.
func Normalize(exclusions []string, lists ...[]string) []string {
	trimmed := lo.Map(lo.Flatten(lists), func(branchName string, _ int) string {
		return strings.TrimSpace(branchName)
	})
	normalized := lo.Without(lo.Compact(lo.Uniq(trimmed)), exclusions...)
	slices.Sort(normalized)
	return normalized
}
