package flags

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const (
	// RepositoryFlagName exposes the shared working repository flag name.
	RepositoryFlagName = "repo"
	// RepositoryFlagUsage describes the shared working repository flag purpose.
	RepositoryFlagUsage = "Path to the source git repository"
	// AllBranchesFlagName selects every known branch.
	AllBranchesFlagName = "all"
	// BranchFlagName selects a single branch and may be repeated.
	BranchFlagName = "branch"
	// BranchFlagShorthand provides the shorthand for the branch flag.
	BranchFlagShorthand = "b"
	// BranchFlagUsage describes the branch flag purpose.
	BranchFlagUsage = "Branch name (can be supplied multiple times)"
)

// BranchSelectionDefinition configures the --all and --branch flags of one command.
type BranchSelectionDefinition struct {
	AllUsage    string
	BranchUsage string
}

// BranchSelection stores the parsed branch selection of one invocation.
type BranchSelection struct {
	All      bool
	Branches []string
}

// Empty reports whether neither --all nor any --branch value was supplied.
func (selection BranchSelection) Empty() bool {
	return !selection.All && len(selection.SelectedBranches()) == 0
}

// SelectedBranches returns the supplied branch names with blanks removed, preserving order.
func (selection BranchSelection) SelectedBranches() []string {
	trimmed := lo.Map(selection.Branches, func(branchName string, _ int) string {
		return strings.TrimSpace(branchName)
	})
	return lo.Compact(trimmed)
}

// BindBranchSelectionFlags attaches --all and a repeatable -b/--branch flag to the command.
// The two flags are registered as mutually exclusive; cobra reports the conflict through
// Command.ValidateFlagGroups.
func BindBranchSelectionFlags(command *cobra.Command, definition BranchSelectionDefinition) *BranchSelection {
	selection := &BranchSelection{}
	if command == nil {
		return selection
	}

	branchUsage := definition.BranchUsage
	if len(branchUsage) == 0 {
		branchUsage = BranchFlagUsage
	}

	command.Flags().BoolVar(&selection.All, AllBranchesFlagName, false, definition.AllUsage)
	command.Flags().StringArrayVarP(&selection.Branches, BranchFlagName, BranchFlagShorthand, nil, branchUsage)
	command.MarkFlagsMutuallyExclusive(AllBranchesFlagName, BranchFlagName)
	return selection
}
