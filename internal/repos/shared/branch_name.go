package shared

import (
	"errors"
	"strings"
)

const (
	branchNameEmptyMessageConstant        = "branch name must not be empty"
	branchNameWhitespaceMessageConstant   = "branch name must not contain whitespace"
	branchNameFlagPrefixMessageConstant   = "branch name must not start with '-'"
	branchNameReservedMessageConstant     = "branch name must not be HEAD"
	branchNameFlagPrefixConstant          = "-"
	branchNameForbiddenCharactersConstant = " \t\r\n"
)

var (
	// ErrBranchNameEmpty indicates a blank branch name.
	ErrBranchNameEmpty = errors.New(branchNameEmptyMessageConstant)
	// ErrBranchNameWhitespace indicates embedded whitespace.
	ErrBranchNameWhitespace = errors.New(branchNameWhitespaceMessageConstant)
	// ErrBranchNameFlagPrefix indicates a name git would parse as an option.
	ErrBranchNameFlagPrefix = errors.New(branchNameFlagPrefixMessageConstant)
	// ErrBranchNameReserved indicates the HEAD sentinel.
	ErrBranchNameReserved = errors.New(branchNameReservedMessageConstant)
)

// BranchName is a validated local branch name.
type BranchName string

// NewBranchName trims surrounding whitespace and rejects names git would misinterpret.
func NewBranchName(raw string) (BranchName, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
		return "", ErrBranchNameEmpty
	case strings.ContainsAny(trimmed, branchNameForbiddenCharactersConstant):
		return "", ErrBranchNameWhitespace
	case strings.HasPrefix(trimmed, branchNameFlagPrefixConstant):
		return "", ErrBranchNameFlagPrefix
	case trimmed == HeadReferenceNameConstant:
		return "", ErrBranchNameReserved
	}
	return BranchName(trimmed), nil
}

// String returns the branch name.
func (name BranchName) String() string {
	return string(name)
}
