// Package create starts a new release branch from the freshest base branch and
// optionally applies a configured edit to a tracked file on the new branch.
package create
