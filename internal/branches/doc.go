// Package branches holds the branch bookkeeping shared by hubkeeper commands:
// normalization of branch lists, staleness checks between a branch and its
// remote counterpart, and repository settings.
//
// The list, create, rebase, and push subpackages each provide a Service and a
// Cobra CommandBuilder for one operation.
package branches
