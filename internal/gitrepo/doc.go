// Package gitrepo runs the git plumbing and porcelain commands hubkeeper needs
// against a single working repository: branch enumeration, ancestry checks,
// checkout, fast-forward, rebase, push, and the commit steps of the
// post-creation hook.
package gitrepo
