// Package errors defines the error kinds shared by hubkeeper operations.
package errors

import "fmt"

const (
	usageErrorTemplateConstant       = "usage: %s"
	refNotFoundErrorTemplateConstant = "reference %q not found in %s"
)

// UsageError reports invalid or missing arguments detected before any external command runs.
type UsageError struct {
	Message string
}

// NewUsageError constructs a UsageError with the supplied message.
func NewUsageError(message string) UsageError {
	return UsageError{Message: message}
}

// Error describes the usage problem.
func (usageError UsageError) Error() string {
	return fmt.Sprintf(usageErrorTemplateConstant, usageError.Message)
}

// RefNotFoundError reports that a ref expected by a staleness check does not exist.
type RefNotFoundError struct {
	Reference      string
	RepositoryPath string
}

// Error describes the missing ref.
func (refError RefNotFoundError) Error() string {
	return fmt.Sprintf(refNotFoundErrorTemplateConstant, refError.Reference, refError.RepositoryPath)
}
