// Package cli constructs the hubkeeper command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and logging, and maps
// execution errors to process exit codes.
package cli
