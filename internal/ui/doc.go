// Package ui renders console feedback for hubkeeper: command lifecycle
// messages routed through a human-readable zap logger and a small color
// palette for branch listings.
package ui
