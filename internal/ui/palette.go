package ui

import (
	"io"
	"os"

	"github.com/TwiN/go-color"
	"github.com/mattn/go-isatty"
)

// Palette decorates console output with ANSI colors when the destination is a terminal.
type Palette struct {
	enabled bool
}

// NewPalette enables colors only for terminal-backed writers.
func NewPalette(writer io.Writer) Palette {
	file, isFile := writer.(*os.File)
	if !isFile {
		return Palette{}
	}
	descriptor := file.Fd()
	return Palette{enabled: isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)}
}

// Enabled reports whether escape sequences are emitted.
func (palette Palette) Enabled() bool {
	return palette.enabled
}

// Branch highlights a branch name.
func (palette Palette) Branch(name string) string {
	if !palette.enabled {
		return name
	}
	return color.InBold(color.InCyan(name))
}

// Heading emphasizes a section title.
func (palette Palette) Heading(text string) string {
	if !palette.enabled {
		return text
	}
	return color.InBold(text)
}

// Command marks a shell command that was printed instead of executed.
func (palette Palette) Command(text string) string {
	if !palette.enabled {
		return text
	}
	return color.InYellow(text)
}
