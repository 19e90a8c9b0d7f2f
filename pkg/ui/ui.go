// Package ui provides a unified interface for rendering command output in
// different formats. It supports terminal (rich), text (plain), JSON and
// YAML output.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/megvii-research/go-megfile/pkg/types"
)

// Match pairs a glob result with the metadata collected for it. Stat is nil
// unless the caller asked for per-match metadata.
type Match struct {
	Path string
	Stat *types.StatResult
}

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderMatches renders glob results, with metadata columns when present
	RenderMatches(matches []Match) error

	// RenderEntries renders a directory listing, with metadata columns when
	// long is set
	RenderEntries(entries []types.Entry, long bool) error

	// RenderLines renders one value per line
	RenderLines(lines []string) error

	// RenderMessage renders a simple informational message
	RenderMessage(msg string) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error
}

// NewRenderer creates a new renderer for the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		// Not a file, so there is no terminal to probe
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return &terminalRenderer{out: output}, nil
	case FormatText:
		return &textRenderer{out: output}, nil
	case FormatJSON:
		return &jsonRenderer{out: output}, nil
	case FormatYAML:
		return &yamlRenderer{out: output}, nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
