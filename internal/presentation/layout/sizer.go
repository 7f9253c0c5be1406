package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/droe-core/droe-view/internal/util"
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{}

// DefaultSizer returns the shared sizer.
func DefaultSizer() *Sizer {
	return sharedSizer
}

// Sizer measures and pads text by display width.
type Sizer struct {
	// Width overrides the detected terminal width when positive.
	Width int
}

// displayWidth calculates the actual display width of a string containing emojis and Unicode characters
func (i Sizer) displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadString pads a string to a specific display width, handling emojis correctly
func (i Sizer) PadString(s string, width int, leftAlign bool) string {
	actualWidth := i.displayWidth(s)
	if actualWidth >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// GetMaxWidth is the usable line width: the terminal width minus a margin,
// never below 40 columns.
func (i Sizer) GetMaxWidth() int {
	termWidth := i.Width
	if termWidth <= 0 {
		termWidth = util.TerminalWidth()
	}

	maxWidth := termWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}

	util.LogDebugf("GetMaxWidth %d", maxWidth)
	return maxWidth
}
