package display

import (
	"fmt"
	"io"

	"github.com/droe-core/droe-view/internal/util"
)

// TerminalDisplay redraws full-screen views in the alternate screen buffer.
type TerminalDisplay struct {
	w                 io.Writer
	inAlternateScreen bool
	enabled           bool
}

// NewTerminalDisplay creates a display writing to w. When enabled is false
// (output is not a terminal) screen control sequences are not written and
// frames are simply appended.
func NewTerminalDisplay(w io.Writer, enabled bool) *TerminalDisplay {
	return &TerminalDisplay{w: w, enabled: enabled}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if !td.enabled || td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.w, "\033[?1049h")
	fmt.Fprint(td.w, util.ClearScreen)
	fmt.Fprint(td.w, util.MoveCursorHome)
	fmt.Fprint(td.w, util.HideCursor)
	td.inAlternateScreen = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.w, util.ClearScreen)
	fmt.Fprint(td.w, util.MoveCursorHome)
	fmt.Fprint(td.w, util.ShowCursor)
	fmt.Fprint(td.w, "\033[?1049l")
	td.inAlternateScreen = false
}

// Frame clears the screen and runs draw. Without a terminal the frame is
// separated from the previous one by a blank line.
func (td *TerminalDisplay) Frame(draw func(w io.Writer) error) error {
	if td.inAlternateScreen {
		fmt.Fprint(td.w, util.ClearScreen)
		fmt.Fprint(td.w, util.MoveCursorHome)
	} else {
		fmt.Fprintln(td.w)
	}
	return draw(td.w)
}

// InAlternateScreen reports whether the alternate buffer is active.
func (td *TerminalDisplay) InAlternateScreen() bool {
	return td.inAlternateScreen
}
