package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/droe-core/droe-view/internal/presentation/layout"
	"github.com/droe-core/droe-view/internal/presentation/widget"
	"github.com/droe-core/droe-view/internal/util"
)

// TimelineScreen is the state drawn by TimelineFormatter.
type TimelineScreen struct {
	Markers  []*widget.Block
	Zoom     float64
	Filter   string
	Selected int // index into Markers, -1 for none
	Details  *widget.Panel
	Keys     string
}

type TimelineFormatter struct {
	w    io.Writer
	opts Options
}

func NewTimelineFormatter(w io.Writer, opts Options) *TimelineFormatter {
	return &TimelineFormatter{w: w, opts: opts}
}

// Format draws the axis, the marker list and the detail panel. When the
// zoomed axis is wider than the terminal, the visible slice follows the
// selected marker.
func (f *TimelineFormatter) Format(s TimelineScreen) error {
	width := f.opts.sizer().GetMaxWidth()
	axis := layout.Axis{Width: width, Zoom: s.Zoom, StartYear: 1900, EndYear: 2100}

	positions := make([]float64, len(s.Markers))
	for i, m := range s.Markers {
		positions[i] = m.Position
	}

	offset := 0
	hasSelection := s.Selected >= 0 && s.Selected < len(s.Markers)
	if cols := axis.Columns(); cols > width && hasSelection {
		col, _ := axis.Column(positions[s.Selected])
		offset = clampInt(col-width/2, 0, cols-width)
	}

	var sb strings.Builder
	filter := s.Filter
	if filter == "" {
		filter = "all"
	}
	header := fmt.Sprintf("Timeline  zoom %.1fx  filter: %s  events: %d", s.Zoom, TypeLabel(filter, f.opts.Locale), len(s.Markers))
	sb.WriteString(f.opts.colorize(header, util.ColorBold) + "\n\n")

	sb.WriteString(window(axis.Labels(25), offset, width) + "\n")
	sb.WriteString(window(axis.Line(positions, '●'), offset, width) + "\n")
	if hasSelection {
		sb.WriteString(window(axis.Pointer(positions[s.Selected]), offset, width))
	}
	sb.WriteString("\n\n")

	if len(s.Markers) == 0 {
		sb.WriteString("  No events to show.\n")
	}
	for i, m := range s.Markers {
		prefix := "  "
		if i == s.Selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%-12s #%-6s %s", prefix, "["+TypeLabel(m.Tag, f.opts.Locale)+"]", m.ID, m.Date)
		if m.Position < 0 || m.Position > 100 {
			line += "  (outside 1900-2100)"
		}
		if i == s.Selected {
			line = f.opts.colorize(line, util.ColorCyan)
		}
		sb.WriteString(line + "\n")
	}

	if _, err := io.WriteString(f.w, sb.String()); err != nil {
		return err
	}
	if s.Details != nil {
		if _, err := io.WriteString(f.w, "\n"); err != nil {
			return err
		}
		if err := FormatPanel(f.w, s.Details, f.opts); err != nil {
			return err
		}
	}
	if s.Keys != "" {
		_, err := fmt.Fprintf(f.w, "\n%s\n", f.opts.colorize(s.Keys, util.ColorDim))
		return err
	}
	return nil
}

// window returns the runes of s in [offset, offset+width).
func window(s string, offset, width int) string {
	r := []rune(s)
	if offset >= len(r) {
		return ""
	}
	end := offset + width
	if end > len(r) {
		end = len(r)
	}
	return string(r[offset:end])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
