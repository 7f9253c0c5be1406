package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/droe-core/droe-view/internal/presentation/widget"
	"github.com/droe-core/droe-view/internal/util"
)

// FormatPanel draws a visible panel as a box. Hidden panels print nothing.
func FormatPanel(w io.Writer, p *widget.Panel, opts Options) error {
	visible, title, lines, media := p.Content()
	if !visible {
		return nil
	}

	width := opts.sizer().GetMaxWidth()
	inner := width - 4

	var sb strings.Builder
	sb.WriteString("╭" + strings.Repeat("─", width-2) + "╮\n")
	fmt.Fprintf(&sb, "│ %s │\n", opts.colorize(util.PadRight(util.Truncate(title, inner), inner), util.ColorBold))
	sb.WriteString("├" + strings.Repeat("─", width-2) + "┤\n")
	for _, line := range lines {
		for _, wrapped := range wrapText(line, inner) {
			writeBoxLine(&sb, wrapped, inner)
		}
	}
	if media != "" {
		writeBoxLine(&sb, util.Truncate("Media: "+media, inner), inner)
	}
	sb.WriteString("╰" + strings.Repeat("─", width-2) + "╯\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeBoxLine(sb *strings.Builder, content string, inner int) {
	fmt.Fprintf(sb, "│ %s │\n", util.PadRight(content, inner))
}

// wrapText wraps text to fit within the specified display width
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{""}
	}
	if util.GetDisplayWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case util.GetDisplayWidth(currentLine)+1+util.GetDisplayWidth(word) <= width:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	for i, l := range lines {
		lines[i] = util.Truncate(l, width)
	}
	return lines
}
