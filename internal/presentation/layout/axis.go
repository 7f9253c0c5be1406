package layout

import (
	"math"
	"strconv"
	"strings"
)

// Axis maps percentage positions onto terminal columns. Width is the
// unscaled axis width; Zoom stretches it.
type Axis struct {
	Width     int
	Zoom      float64
	StartYear int
	EndYear   int
}

// Columns is the scaled width of the axis, at least 2.
func (a Axis) Columns() int {
	zoom := a.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	cols := int(math.Round(float64(a.Width) * zoom))
	if cols < 2 {
		cols = 2
	}
	return cols
}

// Column returns the column for a position and whether it fits on the axis.
// Positions before the window report column 0, after it the last column.
func (a Axis) Column(position float64) (int, bool) {
	last := a.Columns() - 1
	switch {
	case position < 0:
		return 0, false
	case position > 100:
		return last, false
	}
	return int(math.Round(position / 100 * float64(last))), true
}

// Line draws the axis with a mark at every given position. Out-of-window
// positions are drawn as arrows at the ends.
func (a Axis) Line(positions []float64, mark rune) string {
	cols := []rune(strings.Repeat("─", a.Columns()))
	for _, p := range positions {
		col, inside := a.Column(p)
		switch {
		case inside:
			cols[col] = mark
		case p < 0:
			cols[col] = '◀'
		default:
			cols[col] = '▶'
		}
	}
	return string(cols)
}

// Pointer draws a caret under the given position.
func (a Axis) Pointer(position float64) string {
	col, _ := a.Column(position)
	return strings.Repeat(" ", col) + "^"
}

// Labels writes the year at each step along the axis, skipping labels that
// would overlap the previous one.
func (a Axis) Labels(step int) string {
	if step <= 0 || a.EndYear <= a.StartYear {
		return ""
	}
	cols := a.Columns()
	line := []rune(strings.Repeat(" ", cols))
	next := 0
	span := float64(a.EndYear - a.StartYear)
	for year := a.StartYear; year <= a.EndYear; year += step {
		label := []rune(strconv.Itoa(year))
		col, _ := a.Column(float64(year-a.StartYear) / span * 100)
		if col+len(label) > cols {
			col = cols - len(label)
		}
		if col < next || col < 0 {
			continue
		}
		copy(line[col:], label)
		next = col + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}
