package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxisColumns(t *testing.T) {
	assert.Equal(t, 60, Axis{Width: 60, Zoom: 1}.Columns())
	assert.Equal(t, 120, Axis{Width: 60, Zoom: 2}.Columns())
	assert.Equal(t, 30, Axis{Width: 60, Zoom: 0.5}.Columns())
	assert.Equal(t, 60, Axis{Width: 60}.Columns())
	assert.Equal(t, 2, Axis{Width: 1, Zoom: 1}.Columns())
}

func TestAxisColumn(t *testing.T) {
	a := Axis{Width: 101, Zoom: 1}

	col, ok := a.Column(0)
	assert.True(t, ok)
	assert.Equal(t, 0, col)

	col, ok = a.Column(100)
	assert.True(t, ok)
	assert.Equal(t, 100, col)

	col, ok = a.Column(50)
	assert.True(t, ok)
	assert.Equal(t, 50, col)

	col, ok = a.Column(-3)
	assert.False(t, ok)
	assert.Equal(t, 0, col)

	col, ok = a.Column(140)
	assert.False(t, ok)
	assert.Equal(t, 100, col)
}

func TestAxisLine(t *testing.T) {
	a := Axis{Width: 11, Zoom: 1}
	line := a.Line([]float64{50, -10, 120}, '●')
	assert.Equal(t, "◀────●────▶", line)
}

func TestAxisPointer(t *testing.T) {
	a := Axis{Width: 11, Zoom: 1}
	assert.Equal(t, "     ^", a.Pointer(50))
}

func TestAxisLabels(t *testing.T) {
	a := Axis{Width: 40, Zoom: 1, StartYear: 1900, EndYear: 2100}
	labels := a.Labels(100)
	assert.Equal(t, "1900", labels[:4])
	assert.Contains(t, labels, "2000")
	assert.Equal(t, "2100", labels[len(labels)-4:])
	assert.Len(t, labels, 40)

	assert.Empty(t, Axis{Width: 40, Zoom: 1}.Labels(50))
	assert.Empty(t, a.Labels(0))
}
