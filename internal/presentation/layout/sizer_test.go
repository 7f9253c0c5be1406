package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadString(t *testing.T) {
	s := Sizer{}
	tests := []struct {
		name      string
		input     string
		width     int
		leftAlign bool
		expected  string
	}{
		{name: "left", input: "ab", width: 4, leftAlign: true, expected: "ab  "},
		{name: "right", input: "ab", width: 4, expected: "  ab"},
		{name: "too_long", input: "abcdef", width: 4, leftAlign: true, expected: "abcdef"},
		{name: "wide_runes", input: "日本", width: 6, leftAlign: true, expected: "日本  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.PadString(tt.input, tt.width, tt.leftAlign))
		})
	}
}

func TestGetMaxWidth(t *testing.T) {
	assert.Equal(t, 96, Sizer{Width: 100}.GetMaxWidth())
	assert.Equal(t, 40, Sizer{Width: 20}.GetMaxWidth())
	assert.Same(t, sharedSizer, DefaultSizer())
}
