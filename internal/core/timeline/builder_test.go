package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droe-core/droe-view/internal/core/model"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		expected float64
	}{
		{name: "window_start", date: "1900-01-01", expected: 0},
		{name: "window_end", date: "2100-12-31", expected: 100},
		{name: "timestamp_at_start", date: "1900-01-01T00:00:00Z", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := Position(tt.date)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, pos, 1e-9)
		})
	}
}

func TestPositionIsMonotonic(t *testing.T) {
	dates := []string{"1850-06-01", "1900-01-01", "1900-01-02", "1969-07-20", "2000-01-01", "2100-12-31", "2150-01-01"}
	prev, err := Position(dates[0])
	require.NoError(t, err)
	for _, d := range dates[1:] {
		pos, err := Position(d)
		require.NoError(t, err)
		assert.Greater(t, pos, prev, "date %s", d)
		prev = pos
	}
}

func TestPositionOutsideWindowIsNotClamped(t *testing.T) {
	before, err := Position("1800-01-01")
	require.NoError(t, err)
	assert.Less(t, before, 0.0)

	after, err := Position("2200-01-01")
	require.NoError(t, err)
	assert.Greater(t, after, 100.0)
}

func TestPositionInvalidDate(t *testing.T) {
	_, err := Position("someday")
	assert.Error(t, err)
}

func TestFilterByType(t *testing.T) {
	events := []model.TimelineEvent{
		{ID: "1", Type: "event", Date: "1969-07-20"},
		{ID: "2", Type: "memory", Date: "1990-01-01"},
		{ID: "3", Type: "event", Date: "2001-01-01"},
	}

	assert.Len(t, FilterByType(events, model.FilterAll), 3)
	assert.Len(t, FilterByType(events, ""), 3)

	only := FilterByType(events, "event")
	require.Len(t, only, 2)
	assert.Equal(t, model.ID("1"), only[0].ID)
	assert.Equal(t, model.ID("3"), only[1].ID)

	assert.Empty(t, FilterByType(events, "person"))
}

func TestMarkerBuilderSkipsInvalidDates(t *testing.T) {
	events := []model.TimelineEvent{
		{ID: "1", Type: "event", Date: "1969-07-20"},
		{ID: "2", Type: "event", Date: "not a date"},
		{ID: "3", Type: "memory", Date: "2300-01-01"},
	}

	markers := NewMarkerBuilder(nil).Build(events)
	require.Len(t, markers, 2)
	assert.Equal(t, model.ID("1"), markers[0].Event.ID)
	assert.True(t, markers[0].InWindow())
	assert.Equal(t, model.ID("3"), markers[1].Event.ID)
	assert.False(t, markers[1].InWindow())
}
