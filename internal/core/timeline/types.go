package timeline

import (
	"time"

	"github.com/droe-core/droe-view/internal/core/model"
)

// The fixed window the axis spans. Positions are linear in days between
// these two dates.
var (
	WindowStart = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	WindowEnd   = time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Zoom bounds, in tenths.
const (
	MinZoomTenths     = 5
	MaxZoomTenths     = 20
	DefaultZoomTenths = 10
	ZoomStepTenths    = 1
)

// Marker is one event placed on the axis.
type Marker struct {
	Event    model.TimelineEvent
	Date     time.Time
	Position float64 // percent of the window; may fall outside [0, 100]
}

// InWindow reports whether the marker lies inside the axis window.
func (m Marker) InWindow() bool {
	return m.Position >= 0 && m.Position <= 100
}
