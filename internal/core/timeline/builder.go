package timeline

import (
	"time"

	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/util"
)

// Position maps a date onto the axis as a percentage of the window.
// Dates outside the window give values below 0 or above 100.
func Position(date string) (float64, error) {
	t, err := util.ParseDate(date)
	if err != nil {
		return 0, err
	}
	return positionOf(t), nil
}

// positionOf works on Unix seconds because time.Sub saturates for dates
// centuries away from the window.
func positionOf(t time.Time) float64 {
	total := float64(WindowEnd.Unix() - WindowStart.Unix())
	offset := float64(t.Unix() - WindowStart.Unix())
	return offset / total * 100
}

// FilterByType returns the events of the given type; "all" or empty keeps
// every event.
func FilterByType(events []model.TimelineEvent, eventType string) []model.TimelineEvent {
	if eventType == "" || eventType == model.FilterAll {
		out := make([]model.TimelineEvent, len(events))
		copy(out, events)
		return out
	}
	out := make([]model.TimelineEvent, 0, len(events))
	for _, e := range events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// MarkerBuilder places events on the axis.
type MarkerBuilder struct {
	log util.LoggerInterface
}

// NewMarkerBuilder creates a builder logging through log.
func NewMarkerBuilder(log util.LoggerInterface) *MarkerBuilder {
	if log == nil {
		log = util.NewNopLogger()
	}
	return &MarkerBuilder{log: log}
}

// Build returns one marker per event in input order. Events with an
// unparseable date are skipped; out-of-window dates are kept unclamped.
func (mb *MarkerBuilder) Build(events []model.TimelineEvent) []Marker {
	markers := make([]Marker, 0, len(events))
	for _, e := range events {
		t, err := util.ParseDate(e.Date)
		if err != nil {
			mb.log.Warn("skipping event with invalid date",
				util.F("id", e.ID.String()), util.F("date", e.Date), util.F("error", err))
			continue
		}
		pos := positionOf(t)
		m := Marker{Event: e, Date: t, Position: pos}
		if !m.InWindow() {
			mb.log.Debug("event outside timeline window",
				util.F("id", e.ID.String()), util.F("date", e.Date), util.F("position", pos))
		}
		markers = append(markers, m)
	}
	return markers
}
