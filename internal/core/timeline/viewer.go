package timeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/droe-core/droe-view/internal/core/generation"
	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/presentation/widget"
	"github.com/droe-core/droe-view/internal/util"
)

// Source fetches events and event details.
type Source interface {
	TimelineEvents(ctx context.Context) ([]model.TimelineEvent, error)
	EventDetail(ctx context.Context, event model.TimelineEvent) (model.EventDetail, error)
}

// DetailCache remembers detail records that were already fetched.
type DetailCache interface {
	Get(event model.TimelineEvent) (model.EventDetail, bool)
	Set(event model.TimelineEvent, detail model.EventDetail)
}

// DateFormatter renders an API date for display.
type DateFormatter interface {
	FormatDate(value string) string
}

type rawDates struct{}

func (rawDates) FormatDate(value string) string { return value }

// Viewer owns the fetched events, the type filter and the zoom level.
type Viewer struct {
	source  Source
	dates   DateFormatter
	track   *widget.Container
	details *widget.Panel
	builder *MarkerBuilder
	cache   DetailCache
	log     util.LoggerInterface

	// ctx bounds the requests started from marker clicks; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.RWMutex
	events     []model.TimelineEvent
	eventType  string
	zoomTenths int
	selected   *model.TimelineEvent
	loaded     bool

	loads       generation.Tracker
	detailLoads generation.Tracker
}

// Option customizes a Viewer.
type Option func(*Viewer)

// WithDateFormatter sets how detail dates are shown.
func WithDateFormatter(f DateFormatter) Option {
	return func(v *Viewer) { v.dates = f }
}

// WithDetailCache serves repeated detail requests from cache.
func WithDetailCache(c DetailCache) Option {
	return func(v *Viewer) { v.cache = c }
}

// NewViewer creates a viewer drawing markers into track and event details
// into details.
func NewViewer(source Source, track *widget.Container, details *widget.Panel, opts ...Option) *Viewer {
	log := util.Component("timeline")
	ctx, cancel := context.WithCancel(context.Background())
	v := &Viewer{
		source:     source,
		dates:      rawDates{},
		track:      track,
		details:    details,
		builder:    NewMarkerBuilder(log),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		eventType:  model.FilterAll,
		zoomTenths: DefaultZoomTenths,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Close cancels in-flight requests. The viewer must not be used afterwards.
func (v *Viewer) Close() {
	v.loads.Stop()
	v.detailLoads.Stop()
	v.cancel()
}

// Bind wires the type select to the viewer.
func (v *Viewer) Bind(typeSelect *widget.Input) {
	if typeSelect != nil {
		typeSelect.OnInput(v.SetType)
	}
}

// Load fetches the event list once and renders the markers. Failures are
// logged and leave the track unchanged.
func (v *Viewer) Load(ctx context.Context) error {
	ctx, token, cancel := v.loads.Begin(ctx)
	defer cancel()

	events, err := v.source.TimelineEvents(ctx)
	if err != nil {
		if !v.loads.IsCurrent(token) {
			return generation.ErrSuperseded
		}
		v.log.Error("Error fetching events", util.F("error", err))
		return err
	}

	v.mu.Lock()
	if !v.loads.IsCurrent(token) {
		v.mu.Unlock()
		return generation.ErrSuperseded
	}
	v.events = events
	v.loaded = true
	v.mu.Unlock()

	v.log.Info("events loaded", util.F("count", len(events)))
	v.Render()
	return nil
}

// Loaded reports whether a load has succeeded.
func (v *Viewer) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// SetType changes the type filter and re-renders the markers.
func (v *Viewer) SetType(eventType string) {
	if eventType == "" {
		eventType = model.FilterAll
	}
	v.mu.Lock()
	v.eventType = eventType
	v.mu.Unlock()
	v.Render()
}

// Type returns the active type filter.
func (v *Viewer) Type() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.eventType
}

// Markers returns the markers for the events passing the type filter.
func (v *Viewer) Markers() []Marker {
	v.mu.RLock()
	visible := FilterByType(v.events, v.eventType)
	v.mu.RUnlock()
	return v.builder.Build(visible)
}

// Render rebuilds the track with one clickable block per marker.
func (v *Viewer) Render() {
	markers := v.Markers()

	v.track.Clear()
	for _, m := range markers {
		event := m.Event
		block := &widget.Block{
			ID:       event.ID.String(),
			Kind:     widget.KindMarker,
			Title:    event.Label(),
			Tag:      event.Type,
			Date:     v.dates.FormatDate(event.Date),
			Position: m.Position,
		}
		block.OnClick(func() {
			// Failures are already logged by ShowDetail.
			_ = v.ShowDetail(v.ctx, event)
		})
		v.track.Append(block)
	}
}

// Zoom returns the scale factor applied to the track.
func (v *Viewer) Zoom() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return float64(v.zoomTenths) / 10
}

// ZoomIn increases the scale by one step up to the maximum.
func (v *Viewer) ZoomIn() float64 {
	return v.adjustZoom(ZoomStepTenths)
}

// ZoomOut decreases the scale by one step down to the minimum.
func (v *Viewer) ZoomOut() float64 {
	return v.adjustZoom(-ZoomStepTenths)
}

// adjustZoom only rescales; markers are not rebuilt.
func (v *Viewer) adjustZoom(delta int) float64 {
	v.mu.Lock()
	z := v.zoomTenths + delta
	if z < MinZoomTenths {
		z = MinZoomTenths
	}
	if z > MaxZoomTenths {
		z = MaxZoomTenths
	}
	v.zoomTenths = z
	v.mu.Unlock()

	zoom := float64(z) / 10
	v.log.Debug("zoom changed", util.F("zoom", zoom))
	return zoom
}

// Selected returns the event whose details were last shown.
func (v *Viewer) Selected() (model.TimelineEvent, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.selected == nil {
		return model.TimelineEvent{}, false
	}
	return *v.selected, true
}

// ShowDetail fetches the event's detail record and shows it in the detail
// panel. Failures are logged and leave the panel unchanged. A response
// arriving after a newer ShowDetail started is discarded.
func (v *Viewer) ShowDetail(ctx context.Context, event model.TimelineEvent) error {
	ctx, token, cancel := v.detailLoads.Begin(ctx)
	defer cancel()

	detail, err := v.fetchDetail(ctx, event)
	if err != nil {
		if !v.detailLoads.IsCurrent(token) {
			return generation.ErrSuperseded
		}
		v.log.Error("Error fetching event details",
			util.F("id", event.ID.String()), util.F("type", event.Type), util.F("error", err))
		return err
	}

	lines := []string{
		detail.Description,
		fmt.Sprintf("Date: %s", v.dates.FormatDate(detail.Date)),
	}

	// The selection and the panel change together under v.mu.
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.detailLoads.IsCurrent(token) {
		return generation.ErrSuperseded
	}
	selected := event
	v.selected = &selected
	v.details.Show(detail.Title, lines, detail.Media)
	return nil
}

func (v *Viewer) fetchDetail(ctx context.Context, event model.TimelineEvent) (model.EventDetail, error) {
	if v.cache != nil {
		if detail, ok := v.cache.Get(event); ok {
			v.log.Debug("event detail from cache", util.F("id", event.ID.String()))
			return detail, nil
		}
	}
	detail, err := v.source.EventDetail(ctx, event)
	if err == nil && v.cache != nil {
		v.cache.Set(event, detail)
	}
	return detail, err
}
