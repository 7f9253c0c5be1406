// Package cards implements the card gallery: a fetch-once collection with
// client-side text and type filtering.
package cards

import (
	"context"
	"errors"
	"sync"

	"github.com/droe-core/droe-view/internal/core/generation"
	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/presentation/widget"
	"github.com/droe-core/droe-view/internal/util"
)

// Source fetches the card collection.
type Source interface {
	Cards(ctx context.Context) ([]model.Card, error)
}

// Navigator performs a page navigation.
type Navigator interface {
	Navigate(path string) error
}

// DateFormatter renders an API date for display.
type DateFormatter interface {
	FormatDate(value string) string
}

type rawDates struct{}

func (rawDates) FormatDate(value string) string { return value }

// Browser owns the fetched cards and the active filter. Every change to
// the data or the filter rebuilds the grid from scratch.
type Browser struct {
	source Source
	nav    Navigator
	dates  DateFormatter
	grid   *widget.Container
	log    util.LoggerInterface

	onRender []func(*widget.Container)

	mu       sync.RWMutex
	cards    []model.Card
	search   string
	cardType string
	loaded   bool

	loads generation.Tracker
}

// Option customizes a Browser.
type Option func(*Browser)

// WithDateFormatter sets how card dates are shown.
func WithDateFormatter(f DateFormatter) Option {
	return func(b *Browser) { b.dates = f }
}

// WithRenderHook runs fn on the grid after every render, once the new
// blocks are in place.
func WithRenderHook(fn func(*widget.Container)) Option {
	return func(b *Browser) { b.onRender = append(b.onRender, fn) }
}

// NewBrowser creates a browser rendering into grid.
func NewBrowser(source Source, nav Navigator, grid *widget.Container, opts ...Option) *Browser {
	b := &Browser{
		source:   source,
		nav:      nav,
		dates:    rawDates{},
		grid:     grid,
		cardType: model.FilterAll,
		log:      util.Component("cards"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind wires the search field and the type select to the browser.
func (b *Browser) Bind(search, typeSelect *widget.Input) {
	if search != nil {
		search.OnInput(b.SetSearch)
	}
	if typeSelect != nil {
		typeSelect.OnInput(b.SetType)
	}
}

// Load fetches the collection once and renders it. Failures are logged and
// leave the grid as it was. A load superseded by a newer one is discarded.
func (b *Browser) Load(ctx context.Context) error {
	ctx, token, cancel := b.loads.Begin(ctx)
	defer cancel()

	cards, err := b.source.Cards(ctx)
	if err != nil {
		if !b.loads.IsCurrent(token) {
			return generation.ErrSuperseded
		}
		b.log.Error("Error fetching cards", util.F("error", err))
		return err
	}

	b.mu.Lock()
	if !b.loads.IsCurrent(token) {
		b.mu.Unlock()
		b.log.Debug("discarding superseded card load", util.F("count", len(cards)))
		return generation.ErrSuperseded
	}
	b.cards = cards
	b.loaded = true
	b.mu.Unlock()

	b.log.Info("cards loaded", util.F("count", len(cards)))
	b.Render()
	return nil
}

// Close cancels any in-flight load.
func (b *Browser) Close() {
	b.loads.Stop()
}

// SetSearch updates the search term and re-renders.
func (b *Browser) SetSearch(term string) {
	b.mu.Lock()
	b.search = term
	b.mu.Unlock()
	b.Render()
}

// SetType updates the type filter and re-renders.
func (b *Browser) SetType(cardType string) {
	if cardType == "" {
		cardType = model.FilterAll
	}
	b.mu.Lock()
	b.cardType = cardType
	b.mu.Unlock()
	b.Render()
}

// Filter returns the active search term and type.
func (b *Browser) Filter() (search, cardType string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.search, b.cardType
}

// Loaded reports whether a load has succeeded.
func (b *Browser) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// Cards returns the full fetched collection.
func (b *Browser) Cards() []model.Card {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// Visible returns the cards passing the active filter.
func (b *Browser) Visible() []model.Card {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Filter(b.cards, b.search, b.cardType)
}

// Render rebuilds the grid with one clickable block per visible card.
func (b *Browser) Render() {
	visible := b.Visible()

	b.grid.Clear()
	for _, card := range visible {
		card := card
		block := &widget.Block{
			ID:    card.ID.String(),
			Kind:  widget.KindCard,
			Title: card.Title,
			Body:  card.Description,
			Media: card.Media,
			Tag:   card.Type,
			Date:  b.dates.FormatDate(card.Date),
		}
		block.OnClick(func() {
			if err := b.Open(card); err != nil {
				b.log.Error("navigation failed", util.F("path", card.Path()), util.F("error", err))
			}
		})
		b.grid.Append(block)
	}

	for _, fn := range b.onRender {
		fn(b.grid)
	}
}

// Open navigates to the card's page.
func (b *Browser) Open(card model.Card) error {
	if b.nav == nil {
		return errors.New("no navigator configured")
	}
	return b.nav.Navigate(card.Path())
}
