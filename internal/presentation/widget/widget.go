// Package widget is a small retained element tree that views render into.
// Terminal formatters draw it; interaction helpers wire handlers onto it.
package widget

import (
	"strings"
	"sync"
)

// Block kinds.
const (
	KindCard   = "card"
	KindMarker = "marker"
)

// Block is a clickable content element: a card in the gallery or a marker
// on the timeline.
type Block struct {
	ID       string
	Kind     string
	Title    string
	Body     string
	Media    string
	Tag      string
	Date     string
	Position float64

	mu       sync.RWMutex
	hidden   bool
	expanded bool
	onClick  []func()
}

// Text is the searchable text content of the block.
func (b *Block) Text() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{b.Title, b.Body, b.Tag, b.Date} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// OnClick registers a click handler.
func (b *Block) OnClick(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onClick = append(b.onClick, fn)
}

// Click runs the registered handlers in registration order.
func (b *Block) Click() {
	b.mu.RLock()
	handlers := make([]func(), len(b.onClick))
	copy(handlers, b.onClick)
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
}

// Hidden reports whether the block is filtered out of display.
func (b *Block) Hidden() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.hidden
}

// SetHidden shows or hides the block.
func (b *Block) SetHidden(hidden bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hidden = hidden
}

// Expanded reports whether the block shows its full body.
func (b *Block) Expanded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.expanded
}

// ToggleExpanded flips the expanded state.
func (b *Block) ToggleExpanded() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expanded = !b.expanded
}

// Container holds blocks in display order.
type Container struct {
	Name string

	mu     sync.RWMutex
	blocks []*Block
}

// NewContainer creates an empty container.
func NewContainer(name string) *Container {
	return &Container{Name: name}
}

// Clear removes every block.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = nil
}

// Append adds blocks at the end.
func (c *Container) Append(blocks ...*Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = append(c.blocks, blocks...)
}

// Blocks returns a snapshot of the blocks.
func (c *Container) Blocks() []*Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Visible returns the blocks that are not hidden.
func (c *Container) Visible() []*Block {
	all := c.Blocks()
	out := make([]*Block, 0, len(all))
	for _, b := range all {
		if !b.Hidden() {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of blocks.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Input is a text field or a select; listeners fire on every change.
type Input struct {
	Name string

	mu        sync.RWMutex
	value     string
	listeners []func(string)
}

// NewInput creates an input holding value.
func NewInput(name, value string) *Input {
	return &Input{Name: name, value: value}
}

// Value returns the current value.
func (i *Input) Value() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.value
}

// OnInput registers a change listener.
func (i *Input) OnInput(fn func(string)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.listeners = append(i.listeners, fn)
}

// SetValue stores value and notifies listeners, even when unchanged.
func (i *Input) SetValue(value string) {
	i.mu.Lock()
	i.value = value
	listeners := make([]func(string), len(i.listeners))
	copy(listeners, i.listeners)
	i.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
}

// Panel is a titled text area that can be shown or hidden, like the event
// detail box or the follow-up question list.
type Panel struct {
	Name string

	mu      sync.RWMutex
	visible bool
	title   string
	lines   []string
	media   string
}

// NewPanel creates a hidden panel.
func NewPanel(name string) *Panel {
	return &Panel{Name: name}
}

// Show replaces the panel content and makes it visible.
func (p *Panel) Show(title string, lines []string, media string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
	p.lines = append([]string(nil), lines...)
	p.media = media
	p.visible = true
}

// Hide clears and hides the panel.
func (p *Panel) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = false
	p.title = ""
	p.lines = nil
	p.media = ""
}

// Content returns the panel state.
func (p *Panel) Content() (visible bool, title string, lines []string, media string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.visible, p.title, append([]string(nil), p.lines...), p.media
}
