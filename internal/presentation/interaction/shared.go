// Package interaction holds keyboard input and the generic behaviors that
// can be attached to any widget container.
package interaction

import (
	"strings"

	"github.com/droe-core/droe-view/internal/presentation/widget"
)

// SetupSearch hides every card in container whose text does not contain
// the input's value, re-evaluated on each input change. It does nothing and
// returns false when either argument is nil.
func SetupSearch(input *widget.Input, container *widget.Container) bool {
	if input == nil || container == nil {
		return false
	}
	input.OnInput(func(term string) {
		ApplySearch(container, term)
	})
	return true
}

// ApplySearch shows the cards matching term and hides the rest. It returns
// the number of cards left visible.
func ApplySearch(container *widget.Container, term string) int {
	term = strings.ToLower(term)
	shown := 0
	for _, b := range container.Blocks() {
		if b.Kind != widget.KindCard {
			continue
		}
		match := strings.Contains(strings.ToLower(b.Text()), term)
		b.SetHidden(!match)
		if match {
			shown++
		}
	}
	return shown
}

// SetupCardExpansion makes a click toggle the expanded state of every card
// present in container right now. Cards appended later are not wired. It
// returns the number of cards wired.
func SetupCardExpansion(container *widget.Container) int {
	if container == nil {
		return 0
	}
	wired := 0
	for _, b := range container.Blocks() {
		if b.Kind != widget.KindCard {
			continue
		}
		b.OnClick(b.ToggleExpanded)
		wired++
	}
	return wired
}
