package model

// FilterAll disables type filtering.
const FilterAll = "all"

// Card types served by the backend.
const (
	CardMemory     = "memory"
	CardPerson     = "person"
	CardPlace      = "place"
	CardLocation   = "location"
	CardEvent      = "event"
	CardEmotion    = "emotion"
	CardYear       = "year"
	CardDay        = "day"
	CardTimePeriod = "time_period"
)

// Timeline event types.
const (
	EventTypeEvent  = "event"
	EventTypeMemory = "memory"
)

// DefaultCardTypes is the filter list offered when none is configured.
var DefaultCardTypes = []string{
	CardMemory, CardPerson, CardPlace, CardLocation, CardEvent,
	CardEmotion, CardYear, CardDay, CardTimePeriod,
}

// DefaultEventTypes is the timeline filter list offered when none is configured.
var DefaultEventTypes = []string{EventTypeEvent, EventTypeMemory}

// TypeOptions prefixes types with FilterAll.
func TypeOptions(types []string) []string {
	opts := make([]string, 0, len(types)+1)
	opts = append(opts, FilterAll)
	for _, t := range types {
		if t != FilterAll {
			opts = append(opts, t)
		}
	}
	return opts
}

// NextOption returns the option after current, wrapping around. Unknown
// values restart at the first option.
func NextOption(options []string, current string) string {
	if len(options) == 0 {
		return current
	}
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
