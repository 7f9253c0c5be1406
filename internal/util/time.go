package util

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// dateLayouts are the date encodings the backend is known to emit, most
// specific first. Date-only values are interpreted as UTC midnight.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an API date string.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// TimeProvider formats dates for display in a configured timezone and layout
type TimeProvider struct {
	location *time.Location
	layout   string
	mu       sync.RWMutex
}

// DefaultDateLayout is used when no display layout is configured.
const DefaultDateLayout = "Jan 2, 2006"

// NewTimeProvider creates a provider for the given timezone name and layout
func NewTimeProvider(timezone, layout string) (*TimeProvider, error) {
	tp := &TimeProvider{layout: layout}
	if tp.layout == "" {
		tp.layout = DefaultDateLayout
	}
	if err := tp.SetTimezone(timezone); err != nil {
		return nil, err
	}
	return tp, nil
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Europe/London", timezone, err)
		}
		loc = l
	}
	tp.location = loc
	return nil
}

// Format formats t with the provider's layout. Date-only values (UTC
// midnight) are printed as calendar dates without shifting the day.
func (tp *TimeProvider) Format(t time.Time) string {
	tp.mu.RLock()
	defer tp.mu.RUnlock()

	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(tp.layout)
	}
	return t.In(tp.location).Format(tp.layout)
}

// FormatDate parses an API date string and formats it; unparseable input
// is returned as-is.
func (tp *TimeProvider) FormatDate(value string) string {
	t, err := ParseDate(value)
	if err != nil {
		return value
	}
	return tp.Format(t)
}
