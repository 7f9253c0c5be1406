package formatter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/droe-core/droe-view/internal/presentation/layout"
	"github.com/droe-core/droe-view/internal/util"
)

// Options are shared by all formatters.
type Options struct {
	// Locale is a BCP 47 tag used for title casing and numbers.
	Locale string
	Color  bool
	// Width overrides the terminal width when positive.
	Width int
}

func (o Options) tag() language.Tag {
	tag, err := language.Parse(o.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func (o Options) sizer() layout.Sizer {
	return layout.Sizer{Width: o.Width}
}

func (o Options) colorize(text, color string) string {
	return util.Colorize(text, color, o.Color)
}

// TypeLabel turns an API type such as "time_period" into "Time Period".
func TypeLabel(t string, locale string) string {
	words := strings.ReplaceAll(t, "_", " ")
	return cases.Title(Options{Locale: locale}.tag()).String(words)
}

// Percent formats p as a whole percentage for the locale.
func Percent(p float64, locale string) string {
	return message.NewPrinter(Options{Locale: locale}.tag()).Sprintf("%.0f%%", p)
}
