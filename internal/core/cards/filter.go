package cards

import (
	"strings"

	"github.com/droe-core/droe-view/internal/core/model"
)

// Filter returns the cards whose title or description contains term
// (case-insensitive) and whose type matches cardType. cardType "all" or
// empty matches every type. Order is preserved.
func Filter(cards []model.Card, term, cardType string) []model.Card {
	term = strings.ToLower(term)
	out := make([]model.Card, 0, len(cards))
	for _, c := range cards {
		if Matches(c, term, cardType) {
			out = append(out, c)
		}
	}
	return out
}

// Matches applies the filter predicate to one card. term must already be
// lower-cased.
func Matches(c model.Card, term, cardType string) bool {
	matchesSearch := strings.Contains(strings.ToLower(c.Title), term) ||
		strings.Contains(strings.ToLower(c.Description), term)
	matchesType := cardType == "" || cardType == model.FilterAll || c.Type == cardType
	return matchesSearch && matchesType
}
