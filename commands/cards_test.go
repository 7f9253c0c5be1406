package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droe-core/droe-view/internal/config"
	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/data/client"
	"github.com/droe-core/droe-view/internal/testsupport"
)

var galleryCards = []model.Card{
	{ID: "1", Title: "Summer at the Lake", Description: "Swimming every day", Type: "memory", Date: "1990-07-01", Media: "lake.jpg"},
	{ID: "2", Title: "Grandma Rose", Description: "Baked bread on Sundays", Type: "person", Date: "1935-03-12"},
	{ID: "3", Title: "Old House", Description: "The lake view from the porch", Type: "place", Date: "1980-01-01"},
}

func TestCardsTable(t *testing.T) {
	backend := testsupport.NewBackend(t, testsupport.WithCards(galleryCards...))

	out, err := executeCommand(t, "cards", "--base-url", backend.URL())
	require.NoError(t, err)
	assert.Contains(t, out, "Summer at the Lake")
	assert.Contains(t, out, "Grandma Rose")
	assert.Contains(t, out, "Jul 1, 1990")
	assert.Contains(t, out, "Showing 3 of 3 cards")
	assert.Equal(t, 1, backend.Requests("/api/cards"))
}

func TestCardsFilteredJSON(t *testing.T) {
	backend := testsupport.NewBackend(t, testsupport.WithCards(galleryCards...))

	out, err := executeCommand(t, "cards", "--base-url", backend.URL(), "--search", "LAKE", "--type", "place", "-o", "json")
	require.NoError(t, err)

	var got []model.Card
	require.NoError(t, sonic.UnmarshalString(out, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Old House", got[0].Title)
}

func TestCardsNoMatchJSONIsEmptyList(t *testing.T) {
	backend := testsupport.NewBackend(t, testsupport.WithCards(galleryCards...))

	out, err := executeCommand(t, "cards", "--base-url", backend.URL(), "--search", "zebra", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestCardsErrors(t *testing.T) {
	backend := testsupport.NewBackend(t, testsupport.WithRawResponse("/api/cards", 200, "not json"))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad output", args: []string{"cards", "-o", "xml"}, want: "unsupported output format"},
		{name: "unknown type", args: []string{"cards", "--type", "dragon"}, want: "unknown type"},
		{name: "load failure", args: []string{"cards", "--base-url", backend.URL()}, want: "failed to load cards"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCardsViewClickExpandsAndNavigates(t *testing.T) {
	backend := testsupport.NewBackend(t, testsupport.WithCards(galleryCards...))
	cfg := config.Default()
	cfg.API.BaseURL = backend.URL()
	api, err := client.New(client.Config{BaseURL: backend.URL()})
	require.NoError(t, err)

	var out bytes.Buffer
	view, err := newCardsView(cfg, api, &out)
	require.NoError(t, err)
	defer view.browser.Close()
	require.NoError(t, view.browser.Load(context.Background()))

	first := view.grid.Blocks()[0]
	first.Click()
	assert.True(t, first.Expanded())
	assert.Contains(t, out.String(), "→ "+backend.URL()+"/cards/memory/1")

	// A re-render wires expansion onto the new blocks.
	view.typeSelect.SetValue("memory")
	rendered := view.grid.Blocks()[0]
	assert.False(t, rendered.Expanded())
	rendered.Click()
	assert.True(t, rendered.Expanded())
}

func TestCardsViewQuickFindSurvivesRerender(t *testing.T) {
	backend := testsupport.NewBackend(t, testsupport.WithCards(galleryCards...))
	cfg := config.Default()
	api, err := client.New(client.Config{BaseURL: backend.URL()})
	require.NoError(t, err)

	view, err := newCardsView(cfg, api, &bytes.Buffer{})
	require.NoError(t, err)
	defer view.browser.Close()
	require.NoError(t, view.browser.Load(context.Background()))

	view.quickFind.SetValue("grandma")
	require.Len(t, view.grid.Visible(), 1)

	view.search.SetValue("")
	require.Len(t, view.grid.Visible(), 1)
	assert.Equal(t, "2", view.grid.Visible()[0].ID)
	assert.Equal(t, 3, view.grid.Len())
}
