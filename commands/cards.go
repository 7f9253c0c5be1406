package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/droe-core/droe-view/internal/config"
	"github.com/droe-core/droe-view/internal/core/cards"
	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/presentation/display"
	"github.com/droe-core/droe-view/internal/presentation/formatter"
	"github.com/droe-core/droe-view/internal/presentation/interaction"
	"github.com/droe-core/droe-view/internal/presentation/widget"
	"github.com/droe-core/droe-view/internal/util"
)

var (
	cardsSearch      string
	cardsType        string
	cardsOutput      string
	cardsInteractive bool

	cardsCmd = &cobra.Command{
		Use:   "cards",
		Short: "List and filter the card gallery",
		Long: `Fetch the card collection once and show the cards matching the
search text (title or description, case-insensitive) and the type filter.

In interactive mode the filters can be changed repeatedly without another
request; picking a card expands it and prints its page URL.`,
		RunE: runCards,
	}
)

func init() {
	cardsCmd.Flags().StringVarP(&cardsSearch, "search", "s", "", "Search text matched against title and description")
	cardsCmd.Flags().StringVarP(&cardsType, "type", "t", model.FilterAll, "Card type to show (all for every type)")
	cardsCmd.Flags().StringVarP(&cardsOutput, "output", "o", "table", "Output format (table, json)")
	cardsCmd.Flags().BoolVarP(&cardsInteractive, "interactive", "i", false, "Browse interactively")
	rootCmd.AddCommand(cardsCmd)
}

// cardsView holds the widgets of the card browser page.
type cardsView struct {
	browser    *cards.Browser
	grid       *widget.Container
	search     *widget.Input
	typeSelect *widget.Input
	quickFind  *widget.Input
	nav        *display.Navigator
}

func newCardsView(cfg *config.Config, source cards.Source, out io.Writer) (*cardsView, error) {
	dates, err := newDateFormatter(cfg)
	if err != nil {
		return nil, err
	}

	v := &cardsView{
		grid:       widget.NewContainer("card-grid"),
		search:     widget.NewInput("search-input", ""),
		typeSelect: widget.NewInput("filter-select", model.FilterAll),
		quickFind:  widget.NewInput("quick-find", ""),
		nav:        display.NewNavigator(out, cfg.API.BaseURL, useColor(cfg, out)),
	}
	v.browser = cards.NewBrowser(source, v.nav, v.grid,
		cards.WithDateFormatter(dates),
		cards.WithRenderHook(v.decorate),
	)
	v.browser.Bind(v.search, v.typeSelect)
	interaction.SetupSearch(v.quickFind, v.grid)
	return v, nil
}

// decorate re-applies expansion and quick-find to freshly rendered cards.
func (v *cardsView) decorate(grid *widget.Container) {
	interaction.SetupCardExpansion(grid)
	if term := v.quickFind.Value(); term != "" {
		interaction.ApplySearch(grid, term)
	}
}

func runCards(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cardsOutput != "table" && cardsOutput != "json" {
		return fmt.Errorf("unsupported output format %q (use table or json)", cardsOutput)
	}
	if err := validType(cardsType, cfg.Cards.Types); err != nil {
		return err
	}

	api, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	view, err := newCardsView(cfg, api, out)
	if err != nil {
		return err
	}
	defer view.browser.Close()

	view.search.SetValue(cardsSearch)
	view.typeSelect.SetValue(cardsType)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	loadErr := view.browser.Load(ctx)
	if !cardsInteractive {
		if loadErr != nil {
			return fmt.Errorf("failed to load cards: %w", loadErr)
		}
		return printCards(view, cfg, out)
	}

	if loadErr != nil {
		util.LogWarnf("starting with an empty gallery: %v", loadErr)
	}
	return browseCards(ctx, view, cfg, out)
}

func printCards(view *cardsView, cfg *config.Config, out io.Writer) error {
	if cardsOutput == "json" {
		visible := view.browser.Visible()
		if visible == nil {
			visible = []model.Card{}
		}
		return formatter.NewJSONFormatter(out).Format(visible)
	}
	return formatter.NewTableFormatter(out, formatterOptions(cfg, out)).FormatCards(view.grid)
}

const (
	menuOpen = iota
	menuSearch
	menuType
	menuQuickFind
	menuQuit
)

func browseCards(ctx context.Context, view *cardsView, cfg *config.Config, out io.Writer) error {
	table := formatter.NewTableFormatter(out, formatterOptions(cfg, out))
	items := []string{"Open a card", "Search", "Filter by type", "Quick find", "Quit"}

	for ctx.Err() == nil {
		if err := table.FormatCards(view.grid); err != nil {
			return err
		}

		menu := promptui.Select{Label: "Cards", Items: items, HideSelected: true}
		choice, _, err := menu.Run()
		if err != nil {
			return promptDone(err)
		}

		switch choice {
		case menuOpen:
			err = openCard(view)
		case menuSearch:
			err = promptInto(view.search, "Search")
		case menuType:
			err = selectType(view.typeSelect, cfg.Cards.Types)
		case menuQuickFind:
			err = promptInto(view.quickFind, "Quick find")
		case menuQuit:
			return nil
		}
		if err != nil {
			return promptDone(err)
		}
	}
	return nil
}

func openCard(view *cardsView) error {
	visible := view.grid.Visible()
	if len(visible) == 0 {
		util.LogInfo("no cards to open")
		return nil
	}
	titles := make([]string, len(visible))
	for i, b := range visible {
		titles[i] = fmt.Sprintf("%s (%s)", b.Title, b.Tag)
	}
	sel := promptui.Select{Label: "Card", Items: titles, Size: 10}
	idx, _, err := sel.Run()
	if err != nil {
		return err
	}
	visible[idx].Click()
	return nil
}

func promptInto(input *widget.Input, label string) error {
	p := promptui.Prompt{Label: label, Default: input.Value(), AllowEdit: true}
	value, err := p.Run()
	if err != nil {
		return err
	}
	input.SetValue(value)
	return nil
}

func selectType(input *widget.Input, types []string) error {
	options := model.TypeOptions(types)
	cursor := 0
	for i, opt := range options {
		if opt == input.Value() {
			cursor = i
		}
	}
	sel := promptui.Select{Label: "Type", Items: options, CursorPos: cursor}
	_, value, err := sel.Run()
	if err != nil {
		return err
	}
	input.SetValue(value)
	return nil
}

// promptDone treats Ctrl+C and Ctrl+D at a prompt as a normal exit.
func promptDone(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return nil
	}
	return err
}
