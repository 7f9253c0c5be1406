package formatter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/droe-core/droe-view/internal/core/interview"
	"github.com/droe-core/droe-view/internal/presentation/widget"
	"github.com/droe-core/droe-view/internal/util"
)

// collapsedWidth bounds the description of a card that is not expanded.
const collapsedWidth = 40

type TableFormatter struct {
	w    io.Writer
	opts Options
}

func NewTableFormatter(w io.Writer, opts Options) *TableFormatter {
	return &TableFormatter{w: w, opts: opts}
}

func (f *TableFormatter) newWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(f.w)
	tw.SetStyle(table.StyleRounded)
	if f.opts.Color {
		tw.Style().Color.Header = text.Colors{text.Bold, text.FgCyan}
	}
	return tw
}

// FormatCards renders the visible card blocks of grid. An expanded card
// shows its full description and media reference.
func (f *TableFormatter) FormatCards(grid *widget.Container) error {
	blocks := grid.Visible()

	tw := f.newWriter()
	tw.AppendHeader(table.Row{"#", "Title", "Type", "Date", "Description", "Media"})
	for i, b := range blocks {
		desc := b.Body
		media := ""
		if b.Expanded() {
			media = b.Media
		} else {
			desc = util.Truncate(desc, collapsedWidth)
		}
		tw.AppendRow(table.Row{i + 1, b.Title, TypeLabel(b.Tag, f.opts.Locale), b.Date, desc, media})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, WidthMax: f.opts.sizer().GetMaxWidth() / 2},
	})
	tw.Render()

	_, err := fmt.Fprintf(f.w, "Showing %d of %d cards\n", len(blocks), grid.Len())
	return err
}

// FormatStages renders a stage table in walk order.
func (f *TableFormatter) FormatStages(stages *interview.StageTable) error {
	tw := f.newWriter()
	tw.AppendHeader(table.Row{"#", "Key", "Name", "Questions", "Next", "Progress"})
	for i, s := range stages.Stages() {
		next := s.Next
		if s.IsLast() {
			next = "(end)"
		}
		progress := float64(i) * 100 / float64(stages.Len())
		tw.AppendRow(table.Row{i + 1, s.Key, s.Name, len(s.Questions), next, Percent(progress, f.opts.Locale)})
	}
	tw.AppendFooter(table.Row{"", "", "Total", stages.QuestionCount(), "", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	tw.Render()
	return nil
}
