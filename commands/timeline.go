package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/droe-core/droe-view/internal/config"
	"github.com/droe-core/droe-view/internal/core/cache"
	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/core/timeline"
	"github.com/droe-core/droe-view/internal/presentation/display"
	"github.com/droe-core/droe-view/internal/presentation/formatter"
	"github.com/droe-core/droe-view/internal/presentation/interaction"
	"github.com/droe-core/droe-view/internal/presentation/widget"
)

var (
	timelineType        string
	timelineInteractive bool

	timelineCmd = &cobra.Command{
		Use:   "timeline",
		Short: "Show timeline events on a 1900-2100 axis",
		Long: `Fetch the timeline events once and place them on a linear axis from
1900-01-01 to 2100-12-31.

Interactive keys:
  +/-        zoom in or out (0.5x to 2.0x)
  t          cycle the event type filter
  n/p        select the next or previous event (also arrow keys)
  enter      show the selected event's details
  q, esc     quit`,
		RunE: runTimeline,
	}
)

const timelineKeys = "+/- zoom  t type  n/p select  enter details  q quit"

func init() {
	timelineCmd.Flags().StringVarP(&timelineType, "type", "t", model.FilterAll, "Event type to show (all for every type)")
	timelineCmd.Flags().BoolVarP(&timelineInteractive, "interactive", "i", false, "Explore with the keyboard")
	rootCmd.AddCommand(timelineCmd)
}

// timelineSession is the state of one timeline page: the viewer, its
// widgets and the keyboard selection.
type timelineSession struct {
	viewer     *timeline.Viewer
	track      *widget.Container
	details    *widget.Panel
	typeSelect *widget.Input
	types      []string
	selected   int
	opts       formatter.Options
}

func newTimelineSession(cfg *config.Config, source timeline.Source, out io.Writer) (*timelineSession, error) {
	dates, err := newDateFormatter(cfg)
	if err != nil {
		return nil, err
	}

	s := &timelineSession{
		track:      widget.NewContainer("timeline-track"),
		details:    widget.NewPanel("event-details"),
		typeSelect: widget.NewInput("timeline-filter", model.FilterAll),
		types:      model.TypeOptions(cfg.Timeline.Types),
		selected:   -1,
		opts:       formatterOptions(cfg, out),
	}
	opts := []timeline.Option{timeline.WithDateFormatter(dates)}
	if cfg.Timeline.DetailCache > 0 {
		opts = append(opts, timeline.WithDetailCache(cache.NewMemoryCache(cfg.Timeline.DetailCache)))
	}
	s.viewer = timeline.NewViewer(source, s.track, s.details, opts...)
	s.viewer.Bind(s.typeSelect)
	return s, nil
}

func (s *timelineSession) draw(w io.Writer, keys string) error {
	return formatter.NewTimelineFormatter(w, s.opts).Format(formatter.TimelineScreen{
		Markers:  s.track.Blocks(),
		Zoom:     s.viewer.Zoom(),
		Filter:   s.viewer.Type(),
		Selected: s.selected,
		Details:  s.details,
		Keys:     keys,
	})
}

// handle applies one key press and reports whether the session should end.
func (s *timelineSession) handle(ev interaction.KeyEvent) bool {
	if ev.IsQuit() {
		return true
	}

	switch ev.Type {
	case interaction.KeyRight, interaction.KeyDown:
		s.move(1)
	case interaction.KeyLeft, interaction.KeyUp:
		s.move(-1)
	case interaction.KeyEnter:
		s.open()
	case interaction.KeyChar:
		switch ev.Key {
		case '+', '=':
			s.viewer.ZoomIn()
		case '-', '_':
			s.viewer.ZoomOut()
		case 't', 'T':
			// The track is rebuilt, so the old selection index is meaningless.
			s.typeSelect.SetValue(model.NextOption(s.types, s.viewer.Type()))
			s.selected = -1
		case 'n', 'N':
			s.move(1)
		case 'p', 'P':
			s.move(-1)
		}
	}
	return false
}

func (s *timelineSession) move(delta int) {
	n := s.track.Len()
	if n == 0 {
		s.selected = -1
		return
	}
	if s.selected < 0 {
		if delta > 0 {
			s.selected = 0
		} else {
			s.selected = n - 1
		}
		return
	}
	s.selected = (s.selected + delta + n) % n
}

func (s *timelineSession) open() {
	blocks := s.track.Blocks()
	if s.selected < 0 || s.selected >= len(blocks) {
		return
	}
	blocks[s.selected].Click()
}

func runTimeline(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if err := validType(timelineType, cfg.Timeline.Types); err != nil {
		return err
	}

	api, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	session, err := newTimelineSession(cfg, api, out)
	if err != nil {
		return err
	}
	defer session.viewer.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	session.typeSelect.SetValue(timelineType)
	loadErr := session.viewer.Load(ctx)

	if !timelineInteractive {
		if loadErr != nil {
			return fmt.Errorf("failed to load timeline events: %w", loadErr)
		}
		return session.draw(out, "")
	}
	return exploreTimeline(ctx, session, out)
}

func exploreTimeline(ctx context.Context, session *timelineSession, out io.Writer) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal on stdin")
	}
	keyboard, err := interaction.NewKeyboardReader(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer keyboard.Close()

	f, isFile := out.(*os.File)
	screen := display.NewTerminalDisplay(out, isFile && term.IsTerminal(int(f.Fd())))
	screen.EnterAlternateScreen()
	defer screen.ExitAlternateScreen()

	return runTimelineLoop(ctx, session, screen, keyboard.Events())
}

// runTimelineLoop redraws after every key until quit, cancellation or the
// end of input.
func runTimelineLoop(ctx context.Context, session *timelineSession, screen *display.TerminalDisplay, events <-chan interaction.KeyEvent) error {
	draw := func(w io.Writer) error {
		return session.draw(w, timelineKeys)
	}
	if err := screen.Frame(draw); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || session.handle(ev) {
				return nil
			}
			if err := screen.Frame(draw); err != nil {
				return err
			}
		}
	}
}
