package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/droe-core/droe-view/internal/config"
	"github.com/droe-core/droe-view/internal/data/client"
	"github.com/droe-core/droe-view/internal/presentation/formatter"
	"github.com/droe-core/droe-view/internal/util"
)

func newAPIClient(cfg *config.Config) (*client.Client, error) {
	return client.New(client.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	})
}

func newDateFormatter(cfg *config.Config) (*util.TimeProvider, error) {
	return util.NewTimeProvider(cfg.Display.Timezone, cfg.Display.DateFormat)
}

// useColor enables color only when out is a terminal (or forced by config).
func useColor(cfg *config.Config, out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return cfg.Display.Color == "always"
	}
	return cfg.UseColor(f)
}

func formatterOptions(cfg *config.Config, out io.Writer) formatter.Options {
	return formatter.Options{
		Locale: cfg.Display.Locale,
		Color:  useColor(cfg, out),
	}
}

// signalContext is cancelled on the first interrupt.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		select {
		case <-sigChan:
			util.LogDebug("interrupt received")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// validType checks t against the configured type list; empty and "all"
// are always accepted.
func validType(t string, types []string) error {
	if t == "" || t == "all" {
		return nil
	}
	for _, known := range types {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("unknown type %q (known: %v)", t, types)
}
