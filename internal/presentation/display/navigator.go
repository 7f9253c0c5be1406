package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/droe-core/droe-view/internal/util"
)

// Navigator announces page navigations. There is no browser to load the
// page, so the target URL is printed and remembered for the caller.
type Navigator struct {
	w       io.Writer
	baseURL string
	color   bool

	mu   sync.Mutex
	last string
}

// NewNavigator creates a navigator resolving paths against baseURL.
func NewNavigator(w io.Writer, baseURL string, color bool) *Navigator {
	return &Navigator{w: w, baseURL: strings.TrimRight(baseURL, "/"), color: color}
}

// Navigate prints the absolute URL of path.
func (n *Navigator) Navigate(path string) error {
	url := n.baseURL + path
	n.mu.Lock()
	n.last = url
	n.mu.Unlock()

	util.LogDebugf("navigate to %s", url)
	_, err := fmt.Fprintf(n.w, "→ %s\n", util.Colorize(url, util.ColorCyan, n.color))
	return err
}

// Last returns the most recent navigation target.
func (n *Navigator) Last() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last, n.last != ""
}
