// Package testsupport provides a fake DROE backend for tests.
package testsupport

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	"github.com/droe-core/droe-view/internal/core/model"
)

// AnswerHandler decides the status and body for a submitted answer.
type AnswerHandler func(answer string) (int, model.AnswerResponse)

// BackendOption customizes a Backend.
type BackendOption func(*Backend)

// Backend is an in-process HTTP server serving the API endpoints.
type Backend struct {
	server *httptest.Server

	mu       sync.Mutex
	cards    []model.Card
	events   []model.TimelineEvent
	details  map[string]model.EventDetail
	answer   AnswerHandler
	answers  []string
	requests map[string]int
	raw      map[string]rawResponse
	holds    map[string][]*hold
	allHolds []*hold
}

type rawResponse struct {
	status int
	body   string
}

type hold struct {
	arrived  chan struct{}
	released chan struct{}
	once     sync.Once
}

func (h *hold) release() {
	h.once.Do(func() { close(h.released) })
}

// WithCards seeds the card collection.
func WithCards(cards ...model.Card) BackendOption {
	return func(b *Backend) { b.cards = cards }
}

// WithEvents seeds the timeline event list.
func WithEvents(events ...model.TimelineEvent) BackendOption {
	return func(b *Backend) { b.events = events }
}

// WithDetail registers the detail record for an event.
func WithDetail(eventType, id string, detail model.EventDetail) BackendOption {
	return func(b *Backend) { b.details[eventType+"/"+id] = detail }
}

// WithAnswerHandler overrides how answers are judged. The default accepts
// everything with an empty body.
func WithAnswerHandler(h AnswerHandler) BackendOption {
	return func(b *Backend) { b.answer = h }
}

// WithRawResponse makes path answer with a fixed status and body.
func WithRawResponse(path string, status int, body string) BackendOption {
	return func(b *Backend) { b.raw[path] = rawResponse{status: status, body: body} }
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB, opts ...BackendOption) *Backend {
	t.Helper()

	b := &Backend{
		details:  make(map[string]model.EventDetail),
		requests: make(map[string]int),
		raw:      make(map[string]rawResponse),
		holds:    make(map[string][]*hold),
		answer: func(string) (int, model.AnswerResponse) {
			return http.StatusOK, model.AnswerResponse{}
		},
	}
	for _, opt := range opts {
		opt(b)
	}

	b.server = httptest.NewServer(b.routes())
	t.Cleanup(func() {
		b.releaseAll()
		b.server.Close()
	})
	return b
}

// URL is the base URL of the server.
func (b *Backend) URL() string {
	return b.server.URL
}

// SetCards replaces the card collection served from now on.
func (b *Backend) SetCards(cards ...model.Card) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards = cards
}

// SetEvents replaces the event list served from now on.
func (b *Backend) SetEvents(events ...model.TimelineEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = events
}

// Answers returns every answer received so far.
func (b *Backend) Answers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.answers))
	copy(out, b.answers)
	return out
}

// Requests returns how many requests reached path.
func (b *Backend) Requests(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[path]
}

// HoldNext blocks the next request to path until release is called. The
// returned channel is closed once that request has arrived.
func (b *Backend) HoldNext(path string) (arrived <-chan struct{}, release func()) {
	h := &hold{arrived: make(chan struct{}), released: make(chan struct{})}
	b.mu.Lock()
	b.holds[path] = append(b.holds[path], h)
	b.allHolds = append(b.allHolds, h)
	b.mu.Unlock()
	return h.arrived, h.release
}

func (b *Backend) releaseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.allHolds {
		h.release()
	}
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.track)

	r.Get("/api/cards", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		cards := b.cards
		b.mu.Unlock()
		if cards == nil {
			cards = []model.Card{}
		}
		writeJSON(w, http.StatusOK, cards)
	})

	r.Get("/api/timeline/events", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		events := b.events
		b.mu.Unlock()
		if events == nil {
			events = []model.TimelineEvent{}
		}
		writeJSON(w, http.StatusOK, events)
	})

	r.Get("/api/timeline/{type}/{id}", func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "type") + "/" + chi.URLParam(r, "id")
		b.mu.Lock()
		detail, ok := b.details[key]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found"})
			return
		}
		writeJSON(w, http.StatusOK, detail)
	})

	r.Post("/api/interview/answer", func(w http.ResponseWriter, r *http.Request) {
		var req model.AnswerRequest
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		b.mu.Lock()
		b.answers = append(b.answers, req.Answer)
		handler := b.answer
		b.mu.Unlock()

		status, resp := handler(req.Answer)
		writeJSON(w, status, resp)
	})

	return r
}

// track counts requests, applies holds and serves raw overrides.
func (b *Backend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		b.mu.Lock()
		b.requests[path]++
		var h *hold
		if hs := b.holds[path]; len(hs) > 0 {
			h = hs[0]
			b.holds[path] = hs[1:]
		}
		raw, hasRaw := b.raw[path]
		b.mu.Unlock()

		if h != nil {
			close(h.arrived)
			select {
			case <-h.released:
			case <-r.Context().Done():
				return
			}
		}

		if hasRaw {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(raw.status)
			_, _ = w.Write([]byte(raw.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
