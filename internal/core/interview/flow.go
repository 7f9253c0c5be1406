package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/droe-core/droe-view/internal/core/generation"
	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/data/client"
	"github.com/droe-core/droe-view/internal/util"
)

// CompletionPath is where the user is sent once the last stage is answered.
const CompletionPath = "/cards"

var (
	ErrEmptyAnswer        = errors.New("answer is empty")
	ErrSubmissionInFlight = errors.New("an answer is already being submitted")
	ErrFinished           = errors.New("interview already finished")
)

// Submitter posts an answer and returns the backend's reply.
type Submitter interface {
	SubmitAnswer(ctx context.Context, answer string) (model.AnswerResponse, error)
}

// Navigator performs a page navigation.
type Navigator interface {
	Navigate(path string) error
}

// State is the position of the flow in the stage table.
type State struct {
	Stage         string
	QuestionIndex int
	Finished      bool
}

// View is everything needed to draw the interview screen.
type View struct {
	StageKey       string
	StageName      string
	Question       string
	QuestionNumber int
	QuestionCount  int
	StageNumber    int
	StageCount     int
	Progress       float64
	FollowUps      []string
	Error          string
	Finished       bool
	Submitting     bool
}

// Flow is one interview session over a stage table.
type Flow struct {
	table     *StageTable
	submitter Submitter
	nav       Navigator
	log       util.LoggerInterface

	mu        sync.Mutex
	state     State
	followUps []string
	lastError string
	inFlight  bool

	submits generation.Tracker
}

// Option customizes a Flow.
type Option func(*flowOptions)

type flowOptions struct {
	initial string
}

// WithInitialStage starts the flow at key instead of DefaultInitialStage.
func WithInitialStage(key string) Option {
	return func(o *flowOptions) {
		if key != "" {
			o.initial = key
		}
	}
}

// New creates a flow positioned at the first question of the initial stage.
func New(table *StageTable, submitter Submitter, nav Navigator, opts ...Option) (*Flow, error) {
	if table == nil {
		return nil, errors.New("stage table is required")
	}
	if submitter == nil {
		return nil, errors.New("answer submitter is required")
	}

	o := flowOptions{initial: DefaultInitialStage}
	for _, opt := range opts {
		opt(&o)
	}
	if err := table.Validate(o.initial); err != nil {
		return nil, err
	}

	return &Flow{
		table:     table,
		submitter: submitter,
		nav:       nav,
		log:       util.Component("interview"),
		state:     State{Stage: o.initial},
	}, nil
}

// State returns the current position.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Close abandons any in-flight submission; its reply will be ignored.
func (f *Flow) Close() {
	f.submits.Stop()
}

// Submit sends answer and, if the backend accepts it, advances to the next
// question. A rejection returns *client.RejectedError and leaves the state
// unchanged so the same question can be answered again.
func (f *Flow) Submit(ctx context.Context, answer string) (State, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return f.State(), ErrEmptyAnswer
	}

	f.mu.Lock()
	if f.state.Finished {
		f.mu.Unlock()
		return f.state, ErrFinished
	}
	if f.inFlight {
		f.mu.Unlock()
		return f.state, ErrSubmissionInFlight
	}
	f.inFlight = true
	f.mu.Unlock()

	ctx, token, cancel := f.submits.Begin(ctx)
	defer cancel()

	resp, err := f.submitter.SubmitAnswer(ctx, answer)

	f.mu.Lock()
	f.inFlight = false
	if !f.submits.IsCurrent(token) {
		state := f.state
		f.mu.Unlock()
		return state, generation.ErrSuperseded
	}

	if err != nil {
		state := f.state
		if rejected, ok := client.IsRejected(err); ok {
			f.lastError = rejected.UserMessage()
			f.mu.Unlock()
			f.log.Info("answer rejected", util.F("stage", state.Stage), util.F("status", rejected.Status))
			return state, err
		}
		f.mu.Unlock()
		f.log.Error("Error submitting answer", util.F("stage", state.Stage), util.F("error", err))
		return state, fmt.Errorf("submit answer: %w", err)
	}

	f.state = f.advance(f.state)
	f.lastError = ""
	if len(resp.FollowUpQuestions) > 0 {
		f.followUps = append([]string(nil), resp.FollowUpQuestions...)
	}
	state := f.state
	f.mu.Unlock()

	f.log.Debug("answer accepted",
		util.F("stage", state.Stage), util.F("question", state.QuestionIndex), util.F("finished", state.Finished))

	if state.Finished {
		f.log.Info("interview complete")
		if f.nav != nil {
			if err := f.nav.Navigate(CompletionPath); err != nil {
				f.log.Error("navigation failed", util.F("path", CompletionPath), util.F("error", err))
			}
		}
	}
	return state, nil
}

// advance applies one successful answer to s.
func (f *Flow) advance(s State) State {
	stage, _ := f.table.Stage(s.Stage)
	switch {
	case s.QuestionIndex < len(stage.Questions)-1:
		s.QuestionIndex++
	case !stage.IsLast():
		s.Stage = stage.Next
		s.QuestionIndex = 0
	default:
		s.Finished = true
	}
	return s
}

// Progress is the percentage of stages completed before the current one.
func (f *Flow) Progress() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress()
}

func (f *Flow) progress() float64 {
	if f.state.Finished {
		return 100
	}
	return float64(f.table.IndexOf(f.state.Stage)) * 100 / float64(f.table.Len())
}

// View returns a snapshot of the screen state.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	stage, _ := f.table.Stage(f.state.Stage)
	v := View{
		StageKey:      stage.Key,
		StageName:     stage.Name,
		QuestionCount: len(stage.Questions),
		StageNumber:   f.table.IndexOf(stage.Key) + 1,
		StageCount:    f.table.Len(),
		Progress:      f.progress(),
		FollowUps:     append([]string(nil), f.followUps...),
		Error:         f.lastError,
		Finished:      f.state.Finished,
		Submitting:    f.inFlight,
	}
	if !f.state.Finished {
		v.Question = stage.Questions[f.state.QuestionIndex]
		v.QuestionNumber = f.state.QuestionIndex + 1
	}
	return v
}
