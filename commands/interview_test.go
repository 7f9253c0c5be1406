package commands

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droe-core/droe-view/internal/config"
	"github.com/droe-core/droe-view/internal/core/interview"
	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/data/client"
	"github.com/droe-core/droe-view/internal/presentation/display"
	"github.com/droe-core/droe-view/internal/presentation/formatter"
	"github.com/droe-core/droe-view/internal/testsupport"
)

// scriptedReader answers from a list and records the draft offered for
// each prompt.
type scriptedReader struct {
	answers []string
	drafts  []string
}

func (r *scriptedReader) read(draft string) (string, error) {
	r.drafts = append(r.drafts, draft)
	if len(r.answers) == 0 {
		return "", promptui.ErrEOF
	}
	a := r.answers[0]
	r.answers = r.answers[1:]
	return a, nil
}

func newTestFlow(t *testing.T, backend *testsupport.Backend, out *bytes.Buffer) *interview.Flow {
	t.Helper()
	api, err := client.New(client.Config{BaseURL: backend.URL()})
	require.NoError(t, err)
	table, err := loadStageTable(config.Default(), "")
	require.NoError(t, err)

	flow, err := interview.New(table, api, display.NewNavigator(out, backend.URL(), false))
	require.NoError(t, err)
	t.Cleanup(flow.Close)
	return flow
}

func TestInterviewSessionCompletes(t *testing.T) {
	backend := testsupport.NewBackend(t, testsupport.WithAnswerHandler(func(answer string) (int, model.AnswerResponse) {
		if answer == "bad" {
			return http.StatusBadRequest, model.AnswerResponse{Error: "Please say a little more."}
		}
		return http.StatusOK, model.AnswerResponse{FollowUpQuestions: []string{"Who else was there?"}}
	}))

	var out bytes.Buffer
	flow := newTestFlow(t, backend, &out)
	reader := &scriptedReader{answers: []string{
		"bad", "  ", "Ada, 1950",
		"Leeds", "Two brothers", "The sea",
		"A small flat", "Football", "Sam",
	}}

	err := runInterviewSession(context.Background(), flow, reader.read, &out, formatter.Options{})
	require.NoError(t, err)

	assert.True(t, flow.State().Finished)
	assert.Equal(t, []string{"", "bad", "", "", "", "", "", "", ""}, reader.drafts)
	assert.Equal(t, []string{"bad", "Ada, 1950", "Leeds", "Two brothers", "The sea", "A small flat", "Football", "Sam"}, backend.Answers())

	text := out.String()
	assert.Contains(t, text, "Stage 1/2: Foundations")
	assert.Contains(t, text, "Stage 2/2: Childhood")
	assert.Contains(t, text, "! Please say a little more.")
	assert.Contains(t, text, "• Who else was there?")
	assert.Contains(t, text, "Interview complete")
	assert.True(t, strings.HasSuffix(text, "→ "+backend.URL()+"/cards\nInterview complete  100%\n"), text)
}

func TestInterviewSessionStopsAtEndOfInput(t *testing.T) {
	backend := testsupport.NewBackend(t)
	var out bytes.Buffer
	flow := newTestFlow(t, backend, &out)

	reader := &scriptedReader{answers: []string{"one"}}
	require.NoError(t, runInterviewSession(context.Background(), flow, reader.read, &out, formatter.Options{}))

	state := flow.State()
	assert.False(t, state.Finished)
	assert.Equal(t, 1, state.QuestionIndex)
}

func TestInterviewSessionTransportFailureKeepsDraft(t *testing.T) {
	backend := testsupport.NewBackend(t, testsupport.WithRawResponse("/api/interview/answer", http.StatusBadGateway, "<html>"))
	var out bytes.Buffer
	flow := newTestFlow(t, backend, &out)

	reader := &scriptedReader{answers: []string{"hello"}}
	require.NoError(t, runInterviewSession(context.Background(), flow, reader.read, &out, formatter.Options{}))

	assert.Equal(t, []string{"", "hello"}, reader.drafts)
	assert.Equal(t, 0, flow.State().QuestionIndex)
	assert.NotContains(t, out.String(), "! ")
}

func TestInterviewSessionReaderError(t *testing.T) {
	backend := testsupport.NewBackend(t)
	var out bytes.Buffer
	flow := newTestFlow(t, backend, &out)

	boom := errors.New("terminal gone")
	err := runInterviewSession(context.Background(), flow, func(string) (string, error) { return "", boom }, &out, formatter.Options{})
	assert.ErrorIs(t, err, boom)
}

func writeStages(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stages.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestStagesCommand(t *testing.T) {
	out, err := executeCommand(t, "stages")
	require.NoError(t, err)
	assert.Contains(t, out, "foundations")
	assert.Contains(t, out, "Childhood")
	assert.Contains(t, out, "(end)")
}

func TestStagesCommandJSON(t *testing.T) {
	path := writeStages(t, "intro:\n  name: Intro\n  questions:\n    - \"Hello?\"\n  next: outro\noutro:\n  name: Outro\n  questions:\n    - \"Bye?\"\n")
	t.Setenv("DROE_INTERVIEW__INITIAL_STAGE", "intro")

	out, err := executeCommand(t, "stages", "--stages", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"key": "intro"`)
	assert.Contains(t, out, `"next": "outro"`)
	assert.Less(t, strings.Index(out, `"intro"`), strings.Index(out, `"outro"`))
}

func TestStagesCommandErrors(t *testing.T) {
	t.Run("dangling next", func(t *testing.T) {
		path := writeStages(t, "foundations:\n  name: F\n  questions: [q]\n  next: nowhere\n")
		_, err := executeCommand(t, "stages", "--stages", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nowhere")
	})

	t.Run("initial stage missing", func(t *testing.T) {
		path := writeStages(t, "intro:\n  name: Intro\n  questions: [q]\n")
		_, err := executeCommand(t, "stages", "--stages", path)
		assert.Error(t, err)
	})

	t.Run("bad output", func(t *testing.T) {
		_, err := executeCommand(t, "stages", "-o", "csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported output format")
	})
}

func TestInterviewCommandBadStagesFile(t *testing.T) {
	_, err := executeCommand(t, "interview", "--stages", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
