package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/droe-core/droe-view/internal/config"
	"github.com/droe-core/droe-view/internal/core/interview"
	"github.com/droe-core/droe-view/internal/data/client"
	"github.com/droe-core/droe-view/internal/presentation/display"
	"github.com/droe-core/droe-view/internal/presentation/formatter"
	"github.com/droe-core/droe-view/internal/util"
)

var (
	interviewStages string

	interviewCmd = &cobra.Command{
		Use:   "interview",
		Short: "Answer the life-story interview",
		Long: `Walk through the interview stages one question at a time. Each
answer is sent to the server; a rejected answer shows the server's message
and can be edited and sent again. Follow-up questions suggested by the
server are listed under the current question.

When the last question of the last stage is accepted the card gallery URL
is printed.`,
		RunE: runInterview,
	}
)

func init() {
	interviewCmd.Flags().StringVar(&interviewStages, "stages", "", "Stage table file (YAML, overrides interview.stages_file)")
	rootCmd.AddCommand(interviewCmd)
}

// answerReader asks for an answer, pre-filled with draft.
type answerReader func(draft string) (string, error)

func promptAnswer(draft string) (string, error) {
	p := promptui.Prompt{Label: "Answer", Default: draft, AllowEdit: true}
	return p.Run()
}

// loadStageTable reads the stage table from path, the configured file or the
// built-in default, and checks it against the initial stage.
func loadStageTable(cfg *config.Config, path string) (*interview.StageTable, error) {
	if path == "" {
		path = cfg.Interview.StagesFile
	}

	var (
		table *interview.StageTable
		err   error
	)
	if path != "" {
		table, err = interview.LoadStages(expandPath(path))
	} else {
		table, err = interview.DefaultStages()
	}
	if err != nil {
		return nil, err
	}
	if err := table.Validate(cfg.Interview.InitialStage); err != nil {
		return nil, err
	}
	return table, nil
}

func runInterview(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	table, err := loadStageTable(cfg, interviewStages)
	if err != nil {
		return err
	}

	api, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	nav := display.NewNavigator(out, cfg.API.BaseURL, useColor(cfg, out))

	flow, err := interview.New(table, api, nav, interview.WithInitialStage(cfg.Interview.InitialStage))
	if err != nil {
		return err
	}
	defer flow.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return runInterviewSession(ctx, flow, promptAnswer, out, formatterOptions(cfg, out))
}

// runInterviewSession shows the current question, reads an answer and
// submits it until the flow finishes or input ends.
func runInterviewSession(ctx context.Context, flow *interview.Flow, read answerReader, out io.Writer, opts formatter.Options) error {
	view := formatter.NewInterviewFormatter(out, opts)
	draft := ""

	for ctx.Err() == nil {
		if err := view.Format(flow.View()); err != nil {
			return err
		}
		if flow.State().Finished {
			return nil
		}

		answer, err := read(draft)
		if err != nil {
			return promptDone(err)
		}

		_, err = flow.Submit(ctx, answer)
		if err == nil || errors.Is(err, interview.ErrEmptyAnswer) {
			draft = ""
			continue
		}
		// Keep the text so it can be edited and sent again.
		draft = answer
		if _, ok := client.IsRejected(err); !ok {
			util.LogDebugf("answer not accepted: %v", err)
		}
	}
	return nil
}

var (
	stagesOutput string

	stagesCmd = &cobra.Command{
		Use:   "stages",
		Short: "Validate and show the interview stage table",
		RunE:  runStages,
	}
)

func init() {
	stagesCmd.Flags().StringVar(&interviewStages, "stages", "", "Stage table file (YAML, overrides interview.stages_file)")
	stagesCmd.Flags().StringVarP(&stagesOutput, "output", "o", "table", "Output format (table, json)")
	rootCmd.AddCommand(stagesCmd)
}

func runStages(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	table, err := loadStageTable(cfg, interviewStages)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch stagesOutput {
	case "json":
		return formatter.NewJSONFormatter(out).Format(stageRecords(table))
	case "table":
		return formatter.NewTableFormatter(out, formatterOptions(cfg, out)).FormatStages(table)
	default:
		return fmt.Errorf("unsupported output format %q (use table or json)", stagesOutput)
	}
}

type stageRecord struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Questions []string `json:"questions"`
	Next      string   `json:"next,omitempty"`
}

func stageRecords(table *interview.StageTable) []stageRecord {
	stages := table.Stages()
	records := make([]stageRecord, len(stages))
	for i, s := range stages {
		records[i] = stageRecord{Key: s.Key, Name: s.Name, Questions: s.Questions, Next: s.Next}
	}
	return records
}
