package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/droe-core/droe-view/internal/core/interview"
	"github.com/droe-core/droe-view/internal/util"
)

type InterviewFormatter struct {
	w    io.Writer
	opts Options
}

func NewInterviewFormatter(w io.Writer, opts Options) *InterviewFormatter {
	return &InterviewFormatter{w: w, opts: opts}
}

// Format draws the stage header, the progress bar, the current question,
// the follow-up list and the last rejection message.
func (f *InterviewFormatter) Format(v interview.View) error {
	if v.Finished {
		_, err := fmt.Fprintf(f.w, "%s  %s\n", f.opts.colorize("Interview complete", util.ColorGreen), Percent(100, f.opts.Locale))
		return err
	}

	header := fmt.Sprintf("Stage %d/%d: %s", v.StageNumber, v.StageCount, v.StageName)
	if _, err := fmt.Fprintln(f.w, f.opts.colorize(header, util.ColorBold)); err != nil {
		return err
	}
	if err := f.progress(v); err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n\nQuestion %d of %d\n", v.QuestionNumber, v.QuestionCount)
	for _, line := range wrapText(v.Question, f.opts.sizer().GetMaxWidth()) {
		sb.WriteString(f.opts.colorize(line, util.ColorCyan) + "\n")
	}

	if len(v.FollowUps) > 0 {
		sb.WriteString("\nFollow-up Questions\n")
		for _, q := range v.FollowUps {
			sb.WriteString("  • " + q + "\n")
		}
	}
	if v.Error != "" {
		sb.WriteString("\n" + f.opts.colorize("! "+v.Error, util.ColorRed) + "\n")
	}

	_, err := io.WriteString(f.w, sb.String())
	return err
}

func (f *InterviewFormatter) progress(v interview.View) error {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(f.w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(Percent(v.Progress, f.opts.Locale)),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionEnableColorCodes(f.opts.Color),
	)
	return bar.Set(int(v.Progress))
}
