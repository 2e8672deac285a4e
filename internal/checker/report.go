package checker

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
)

// Report is the complete result of one coverage run.
type Report struct {
	RunID     string             `json:"run_id"`
	Workspace string             `json:"workspace"`
	StartedAt time.Time          `json:"started_at"`
	Stats     core.RunStatistics `json:"statistics"`
	Findings  []core.Finding     `json:"findings"`
	Verdict   core.Verdict       `json:"verdict"`
}

// Issues returns the hard failures.
func (r *Report) Issues() []core.Finding {
	return r.filter(core.SeverityIssue)
}

// Warnings returns the advisory findings.
func (r *Report) Warnings() []core.Finding {
	return r.filter(core.SeverityWarning)
}

func (r *Report) filter(sev core.Severity) []core.Finding {
	var out []core.Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// ExitCode maps the report's verdict to a process exit code.
func (r *Report) ExitCode() int {
	return r.Verdict.ExitCode()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText renders the human-facing report: statistics first, then
// issues, then warnings, ending with a single verdict line.
func (r *Report) WriteText(w io.Writer) error {
	fmt.Fprintln(w, headerStyle.Render("Coverage check: "+r.Workspace))
	fmt.Fprintf(w, "Started: %s\n\n", r.StartedAt.Format(time.RFC3339))

	fmt.Fprintln(w, headerStyle.Render("Statistics"))
	fmt.Fprintf(w, "  Subtasks:        %d total, %d completed, %d failed, %d timeout, %d partial\n",
		r.Stats.TotalSubtasks, r.Stats.CompletedSubtasks, r.Stats.FailedSubtasks,
		r.Stats.TimeoutSubtasks, r.Stats.PartialSubtasks)
	fmt.Fprintf(w, "  Outputs:         %d empty, %d missing\n", r.Stats.EmptyOutputs, r.Stats.MissingOutputs)
	fmt.Fprintf(w, "  References:      %d total, %d with URL\n", r.Stats.TotalReferences, r.Stats.ReferencesWithURL)
	fmt.Fprintf(w, "  Data points:     %d total, %d timestamped\n", r.Stats.DataPoints, r.Stats.DataPointsWithDate)

	if issues := r.Issues(); len(issues) > 0 {
		fmt.Fprintf(w, "\n%s\n", headerStyle.Render(fmt.Sprintf("Issues (%d)", len(issues))))
		for _, f := range issues {
			fmt.Fprintf(w, "  %s %s\n", failStyle.Render("✗"), f.Message)
		}
	}

	if warnings := r.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(w, "\n%s\n", headerStyle.Render(fmt.Sprintf("Warnings (%d)", len(warnings))))
		for _, f := range warnings {
			fmt.Fprintf(w, "  %s %s\n", warnStyle.Render("!"), f.Message)
		}
	}

	fmt.Fprintln(w)
	switch r.Verdict {
	case core.VerdictFail:
		fmt.Fprintln(w, failStyle.Render(fmt.Sprintf("FAIL: %d issues, %d warnings",
			len(r.Issues()), len(r.Warnings()))))
	case core.VerdictPassWithWarnings:
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("PASS with %d warnings", len(r.Warnings()))))
	default:
		fmt.Fprintln(w, passStyle.Render("PASS"))
	}

	return nil
}
