// Package checker owns the aggregate coverage run: it walks one
// workspace, delegates to the report parser and the content
// analyzers, merges every finding, and derives the final verdict.
package checker

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/wide-research/internal/analysis"
	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
	"github.com/hugo-lorenzo-mato/wide-research/internal/logging"
	"github.com/hugo-lorenzo-mato/wide-research/internal/metadata"
	"github.com/hugo-lorenzo-mato/wide-research/internal/report"
	"github.com/hugo-lorenzo-mato/wide-research/internal/workspace"
)

// EmptyOutputThreshold is the minimum rune count an output must reach
// to count as a real report. Shorter outputs are both an issue and an
// empty-output statistic.
const EmptyOutputThreshold = 100

// runState tracks the checker's progress through its fixed sequence.
// Transitions are sequential and unconditional: every check runs
// regardless of prior findings so one run always yields the complete
// findings set.
type runState string

const (
	stateInit              runState = "init"
	stateSubtasksChecked   runState = "subtasks_checked"
	stateReferencesChecked runState = "references_checked"
	stateTimestampsChecked runState = "timestamps_checked"
	stateStructureChecked  runState = "structure_checked"
	stateMetadataChecked   runState = "metadata_checked"
	stateDone              runState = "done"
)

// Checker runs the full coverage check over one workspace.
type Checker struct {
	ws       *workspace.Workspace
	analyzer *analysis.Analyzer
	log      *logging.Logger
	now      func() time.Time

	state    runState
	findings core.Findings
	stats    core.RunStatistics
	result   *Report
}

// Option configures the checker.
type Option func(*Checker)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Checker) { c.log = log }
}

// WithAnalyzer overrides the content analyzer.
func WithAnalyzer(a *analysis.Analyzer) Option {
	return func(c *Checker) { c.analyzer = a }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// New creates a checker for the given workspace.
func New(ws *workspace.Workspace, opts ...Option) *Checker {
	c := &Checker{
		ws:       ws,
		analyzer: analysis.NewAnalyzer(),
		log:      logging.NewNop(),
		now:      time.Now,
		state:    stateInit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes every check step in order and returns the merged
// report. A checker is single-use; calling Run again returns the
// cached report.
func (c *Checker) Run() *Report {
	if c.result != nil {
		return c.result
	}

	started := c.now()

	steps := []struct {
		name string
		next runState
		fn   func()
	}{
		{"subtasks", stateSubtasksChecked, c.checkSubtasks},
		{"references", stateReferencesChecked, c.checkReferences},
		{"timestamps", stateTimestampsChecked, c.checkTimestamps},
		{"structure", stateStructureChecked, c.checkStructure},
		{"metadata", stateMetadataChecked, c.checkMetadata},
	}

	for _, step := range steps {
		c.log.WithCheck(step.name).Debug("running check")
		step.fn()
		c.state = step.next
	}
	c.state = stateDone

	c.result = &Report{
		RunID:     uuid.NewString(),
		Workspace: c.ws.Dir(),
		StartedAt: started,
		Stats:     c.stats,
		Findings:  c.findings.All(),
		Verdict:   core.DeriveVerdict(&c.findings),
	}
	return c.result
}

// checkSubtasks validates that every manifest entry produced a usable
// output and classifies each one. A missing manifest aborts only this
// step; the remaining checks still run.
func (c *Checker) checkSubtasks() {
	manifest, err := c.ws.LoadManifest()
	if err != nil {
		if core.IsCategory(err, core.ErrCatNotFound) {
			c.findings.Issue("subtasks.json not found")
		} else {
			c.findings.Issue(fmt.Sprintf("subtasks.json unreadable: %v", err))
		}
		return
	}

	c.stats.TotalSubtasks = len(manifest.Subtasks)

	for _, subtask := range manifest.Subtasks {
		content, err := c.ws.ReadOutput(subtask.ID)
		if err != nil {
			c.stats.MissingOutputs++
			c.findings.Issue("missing output: " + subtask.ID)
			continue
		}

		if report.Size(strings.TrimSpace(content)) < EmptyOutputThreshold {
			c.stats.EmptyOutputs++
			c.findings.Issue(fmt.Sprintf("output too short (<%d chars): %s", EmptyOutputThreshold, subtask.ID))
			continue
		}

		switch report.Classify(content) {
		case core.SubtaskTimeout:
			c.stats.TimeoutSubtasks++
			c.findings.Warn("timed-out subtask: " + subtask.ID)
		case core.SubtaskFailed:
			c.stats.FailedSubtasks++
			c.findings.Warn("failed subtask: " + subtask.ID)
		case core.SubtaskPartial:
			c.stats.PartialSubtasks++
			c.findings.Warn("partially completed subtask: " + subtask.ID)
		default:
			c.stats.CompletedSubtasks++
		}
	}
}

// checkReferences scans the aggregated document and the final report
// for citation-format problems. Absent documents are skipped.
func (c *Checker) checkReferences() {
	for _, path := range []string{c.ws.AggregatedPath(), c.ws.FinalReportPath()} {
		content, err := c.ws.ReadDocument(path)
		if err != nil {
			continue
		}
		name := filepath.Base(path)

		rep := c.analyzer.AnalyzeReferences(content)
		c.stats.ReferencesWithURL += rep.InlineReferences
		c.stats.TotalReferences += rep.TotalReferences()

		if rep.CentralizedList {
			c.findings.Warn("centralized citation list (use inline citations): " + name)
		}
		if rep.TooManyOrphans() {
			c.findings.Warn(fmt.Sprintf("%d unformatted URLs: %s", rep.OrphanURLs, name))
		}
	}
}

// checkTimestamps measures the timestamp-annotation rate of numeric
// data points in the final report.
func (c *Checker) checkTimestamps() {
	content, err := c.ws.ReadDocument(c.ws.FinalReportPath())
	if err != nil {
		return
	}

	rep := c.analyzer.AnalyzeTimestamps(content)
	c.stats.DataPoints = rep.DataPoints
	c.stats.DataPointsWithDate = rep.Timestamped

	if c.analyzer.LowAnnotation(rep) {
		c.findings.Warn(fmt.Sprintf("low timestamp annotation rate: %.0f%% (%d/%d)",
			rep.AnnotationRate()*100, rep.Timestamped, rep.DataPoints))
	}
}

// checkStructure inspects the final report's sections and heading
// hierarchy. A missing final report is a hard issue here even though
// the analyzers above silently skip it.
func (c *Checker) checkStructure() {
	content, err := c.ws.ReadDocument(c.ws.FinalReportPath())
	if err != nil {
		c.findings.Issue("final_report.md not found")
		return
	}

	rep := analysis.InspectStructure(content)

	for _, section := range rep.MissingSections {
		c.findings.Warn(fmt.Sprintf("missing required section: %s (%s)", section.Label, section.Name))
	}
	if rep.ThinStructure() {
		c.findings.Warn(fmt.Sprintf("thin report structure: %d second-level headings", rep.H2Count))
	}
	if rep.RawConcatenation {
		c.findings.Issue("final report looks like raw subtask concatenation, not a synthesis")
	}
}

// checkMetadata validates the workflow metadata record. Its absence
// blocks downstream automation, so that is a hard issue; incomplete
// fields and phases are advisory.
func (c *Checker) checkMetadata() {
	rec, err := metadata.NewStore(c.ws.MetadataPath()).Load()
	if err != nil {
		if core.IsCategory(err, core.ErrCatNotFound) {
			c.findings.Issue("metadata.json not found")
		} else {
			c.findings.Issue(fmt.Sprintf("metadata.json unreadable: %v", err))
		}
		return
	}

	for _, field := range metadata.RequiredFields() {
		if !rec.Truthy(field.Path) {
			c.findings.Warn(fmt.Sprintf("missing metadata field: %s (%s)", field.Name, field.Path))
		}
	}

	if missing := metadata.MissingPhases(rec); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, p := range missing {
			names[i] = p.String()
		}
		c.findings.Warn("incomplete phases: " + strings.Join(names, ", "))
	}
}
