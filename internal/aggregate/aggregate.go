// Package aggregate merges individual subtask reports into a single
// aggregated document, the intermediate artifact the final synthesis
// is written from.
package aggregate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
	"github.com/hugo-lorenzo-mato/wide-research/internal/logging"
	"github.com/hugo-lorenzo-mato/wide-research/internal/report"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Sort orders.
const (
	SortName   = "name"
	SortTime   = "time"
	SortStatus = "status"
)

var statusEmoji = map[core.SubtaskStatus]string{
	core.SubtaskSuccess: "✅",
	core.SubtaskFailed:  "❌",
	core.SubtaskTimeout: "⏱️",
	core.SubtaskPartial: "⚠️",
}

// Options configures one aggregation run.
type Options struct {
	InputDir   string
	OutputPath string
	Format     string // markdown or json
	Sort       string // name, time or status
	TaskName   string
}

// Result summarizes what an aggregation run produced.
type Result struct {
	OutputPath string           `json:"output_path"`
	Reports    int              `json:"reports"`
	Skipped    int              `json:"skipped"`
	Statistics AggregatedStats  `json:"statistics"`
	Summaries  []report.Summary `json:"-"`
}

// AggregatedStats are the roll-up counters appended to the document.
type AggregatedStats struct {
	Total      int `json:"total"`
	Success    int `json:"success"`
	Failed     int `json:"failed"`
	Timeout    int `json:"timeout"`
	Partial    int `json:"partial"`
	References int `json:"references"`
	Size       int `json:"size"`
	AvgSize    int `json:"avg_size"`
}

// Aggregator merges subtask reports into one document.
type Aggregator struct {
	log *logging.Logger
}

// New returns an Aggregator logging through the given logger.
func New(log *logging.Logger) *Aggregator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Aggregator{log: log}
}

// Run collects the *.md reports under opts.InputDir, sorts them and
// writes the aggregated document to opts.OutputPath. Reports that
// cannot be read are logged and skipped, never fatal.
func (a *Aggregator) Run(opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = FormatMarkdown
	}
	if opts.Sort == "" {
		opts.Sort = SortName
	}
	switch opts.Format {
	case FormatMarkdown, FormatJSON:
	default:
		return nil, core.ErrValidation(core.CodeInvalidField, fmt.Sprintf("unknown format %q", opts.Format))
	}
	switch opts.Sort {
	case SortName, SortTime, SortStatus:
	default:
		return nil, core.ErrValidation(core.CodeInvalidField, fmt.Sprintf("unknown sort order %q", opts.Sort))
	}

	paths, err := filepath.Glob(filepath.Join(opts.InputDir, "*.md"))
	if err != nil {
		return nil, core.ErrValidation(core.CodeInvalidField, "bad input directory pattern").WithCause(err)
	}
	if len(paths) == 0 {
		return nil, core.ErrNotFound(core.CodeMissingOutput, "no subtask reports in "+opts.InputDir)
	}

	result := &Result{OutputPath: opts.OutputPath}
	for _, path := range paths {
		summary, err := report.Parse(path)
		if err != nil {
			a.log.Warn("skipping unreadable report", "path", path, "error", err)
			result.Skipped++
			continue
		}
		result.Summaries = append(result.Summaries, *summary)
	}
	if len(result.Summaries) == 0 {
		return nil, core.ErrNotFound(core.CodeMissingOutput, "no readable subtask reports in "+opts.InputDir)
	}

	sortSummaries(result.Summaries, opts.Sort)
	result.Reports = len(result.Summaries)
	result.Statistics = tally(result.Summaries)

	var rendered []byte
	switch opts.Format {
	case FormatJSON:
		rendered, err = renderJSON(opts.TaskName, result)
	default:
		rendered = []byte(renderMarkdown(opts.TaskName, result))
	}
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(opts.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.OutputPath, rendered, 0o644); err != nil {
		return nil, fmt.Errorf("writing aggregated document: %w", err)
	}

	a.log.Info("aggregation complete",
		"output", opts.OutputPath,
		"reports", result.Reports,
		"skipped", result.Skipped)
	return result, nil
}

func sortSummaries(summaries []report.Summary, order string) {
	switch order {
	case SortTime:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].ModTime.Before(summaries[j].ModTime)
		})
	case SortStatus:
		sort.SliceStable(summaries, func(i, j int) bool {
			ri, rj := core.StatusRank(summaries[i].Status), core.StatusRank(summaries[j].Status)
			if ri != rj {
				return ri < rj
			}
			return summaries[i].File < summaries[j].File
		})
	default:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].File < summaries[j].File
		})
	}
}

func tally(summaries []report.Summary) AggregatedStats {
	stats := AggregatedStats{Total: len(summaries)}
	for _, s := range summaries {
		switch s.Status {
		case core.SubtaskFailed:
			stats.Failed++
		case core.SubtaskTimeout:
			stats.Timeout++
		case core.SubtaskPartial:
			stats.Partial++
		default:
			stats.Success++
		}
		stats.References += s.ReferenceCount
		stats.Size += s.Size
	}
	if stats.Total > 0 {
		stats.AvgSize = stats.Size / stats.Total
	}
	return stats
}

// renderMarkdown emits the aggregated document in the layout the rest
// of the toolchain expects, headers and labels included.
func renderMarkdown(taskName string, result *Result) string {
	var b strings.Builder
	if taskName != "" {
		fmt.Fprintf(&b, "# 聚合报告 - %s\n\n", taskName)
	} else {
		b.WriteString("# 聚合报告\n\n")
	}
	fmt.Fprintf(&b, "生成时间: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	for i, s := range result.Summaries {
		fmt.Fprintf(&b, "## 子任务 %d: %s\n\n", i+1, s.Title)
		fmt.Fprintf(&b, "状态: %s %s | 引用数: %d | 字数: %d\n\n",
			emojiFor(s.Status), s.Status, s.ReferenceCount, s.Size)
		b.WriteString("### 原始输出\n\n")
		b.WriteString(strings.TrimSpace(s.Content))
		b.WriteString("\n\n---\n\n")
	}

	stats := result.Statistics
	b.WriteString("## 聚合统计\n\n")
	fmt.Fprintf(&b, "- 子任务总数: %d\n", stats.Total)
	fmt.Fprintf(&b, "- 成功: %d | 失败: %d | 超时: %d | 部分完成: %d\n",
		stats.Success, stats.Failed, stats.Timeout, stats.Partial)
	fmt.Fprintf(&b, "- 引用总数: %d\n", stats.References)
	fmt.Fprintf(&b, "- 总字数: %d (平均 %d)\n", stats.Size, stats.AvgSize)
	return b.String()
}

func renderJSON(taskName string, result *Result) ([]byte, error) {
	type doc struct {
		Task        string           `json:"task,omitempty"`
		GeneratedAt time.Time        `json:"generated_at"`
		Reports     []report.Summary `json:"reports"`
		Statistics  AggregatedStats  `json:"statistics"`
	}
	data, err := json.MarshalIndent(doc{
		Task:        taskName,
		GeneratedAt: time.Now().UTC(),
		Reports:     result.Summaries,
		Statistics:  result.Statistics,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding aggregated document: %w", err)
	}
	return append(data, '\n'), nil
}

func emojiFor(s core.SubtaskStatus) string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "❓"
}
