// Package report parses individual subtask report files produced by
// the wide-research fan-out. Reports are free-text markdown; status is
// detected from marker tokens embedded by the subtask runners.
package report

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
)

// Marker tokens written by the subtask runners. The workspace
// documents are Chinese-language; these are data conventions of the
// report format, not UI strings.
const (
	MarkerTimeout     = "[TIMEOUT]"
	MarkerTimeoutZH   = "超时"
	MarkerFailure     = "失败报告"
	MarkerFailureHead = "## ⚠️"
	MarkerPartial     = "部分完成"

	// MarkerRecovered flags a failure report that still carries
	// partial results. Only the metadata updater distinguishes it.
	MarkerRecovered = "已完成部分"
)

var (
	// titlePattern matches the first top-level heading line.
	titlePattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

	// inlinePattern matches a markdown inline link with an http(s) URL.
	inlinePattern = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)
)

// Summary describes one parsed subtask report.
type Summary struct {
	File           string             `json:"file"`
	Title          string             `json:"title"`
	Status         core.SubtaskStatus `json:"status"`
	ReferenceCount int                `json:"reference_count"`
	Size           int                `json:"size"`
	Content        string             `json:"content,omitempty"`
	ModTime        time.Time          `json:"-"`
}

// Classify resolves a report's status from its marker tokens. The
// priority order is fixed: timeout > failed > partial > success.
// Empty content classifies as success unless a marker is present.
func Classify(content string) core.SubtaskStatus {
	switch {
	case strings.Contains(content, MarkerTimeout) || strings.Contains(content, MarkerTimeoutZH):
		return core.SubtaskTimeout
	case strings.Contains(content, MarkerFailure) || strings.Contains(content, MarkerFailureHead):
		return core.SubtaskFailed
	case strings.Contains(content, MarkerPartial):
		return core.SubtaskPartial
	default:
		return core.SubtaskSuccess
	}
}

// ClassifyForStats is the classification the metadata updater applies
// when recomputing subtask statistics. It differs from Classify in
// one way: a failure report counts as partial only when it also
// carries the recovery marker.
func ClassifyForStats(content string) core.SubtaskStatus {
	switch {
	case strings.Contains(content, MarkerTimeout) || strings.Contains(content, MarkerTimeoutZH):
		return core.SubtaskTimeout
	case strings.Contains(content, MarkerFailure) || strings.Contains(content, MarkerFailureHead):
		if strings.Contains(content, MarkerRecovered) {
			return core.SubtaskPartial
		}
		return core.SubtaskFailed
	default:
		return core.SubtaskSuccess
	}
}

// Title extracts the first top-level heading, falling back to the
// given name when the report has none.
func Title(content, fallback string) string {
	if m := titlePattern.FindStringSubmatch(content); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return fallback
}

// CountInlineReferences counts markdown inline links pointing at an
// http(s) URL. Duplicates are counted, not deduplicated.
func CountInlineReferences(content string) int {
	return len(inlinePattern.FindAllString(content, -1))
}

// Size returns the report's size metric: the rune count of the full
// text. This is a deliberate simplification, not a word count.
func Size(content string) int {
	return utf8.RuneCountInString(content)
}

// ParseContent builds a Summary for already-loaded report text.
func ParseContent(name, content string) *Summary {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return &Summary{
		File:           filepath.Base(name),
		Title:          Title(content, stem),
		Status:         Classify(content),
		ReferenceCount: CountInlineReferences(content),
		Size:           Size(content),
		Content:        content,
	}
}

// Parse reads and parses a subtask report file.
func Parse(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.ErrParse(core.CodeParseFailed, "reading subtask report").WithCause(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, core.ErrParse(core.CodeParseFailed, "stating subtask report").WithCause(err)
	}

	summary := ParseContent(path, string(data))
	summary.ModTime = info.ModTime()
	return summary, nil
}
