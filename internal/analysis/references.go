// Package analysis implements the content heuristics run against the
// aggregated document and the final report: citation format, orphan
// URLs, and timestamp annotation of numeric data points. The
// functions are stateless and reentrant; callers run them against
// each document independently.
package analysis

import (
	"regexp"

	"github.com/hugo-lorenzo-mato/wide-research/internal/report"
)

const (
	// OrphanURLThreshold is the number of bare URLs a document may
	// carry before a warning fires. Fixed, not configurable.
	OrphanURLThreshold = 3

	// DefaultAnnotationThreshold is the minimum acceptable ratio of
	// timestamped data points. A tuned heuristic constant; the regex
	// below can overcount bare prose numbers.
	DefaultAnnotationThreshold = 0.5
)

var (
	// centralizedPattern matches a numbered-citation line such as
	// "[3] https://…". Centralized reference lists are disallowed in
	// favor of inline citations.
	centralizedPattern = regexp.MustCompile(`\[\d+\]\s*https?://`)

	// urlPattern matches any http(s) URL; orphan detection inspects
	// the neighboring bytes since RE2 has no lookaround.
	urlPattern = regexp.MustCompile(`https?://[^\s)]+`)

	// dataPointPattern matches a number with an optional currency
	// prefix and magnitude/percent suffix (English B/M/K/%, Chinese
	// 亿/万/千).
	dataPointPattern = regexp.MustCompile(`\$?\d+(?:\.\d+)?(?:B|M|K|%|亿|万|千)?`)

	// timestampedPattern matches a data point immediately followed by
	// a parenthetical containing a year (202x), a 年 marker, or a
	// quarter token (Q1..Q4).
	timestampedPattern = regexp.MustCompile(`\$?\d+(?:\.\d+)?(?:B|M|K|%|亿|万|千)?\s*\([^)]*(?:202\d|年|Q\d)[^)]*\)`)
)

// Analyzer scans documents for citation and timestamp quality.
type Analyzer struct {
	// AnnotationThreshold is exposed for tests; production code uses
	// the default.
	AnnotationThreshold float64
}

// NewAnalyzer creates an analyzer with the default thresholds.
func NewAnalyzer() *Analyzer {
	return &Analyzer{AnnotationThreshold: DefaultAnnotationThreshold}
}

// ReferenceReport summarizes the citations found in one document.
type ReferenceReport struct {
	InlineReferences int
	CentralizedList  bool
	OrphanURLs       int
}

// TotalReferences counts every detected citation, well-formed or not.
func (r ReferenceReport) TotalReferences() int {
	return r.InlineReferences + r.OrphanURLs
}

// AnalyzeReferences scans one document for inline citations,
// centralized citation lists, and orphan bare URLs.
func (a *Analyzer) AnalyzeReferences(content string) ReferenceReport {
	rep := ReferenceReport{
		InlineReferences: report.CountInlineReferences(content),
		CentralizedList:  centralizedPattern.MatchString(content),
	}

	for _, loc := range urlPattern.FindAllStringIndex(content, -1) {
		start, end := loc[0], loc[1]
		// A URL preceded by "(" is part of a markdown link; one
		// followed by ")" closes such a link.
		if start > 0 && content[start-1] == '(' {
			continue
		}
		if end < len(content) && content[end] == ')' {
			continue
		}
		rep.OrphanURLs++
	}

	return rep
}

// TooManyOrphans reports whether the orphan-URL warning should fire.
func (r ReferenceReport) TooManyOrphans() bool {
	return r.OrphanURLs > OrphanURLThreshold
}

// TimestampReport summarizes the numeric data points in one document.
type TimestampReport struct {
	DataPoints  int
	Timestamped int
}

// AnnotationRate is timestamped/total, or 0 when no data points exist.
func (r TimestampReport) AnnotationRate() float64 {
	if r.DataPoints == 0 {
		return 0
	}
	return float64(r.Timestamped) / float64(r.DataPoints)
}

// AnalyzeTimestamps counts numeric data points and the subset carrying
// a time annotation.
func (a *Analyzer) AnalyzeTimestamps(content string) TimestampReport {
	return TimestampReport{
		DataPoints:  len(dataPointPattern.FindAllString(content, -1)),
		Timestamped: len(timestampedPattern.FindAllString(content, -1)),
	}
}

// LowAnnotation reports whether the annotation-rate warning should
// fire. It never fires on a document without data points.
func (a *Analyzer) LowAnnotation(r TimestampReport) bool {
	return r.DataPoints > 0 && r.AnnotationRate() < a.AnnotationThreshold
}
