package analysis

import (
	"regexp"
	"strings"
)

// Required section labels of a synthesized final report. The labels
// are substring-matched; this is a heuristic, not a markdown parser.
const (
	SectionExecutiveSummary = "执行摘要"
	SectionKeyFindings      = "主要发现"
	SectionConclusion       = "结论"
)

// Raw-concatenation markers. A final report containing both is almost
// certainly a pasted aggregate rather than a synthesis.
const (
	subtaskHeadingMarker = "## 子任务"
	rawOutputMarker      = "原始输出"
)

// MinSecondLevelHeadings is the smallest heading count a final report
// can have before it is flagged as structurally thin.
const MinSecondLevelHeadings = 3

var (
	h2Pattern = regexp.MustCompile(`(?m)^## `)
	h3Pattern = regexp.MustCompile(`(?m)^### `)
)

// Section pairs a content label with its English name for messages.
type Section struct {
	Label string
	Name  string
}

// RequiredSections lists the sections every final report must carry.
func RequiredSections() []Section {
	return []Section{
		{SectionExecutiveSummary, "executive summary"},
		{SectionKeyFindings, "key findings"},
		{SectionConclusion, "conclusion"},
	}
}

// StructureReport describes a final report's structural shape.
type StructureReport struct {
	MissingSections  []Section
	H2Count          int
	H3Count          int
	RawConcatenation bool
}

// ThinStructure reports whether the heading hierarchy is too flat.
func (r StructureReport) ThinStructure() bool {
	return r.H2Count < MinSecondLevelHeadings
}

// InspectStructure runs every structural check against the final
// report text. Checks are independent; none short-circuits another.
func InspectStructure(content string) StructureReport {
	var rep StructureReport

	for _, section := range RequiredSections() {
		if !strings.Contains(content, section.Label) {
			rep.MissingSections = append(rep.MissingSections, section)
		}
	}

	rep.H2Count = len(h2Pattern.FindAllString(content, -1))
	rep.H3Count = len(h3Pattern.FindAllString(content, -1))

	rep.RawConcatenation = strings.Contains(content, subtaskHeadingMarker) &&
		strings.Contains(content, rawOutputMarker)

	return rep
}
