package analysis

import (
	"strings"
	"testing"
)

func wellFormedReport() string {
	return strings.Join([]string{
		"# 最终报告",
		"",
		"## 执行摘要",
		"内容",
		"## 主要发现",
		"### 细分市场",
		"内容",
		"## 趋势",
		"内容",
		"## 结论",
		"内容",
	}, "\n")
}

func TestInspectStructure_Clean(t *testing.T) {
	rep := InspectStructure(wellFormedReport())
	if len(rep.MissingSections) != 0 {
		t.Fatalf("expected no missing sections, got %v", rep.MissingSections)
	}
	if rep.H2Count != 4 || rep.H3Count != 1 {
		t.Fatalf("unexpected heading counts: h2=%d h3=%d", rep.H2Count, rep.H3Count)
	}
	if rep.ThinStructure() {
		t.Fatalf("expected 4 h2 headings not to be thin")
	}
	if rep.RawConcatenation {
		t.Fatalf("expected no raw concatenation")
	}
}

func TestInspectStructure_MissingSections(t *testing.T) {
	// One warning per missing section, independent of heading counts.
	rep := InspectStructure("## 执行摘要\n内容")
	if len(rep.MissingSections) != 2 {
		t.Fatalf("expected 2 missing sections, got %d", len(rep.MissingSections))
	}
	labels := map[string]bool{}
	for _, s := range rep.MissingSections {
		labels[s.Label] = true
	}
	if !labels[SectionKeyFindings] || !labels[SectionConclusion] {
		t.Fatalf("unexpected missing sections: %v", rep.MissingSections)
	}
}

func TestInspectStructure_ThinStructure(t *testing.T) {
	rep := InspectStructure("## 执行摘要\n## 结论\n主要发现")
	if rep.H2Count != 2 {
		t.Fatalf("expected 2 h2 headings, got %d", rep.H2Count)
	}
	if !rep.ThinStructure() {
		t.Fatalf("expected 2 h2 headings to be thin")
	}
}

func TestInspectStructure_RawConcatenation(t *testing.T) {
	// Both markers together signal a pasted aggregate.
	rep := InspectStructure(wellFormedReport() + "\n## 子任务 1\n原始输出\n")
	if !rep.RawConcatenation {
		t.Fatalf("expected raw concatenation to be detected")
	}

	// Either marker alone is fine.
	if InspectStructure("## 子任务 1 的综述").RawConcatenation {
		t.Fatalf("subtask heading alone must not trigger")
	}
	if InspectStructure("引用了原始输出的分析").RawConcatenation {
		t.Fatalf("raw output marker alone must not trigger")
	}
}
