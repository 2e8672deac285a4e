package analysis

import (
	"strings"
	"testing"
)

func TestAnalyzeReferences_Inline(t *testing.T) {
	a := NewAnalyzer()
	rep := a.AnalyzeReferences("[A](https://e.com/a) 与 [A](https://e.com/a) 与 [B](http://e.org)")
	if rep.InlineReferences != 3 {
		t.Fatalf("expected 3 inline references (duplicates counted), got %d", rep.InlineReferences)
	}
	if rep.OrphanURLs != 0 {
		t.Fatalf("expected no orphan URLs, got %d", rep.OrphanURLs)
	}
	if rep.CentralizedList {
		t.Fatalf("expected no centralized list")
	}
}

func TestAnalyzeReferences_CentralizedList(t *testing.T) {
	a := NewAnalyzer()
	rep := a.AnalyzeReferences("参考文献\n[1] https://example.com/source\n[2] http://example.org")
	if !rep.CentralizedList {
		t.Fatalf("expected centralized citation list to be detected")
	}
}

func TestAnalyzeReferences_OrphanThreshold(t *testing.T) {
	a := NewAnalyzer()

	three := strings.Repeat("数据来自 https://example.com/page 。\n", 3)
	if rep := a.AnalyzeReferences(three); rep.TooManyOrphans() {
		t.Fatalf("expected 3 orphans not to exceed threshold, got %d", rep.OrphanURLs)
	}

	four := strings.Repeat("数据来自 https://example.com/page 。\n", 4)
	rep := a.AnalyzeReferences(four)
	if rep.OrphanURLs != 4 {
		t.Fatalf("expected 4 orphan URLs, got %d", rep.OrphanURLs)
	}
	if !rep.TooManyOrphans() {
		t.Fatalf("expected 4 orphans to exceed threshold")
	}
}

func TestAnalyzeReferences_MarkdownLinkIsNotOrphan(t *testing.T) {
	a := NewAnalyzer()
	rep := a.AnalyzeReferences("见 [来源](https://example.com/a) 与裸链接 https://example.org/b")
	if rep.InlineReferences != 1 {
		t.Fatalf("expected 1 inline reference, got %d", rep.InlineReferences)
	}
	if rep.OrphanURLs != 1 {
		t.Fatalf("expected 1 orphan URL, got %d", rep.OrphanURLs)
	}
	if rep.TotalReferences() != 2 {
		t.Fatalf("expected total of 2 references, got %d", rep.TotalReferences())
	}
}

func TestAnalyzeTimestamps_Counts(t *testing.T) {
	a := NewAnalyzer()
	content := "市场规模 $10B (2024年)，增速 15% (2025 Q1)，用户 3000万"
	rep := a.AnalyzeTimestamps(content)
	if rep.DataPoints == 0 {
		t.Fatalf("expected data points to be found")
	}
	if rep.Timestamped != 2 {
		t.Fatalf("expected 2 timestamped data points, got %d", rep.Timestamped)
	}
}

func TestAnnotationRate_ZeroWithoutDataPoints(t *testing.T) {
	a := NewAnalyzer()
	rep := a.AnalyzeTimestamps("没有任何数字数据")
	if rep.DataPoints != 0 {
		t.Fatalf("expected no data points, got %d", rep.DataPoints)
	}
	if rep.AnnotationRate() != 0 {
		t.Fatalf("expected rate 0 for empty document")
	}
	if a.LowAnnotation(rep) {
		t.Fatalf("warning must not fire without data points")
	}
}

func TestLowAnnotation_ThresholdBoundary(t *testing.T) {
	a := NewAnalyzer()

	if !a.LowAnnotation(TimestampReport{DataPoints: 10, Timestamped: 4}) {
		t.Fatalf("expected rate 0.4 to fire the warning")
	}
	if a.LowAnnotation(TimestampReport{DataPoints: 10, Timestamped: 5}) {
		t.Fatalf("expected rate 0.5 not to fire the warning")
	}

	// Threshold is tunable in tests only.
	a.AnnotationThreshold = 0.9
	if !a.LowAnnotation(TimestampReport{DataPoints: 10, Timestamped: 5}) {
		t.Fatalf("expected raised threshold to fire at rate 0.5")
	}
}
