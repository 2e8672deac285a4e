package core

import "testing"

func TestFindings_Accumulation(t *testing.T) {
	var f Findings
	f.Issue("missing output: item-2")
	f.Warn("thin structure")
	f.Warn("low annotation rate")

	if len(f.All()) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(f.All()))
	}
	if len(f.Issues()) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(f.Issues()))
	}
	if len(f.Warnings()) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(f.Warnings()))
	}
	if f.Issues()[0].Message != "missing output: item-2" {
		t.Fatalf("unexpected issue message: %s", f.Issues()[0].Message)
	}
}

func TestDeriveVerdict(t *testing.T) {
	var clean Findings
	if v := DeriveVerdict(&clean); v != VerdictPass {
		t.Fatalf("expected clean pass, got %s", v)
	}

	var warned Findings
	warned.Warn("something soft")
	if v := DeriveVerdict(&warned); v != VerdictPassWithWarnings {
		t.Fatalf("expected pass with warnings, got %s", v)
	}

	// An issue dominates any number of warnings.
	warned.Issue("something hard")
	if v := DeriveVerdict(&warned); v != VerdictFail {
		t.Fatalf("expected fail, got %s", v)
	}
}

func TestVerdict_ExitCode(t *testing.T) {
	if VerdictPass.ExitCode() != 0 {
		t.Fatalf("expected pass exit code 0")
	}
	if VerdictPassWithWarnings.ExitCode() != 0 {
		t.Fatalf("expected warning exit code 0")
	}
	if VerdictFail.ExitCode() != 1 {
		t.Fatalf("expected fail exit code 1")
	}
}

func TestStatusRank_Ordering(t *testing.T) {
	order := []SubtaskStatus{SubtaskSuccess, SubtaskPartial, SubtaskTimeout, SubtaskFailed}
	for i := 1; i < len(order); i++ {
		if StatusRank(order[i-1]) >= StatusRank(order[i]) {
			t.Fatalf("expected %s to rank before %s", order[i-1], order[i])
		}
	}
	if StatusRank("unknown") <= StatusRank(SubtaskFailed) {
		t.Fatalf("expected unknown status to rank last")
	}
}
