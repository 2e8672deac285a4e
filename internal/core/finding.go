package core

// Severity distinguishes hard failures from advisory findings.
type Severity string

const (
	// SeverityIssue forces a failure verdict.
	SeverityIssue Severity = "issue"

	// SeverityWarning is surfaced to the user but never fails a run.
	SeverityWarning Severity = "warning"
)

// Finding is a single check result.
type Finding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Findings accumulates check results over one run. It is passed by
// reference into each check step; checks only ever append.
type Findings struct {
	items []Finding
}

// Issue records a hard failure.
func (f *Findings) Issue(msg string) {
	f.items = append(f.items, Finding{Severity: SeverityIssue, Message: msg})
}

// Warn records an advisory finding.
func (f *Findings) Warn(msg string) {
	f.items = append(f.items, Finding{Severity: SeverityWarning, Message: msg})
}

// All returns every finding in insertion order.
func (f *Findings) All() []Finding {
	return f.items
}

// Issues returns the hard failures in insertion order.
func (f *Findings) Issues() []Finding {
	return f.filter(SeverityIssue)
}

// Warnings returns the advisory findings in insertion order.
func (f *Findings) Warnings() []Finding {
	return f.filter(SeverityWarning)
}

func (f *Findings) filter(sev Severity) []Finding {
	var out []Finding
	for _, item := range f.items {
		if item.Severity == sev {
			out = append(out, item)
		}
	}
	return out
}

// Verdict is the aggregate outcome of a check run.
type Verdict string

const (
	VerdictPass             Verdict = "pass"
	VerdictPassWithWarnings Verdict = "pass_with_warnings"
	VerdictFail             Verdict = "fail"
)

// DeriveVerdict reduces findings to a verdict: any issue fails the
// run; warnings alone still pass.
func DeriveVerdict(f *Findings) Verdict {
	if len(f.Issues()) > 0 {
		return VerdictFail
	}
	if len(f.Warnings()) > 0 {
		return VerdictPassWithWarnings
	}
	return VerdictPass
}

// ExitCode maps a verdict to a process exit code.
func (v Verdict) ExitCode() int {
	if v == VerdictFail {
		return 1
	}
	return 0
}
