package metadata

import (
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
)

// Dotted paths of the execution block.
const (
	PathTaskName        = "task.name"
	PathStatus          = "execution.status"
	PathCreatedAt       = "execution.created_at"
	PathStartedAt       = "execution.started_at"
	PathCompletedAt     = "execution.completed_at"
	PathPhasesCompleted = "execution.phases_completed"
)

// RequiredField names a dotted path the workflow driver must fill in
// before downstream automation can trust the record.
type RequiredField struct {
	Path string
	Name string
}

// RequiredFields lists the fields the completeness check validates.
func RequiredFields() []RequiredField {
	return []RequiredField{
		{PathTaskName, "task name"},
		{PathStatus, "execution status"},
		{PathCreatedAt, "created timestamp"},
	}
}

// MissingPhases returns the expected phases absent from the record's
// completed-phase list, in pipeline order.
func MissingPhases(rec Record) []core.Phase {
	completed := make(map[string]bool)
	for _, p := range rec.StringsAt(PathPhasesCompleted) {
		completed[p] = true
	}

	var missing []core.Phase
	for _, p := range core.AllPhases() {
		if !completed[p.String()] {
			missing = append(missing, p)
		}
	}
	return missing
}

// MarkPhase records a phase as complete and advances the execution
// status accordingly. Marking an already-completed phase is a no-op
// for the list but still updates the status.
func MarkPhase(rec Record, phase core.Phase, now time.Time) error {
	if !core.ValidPhase(phase) {
		return core.ErrValidation(core.CodeInvalidPhase,
			fmt.Sprintf("invalid phase %q, expected phase0..phase5", phase))
	}

	phases := rec.StringsAt(PathPhasesCompleted)
	seen := false
	for _, p := range phases {
		if p == phase.String() {
			seen = true
			break
		}
	}
	if !seen {
		updated := make([]any, 0, len(phases)+1)
		for _, p := range phases {
			updated = append(updated, p)
		}
		updated = append(updated, phase.String())
		rec.Set(PathPhasesCompleted, updated)
	}

	rec.Set(PathStatus, string(core.StatusAfter(phase)))
	if phase == core.Phase3 && !rec.Truthy(PathStartedAt) {
		rec.Set(PathStartedAt, now.Format(time.RFC3339))
	}

	return nil
}

// MarkComplete marks the whole run as finished.
func MarkComplete(rec Record, now time.Time) {
	rec.Set(PathStatus, string(core.StatusCompleted))
	rec.Set(PathCompletedAt, now.Format(time.RFC3339))
}

// OutputStat carries the per-output numbers RecomputeSubtasks folds
// into the record. Status here follows the updater classification
// (report.ClassifyForStats), not the parser's 4-way split.
type OutputStat struct {
	Status     core.SubtaskStatus
	References int
	Size       int
}

// RecomputeSubtasks rewrites the subtask and statistics summaries
// from the manifest size and the scanned outputs.
func RecomputeSubtasks(rec Record, total int, outputs []OutputStat) {
	counts := map[core.SubtaskStatus]int{}
	totalRefs := 0
	totalSize := 0
	for _, out := range outputs {
		counts[out.Status]++
		totalRefs += out.References
		totalSize += out.Size
	}

	rec.Set("subtasks.total", total)
	rec.Set("subtasks.success", counts[core.SubtaskSuccess])
	rec.Set("subtasks.failed", counts[core.SubtaskFailed])
	rec.Set("subtasks.timeout", counts[core.SubtaskTimeout])
	rec.Set("subtasks.partial", counts[core.SubtaskPartial])
	rec.Set("statistics.total_references", totalRefs)
	rec.Set("statistics.total_size", totalSize)
}

// ApplySet parses a "path.to.field=value" assignment and applies it
// to the record with best-effort type coercion.
func ApplySet(rec Record, assignment string) (string, any, error) {
	path, raw, ok := strings.Cut(assignment, "=")
	if !ok || path == "" {
		return "", nil, core.ErrValidation(core.CodeInvalidField,
			fmt.Sprintf("invalid assignment %q, expected path.to.field=value", assignment))
	}

	value := CoerceValue(raw)
	rec.Set(path, value)
	return path, value, nil
}
