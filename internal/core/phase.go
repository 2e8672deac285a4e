package core

import "fmt"

// Phase identifies one stage of the wide-research pipeline.
type Phase string

const (
	// Phase0 scopes the research question and plans the subtask split.
	Phase0 Phase = "phase0"

	// Phase1 and Phase2 prepare the workspace and the subtask manifest.
	Phase1 Phase = "phase1"
	Phase2 Phase = "phase2"

	// Phase3 fans out the subtasks; their outputs land under outputs/.
	Phase3 Phase = "phase3"

	// Phase4 and Phase5 aggregate the raw outputs and synthesize the
	// final report.
	Phase4 Phase = "phase4"
	Phase5 Phase = "phase5"
)

// ExecutionStatus reflects how far the workflow driver has progressed.
type ExecutionStatus string

const (
	StatusPending    ExecutionStatus = "pending"
	StatusPlanning   ExecutionStatus = "planning"
	StatusPreparing  ExecutionStatus = "preparing"
	StatusExecuting  ExecutionStatus = "executing"
	StatusFinalizing ExecutionStatus = "finalizing"
	StatusCompleted  ExecutionStatus = "completed"
)

// AllPhases returns the pipeline phases in execution order.
func AllPhases() []Phase {
	return []Phase{Phase0, Phase1, Phase2, Phase3, Phase4, Phase5}
}

// PhaseOrder returns the numeric order of a phase (0-indexed), or -1
// for an unknown phase.
func PhaseOrder(p Phase) int {
	switch p {
	case Phase0:
		return 0
	case Phase1:
		return 1
	case Phase2:
		return 2
	case Phase3:
		return 3
	case Phase4:
		return 4
	case Phase5:
		return 5
	default:
		return -1
	}
}

// ValidPhase checks if a phase string is one of the six known phases.
func ValidPhase(p Phase) bool {
	return PhaseOrder(p) >= 0
}

// ParsePhase converts a string to a Phase with validation.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !ValidPhase(p) {
		return "", fmt.Errorf("invalid phase: %s", s)
	}
	return p, nil
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// StatusAfter returns the execution status the workflow enters once
// the given phase has been marked complete.
func StatusAfter(p Phase) ExecutionStatus {
	switch p {
	case Phase0:
		return StatusPlanning
	case Phase1, Phase2:
		return StatusPreparing
	case Phase3:
		return StatusExecuting
	case Phase4, Phase5:
		return StatusFinalizing
	default:
		return StatusPending
	}
}
