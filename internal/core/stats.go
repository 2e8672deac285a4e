package core

// RunStatistics holds the counters collected over one check run.
// Counters start at zero and are incremented by the individual check
// steps; the struct is read-only once the run completes.
//
// The per-status subtask counters partition the manifest:
//
//	Completed + Failed + Timeout + Partial + Empty + Missing == Total
type RunStatistics struct {
	TotalSubtasks     int `json:"total_subtasks"`
	CompletedSubtasks int `json:"completed_subtasks"`
	FailedSubtasks    int `json:"failed_subtasks"`
	TimeoutSubtasks   int `json:"timeout_subtasks"`
	PartialSubtasks   int `json:"partial_subtasks"`
	EmptyOutputs      int `json:"empty_outputs"`
	MissingOutputs    int `json:"missing_outputs"`

	// TotalReferences counts every detected citation, inline or bare;
	// ReferencesWithURL counts only well-formed inline links.
	TotalReferences   int `json:"total_references"`
	ReferencesWithURL int `json:"references_with_url"`

	DataPoints         int `json:"data_points"`
	DataPointsWithDate int `json:"data_points_with_date"`
}

// SubtasksAccounted sums the per-status subtask counters. Tests
// assert it equals TotalSubtasks; a discrepancy is a parsing bug.
func (s RunStatistics) SubtasksAccounted() int {
	return s.CompletedSubtasks + s.FailedSubtasks + s.TimeoutSubtasks +
		s.PartialSubtasks + s.EmptyOutputs + s.MissingOutputs
}
