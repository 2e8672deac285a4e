package core

// SubtaskStatus classifies the outcome of a single subtask report.
type SubtaskStatus string

const (
	SubtaskSuccess SubtaskStatus = "success"
	SubtaskFailed  SubtaskStatus = "failed"
	SubtaskTimeout SubtaskStatus = "timeout"
	SubtaskPartial SubtaskStatus = "partial"
	SubtaskMissing SubtaskStatus = "missing"
)

// StatusRank orders statuses from best to worst outcome. It drives
// the status sort of the aggregator; unknown statuses sort last.
func StatusRank(s SubtaskStatus) int {
	switch s {
	case SubtaskSuccess:
		return 0
	case SubtaskPartial:
		return 1
	case SubtaskTimeout:
		return 2
	case SubtaskFailed:
		return 3
	default:
		return 4
	}
}
