package model

// JobState is the status string reported by a poll call.
type JobState string

const (
	StatePending    JobState = "pending"
	StateProcessing JobState = "processing"
	StateDone       JobState = "done"
	StateFailed     JobState = "failed"
	StateUnknown    JobState = "unknown"
)

// JobStatus is one interpreted poll response.
type JobStatus struct {
	// State is the mapped status. Unrecognised strings map to StateUnknown.
	State JobState

	// Raw is the status string exactly as the service sent it.
	Raw string

	// ImageURLs is set only when State is StateDone.
	ImageURLs []string
}

// ParseJobState maps a remote status string onto a JobState.
func ParseJobState(s string) JobState {
	switch JobState(s) {
	case StatePending, StateProcessing, StateDone, StateFailed:
		return JobState(s)
	default:
		return StateUnknown
	}
}

// IsTerminal reports whether polling should stop for this state.
func (s JobState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// String renders unknown states with the raw status for logs.
func (s JobStatus) String() string {
	if s.State == StateUnknown {
		return "unknown(" + s.Raw + ")"
	}
	return string(s.State)
}
