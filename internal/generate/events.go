package generate

import "time"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// State is the position of a Workflow in its state machine.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StatePolling
	StateDownloading
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StatePolling:
		return "polling"
	case StateDownloading:
		return "downloading"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the workflow has finished.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Event is one timestamped log line of a run.
type Event struct {
	Time    time.Time
	RunID   string
	State   State
	Level   ProgressLevel
	Message string
}
