package apiclient

// TimelapseStatus is owned by the service. Clients request changes through
// UpdateTimelapse and read the result back, they never derive it.
type TimelapseStatus string

const (
	TimelapsePending   TimelapseStatus = "pending"
	TimelapseRunning   TimelapseStatus = "running"
	TimelapsePaused    TimelapseStatus = "paused"
	TimelapseCompleted TimelapseStatus = "completed"
)

// modeled transitions; the service has the final say
var timelapseTransitions = map[TimelapseStatus][]TimelapseStatus{
	// pending can complete directly when its scheduled end passed before start
	TimelapsePending: {TimelapseRunning, TimelapseCompleted},
	TimelapseRunning: {TimelapsePaused, TimelapseCompleted},
	TimelapsePaused:  {TimelapseRunning, TimelapseCompleted},
}

func (s TimelapseStatus) Valid() bool {
	switch s {
	case TimelapsePending, TimelapseRunning, TimelapsePaused, TimelapseCompleted:
		return true
	}
	return false
}

func (s TimelapseStatus) IsTerminal() bool {
	return s == TimelapseCompleted
}

// CanTransition reports whether s -> to is part of the modeled lifecycle.
// It does not make a transition legal, only the service can accept it.
func (s TimelapseStatus) CanTransition(to TimelapseStatus) bool {
	for _, next := range timelapseTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type ExportStatus string

const (
	ExportPending   ExportStatus = "pending"
	ExportRunning   ExportStatus = "running"
	ExportCompleted ExportStatus = "completed"
	ExportError     ExportStatus = "error"
)

var exportTransitions = map[ExportStatus][]ExportStatus{
	// the job can fail before the encoder starts
	ExportPending: {ExportRunning, ExportError},
	ExportRunning: {ExportCompleted, ExportError},
}

func (s ExportStatus) Valid() bool {
	switch s {
	case ExportPending, ExportRunning, ExportCompleted, ExportError:
		return true
	}
	return false
}

func (s ExportStatus) IsTerminal() bool {
	return s == ExportCompleted || s == ExportError
}

func (s ExportStatus) CanTransition(to ExportStatus) bool {
	for _, next := range exportTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
