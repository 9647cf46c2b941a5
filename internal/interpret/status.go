package interpret

// Status is the activity classification for an agent session.
type Status int

const (
	// StatusNone means the output carried no new classifiable signal.
	// Callers should keep whatever status they last displayed.
	StatusNone Status = iota

	// StatusWorking means the agent is actively doing something: a spinner
	// is animating, a tool call is in flight, or a progress line is visible.
	StatusWorking

	// StatusIdle means the agent is sitting at its input prompt waiting for
	// the user, with no modal menu or confirmation on screen.
	StatusIdle
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusWorking:
		return "working"
	case StatusIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Report is the result of one Ingest call.
//
// A zero Status means "no status update" and an empty Message means "no
// message available"; absence is never an instruction to clear previously
// displayed state.
type Report struct {
	Status  Status
	Message string
}
