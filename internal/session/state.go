package session

// DisplayState is the four-state indicator a session exposes to the UI.
// Working and Idle come straight from the interpreter; Waiting and Error
// are derived here from process and watchdog observations, not from output
// patterns.
type DisplayState int

const (
	// StateUnknown means no classifiable signal has been seen yet.
	StateUnknown DisplayState = iota

	// StateWorking means the agent is actively producing work output.
	StateWorking

	// StateIdle means the agent is at its prompt waiting for the user.
	StateIdle

	// StateWaiting means the agent has gone quiet without reaching its
	// prompt, typically stuck inside a modal confirmation or menu. It
	// needs attention but is not plainly idle.
	StateWaiting

	// StateError means the agent process exited with a failure.
	StateError
)

// String returns the display-state name used in events and logs.
func (s DisplayState) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateWorking:
		return "working"
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateError:
		return "error"
	default:
		return "invalid"
	}
}
