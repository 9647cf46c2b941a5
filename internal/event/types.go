package event

import "time"

// Event is implemented by everything published on the Bus.
// Event types follow the "category.action" convention.
type Event interface {
	EventType() string
	Timestamp() time.Time
}

// baseEvent carries the common fields; embed it in concrete events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// Well-known event type strings.
const (
	TypeSessionDetected      = "session.detected"
	TypeSessionStatusChanged = "session.status_changed"
	TypeSessionIdle          = "session.idle"
	TypeSessionExited        = "session.exited"
)

// SessionDetectedEvent fires the first time a session's output matches a
// known agent signature.
type SessionDetectedEvent struct {
	baseEvent
	SessionID string
}

// NewSessionDetectedEvent creates a SessionDetectedEvent.
func NewSessionDetectedEvent(sessionID string) SessionDetectedEvent {
	return SessionDetectedEvent{
		baseEvent: newBaseEvent(TypeSessionDetected),
		SessionID: sessionID,
	}
}

// SessionStatusChangedEvent fires whenever a session's displayed state
// changes. States are the session layer's display-state names
// ("working", "idle", "waiting", "error", "unknown"); string-typed so
// subscribers need no dependency on the session package.
type SessionStatusChangedEvent struct {
	baseEvent
	SessionID string
	Old       string
	New       string
	Message   string
}

// NewSessionStatusChangedEvent creates a SessionStatusChangedEvent.
func NewSessionStatusChangedEvent(sessionID, oldState, newState, message string) SessionStatusChangedEvent {
	return SessionStatusChangedEvent{
		baseEvent: newBaseEvent(TypeSessionStatusChanged),
		SessionID: sessionID,
		Old:       oldState,
		New:       newState,
		Message:   message,
	}
}

// SessionIdleEvent fires on a working-to-idle transition. It is the signal
// notification surfaces listen for ("the agent needs you").
type SessionIdleEvent struct {
	baseEvent
	SessionID string
	Message   string
}

// NewSessionIdleEvent creates a SessionIdleEvent.
func NewSessionIdleEvent(sessionID, message string) SessionIdleEvent {
	return SessionIdleEvent{
		baseEvent: newBaseEvent(TypeSessionIdle),
		SessionID: sessionID,
		Message:   message,
	}
}

// SessionExitedEvent fires when the session's process ends.
type SessionExitedEvent struct {
	baseEvent
	SessionID string
	ExitCode  int
	Err       error
}

// NewSessionExitedEvent creates a SessionExitedEvent.
func NewSessionExitedEvent(sessionID string, exitCode int, err error) SessionExitedEvent {
	return SessionExitedEvent{
		baseEvent: newBaseEvent(TypeSessionExited),
		SessionID: sessionID,
		ExitCode:  exitCode,
		Err:       err,
	}
}
