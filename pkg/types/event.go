package types

// SessionEventType defines the type of event emitted by the session manager.
type SessionEventType string

const (
	EventTypeStateChange    SessionEventType = "state_change"    // EventTypeStateChange indicates the session moved to a new lifecycle state.
	EventTypeError          SessionEventType = "error"           // EventTypeError indicates a start, operation, or recovery failure.
	EventTypeSessionExpired SessionEventType = "session_expired" // EventTypeSessionExpired indicates the keep-alive liveness check found the login gone.
	EventTypeRecovered      SessionEventType = "recovered"       // EventTypeRecovered indicates a broken session was rebuilt and re-authenticated.
)

// SessionEvent represents a lifecycle event emitted by the session manager.
type SessionEvent struct {
	// Type indicates the kind of event.
	Type SessionEventType

	// State is the new session state (for state change events).
	State SessionState

	// Previous is the state before the transition (for state change events).
	Previous SessionState

	// Err contains error information for error events.
	Err error
}

// NewStateChangeEvent creates a state change event.
func NewStateChangeEvent(state, previous SessionState) *SessionEvent {
	return &SessionEvent{
		Type:     EventTypeStateChange,
		State:    state,
		Previous: previous,
	}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(err error) *SessionEvent {
	return &SessionEvent{
		Type: EventTypeError,
		Err:  err,
	}
}

// NewSessionExpiredEvent creates a session expired event.
func NewSessionExpiredEvent() *SessionEvent {
	return &SessionEvent{
		Type: EventTypeSessionExpired,
	}
}

// NewRecoveredEvent creates a recovered event.
func NewRecoveredEvent() *SessionEvent {
	return &SessionEvent{
		Type: EventTypeRecovered,
	}
}

// IsStateChangeEvent returns true if this is a state change event.
func (e *SessionEvent) IsStateChangeEvent() bool {
	return e.Type == EventTypeStateChange
}

// IsErrorEvent returns true if this is an error event.
func (e *SessionEvent) IsErrorEvent() bool {
	return e.Type == EventTypeError
}
