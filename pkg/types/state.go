package types

// SessionState defines the lifecycle state of a managed browser session.
// Exactly one state holds at any instant; transitions are emitted as
// state change events carrying the new and previous values.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized" // StateUninitialized indicates no browser resources are held yet.
	StateStarting      SessionState = "starting"      // StateStarting indicates a browser launch is in progress.
	StateLoggingIn     SessionState = "logging_in"    // StateLoggingIn indicates the login procedure is running.
	StateReady         SessionState = "ready"         // StateReady indicates the session is idle and available.
	StateBusy          SessionState = "busy"          // StateBusy indicates an operation currently holds the resource.
	StateRecovering    SessionState = "recovering"    // StateRecovering indicates a teardown-and-rebuild cycle is in progress.
	StateError         SessionState = "error"         // StateError indicates the last start or recovery attempt failed.
	StateClosed        SessionState = "closed"        // StateClosed indicates all browser resources have been released.
)

// String returns the state as a plain string.
func (s SessionState) String() string {
	return string(s)
}

// IsTerminal returns true if the state ends the current session generation.
// Error is recoverable via explicit or implicit recovery; Closed requires
// a fresh start.
func (s SessionState) IsTerminal() bool {
	return s == StateClosed
}
