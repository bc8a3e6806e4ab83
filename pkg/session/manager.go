package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/warden/pkg/logging"
	"github.com/entrhq/warden/pkg/types"
)

// Manager owns a single long-lived browser session and coordinates all
// access to it. Exactly one operation holds the browser at a time; a
// background keep-alive refresh keeps the session authenticated across
// idle periods; resource-fatal failures are detected and repaired by
// tearing down and rebuilding the browser transparently.
type Manager struct {
	opts   Options
	driver Driver
	hooks  Hooks
	gate   *gate
	logger *logging.Logger

	mu           sync.RWMutex
	state        types.SessionState
	handle       *Handle
	lastActivity time.Time
	subscribers  []func(*types.SessionEvent)

	keepAliveCancel context.CancelFunc
	keepAliveDone   chan struct{}
}

// NewManager creates a session manager. The driver and hooks supply the
// two external capabilities the core delegates: launching/tearing down
// browsers, and the site-specific login/liveness/refresh procedures.
func NewManager(driver Driver, hooks Hooks, opts Options) *Manager {
	logger, _ := logging.NewLogger("session")
	return &Manager{
		opts:   opts.withDefaults(),
		driver: driver,
		hooks:  hooks.withDefaults(),
		gate:   newGate(),
		logger: logger,
		state:  types.StateUninitialized,
	}
}

// SetLogger replaces the manager's logger.
func (m *Manager) SetLogger(logger *logging.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Subscribe registers a callback for lifecycle events. Callbacks run
// synchronously on the emitting goroutine and must not call back into
// the manager.
func (m *Manager) Subscribe(fn func(*types.SessionEvent)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// State returns the current session state.
func (m *Manager) State() types.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// LastActivity returns when the session last completed an operation or
// keep-alive refresh. Zero until the first successful start.
func (m *Manager) LastActivity() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastActivity
}

// Generation returns the current handle's generation, or "" when no
// handle is held.
func (m *Manager) Generation() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.handle == nil {
		return ""
	}
	return m.handle.Generation
}

// Start launches the browser, runs the login procedure, and begins the
// keep-alive scheduler. Legal only from Uninitialized, Closed, or Error.
// On any failure the session lands in Error, an error event is emitted,
// and the caller must Start or Recover again. Start takes the gate, so
// concurrent Starts serialize and the loser fails its precondition
// instead of launching a second browser.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.gate.Acquire(ctx); err != nil {
		return err
	}
	defer m.gate.Release()

	current := m.State()
	switch current {
	case types.StateUninitialized, types.StateClosed, types.StateError:
	default:
		return &InvalidStateTransitionError{From: current, Op: "start"}
	}

	m.setState(types.StateStarting)
	handle, err := m.driver.Launch(ctx, m.opts)
	if err != nil {
		return m.fail(fmt.Errorf("launch failed: %w", err))
	}
	m.setHandle(handle)
	m.logger.Infof("browser launched, generation %s", handle.Generation)

	m.setState(types.StateLoggingIn)
	if err := m.hooks.PerformLogin(ctx, handle); err != nil {
		return m.fail(fmt.Errorf("login failed: %w", err))
	}

	m.startKeepAlive()
	m.setState(types.StateReady)
	m.touch()
	return nil
}

// WithResource runs op with exclusive access to the browser handle,
// racing it against the timeout (the configured default applies when
// timeout <= 0). The gate is held for the whole call, so a timed-out
// operation never overlaps the next one. Errors matching a driver crash
// signature trigger a recovery cycle before the original error is
// returned; business errors propagate unchanged with no recovery.
func (m *Manager) WithResource(ctx context.Context, timeout time.Duration, op func(ctx context.Context, h *Handle) error) error {
	if op == nil {
		return errors.New("session: nil operation")
	}
	if timeout <= 0 {
		timeout = m.opts.OperationTimeout
	}

	if err := m.gate.Acquire(ctx); err != nil {
		return err
	}
	defer m.gate.Release()

	handle, err := m.acquireResource(ctx)
	if err != nil {
		return err
	}
	defer m.releaseResource()

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(opCtx, handle)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err == nil {
			return nil
		}
		if IsResourceFatal(err) {
			m.logger.Warnf("operation failed with resource-fatal error, recovering: %v", err)
			if recErr := m.recoverLocked(ctx); recErr != nil {
				var stateErr *InvalidStateTransitionError
				if errors.As(recErr, &stateErr) {
					// The session was closed underneath the operation;
					// the close wins and there is nothing to rebuild.
					return err
				}
				// The recovery failure supersedes the original error:
				// the caller needs to know the session is now down.
				return recErr
			}
		}
		return err
	case <-timer.C:
		// The loser of the race is discarded, not cancelled at the
		// driver level; opCtx lets cooperative operations stop early.
		cancel()
		m.logger.Warnf("operation timed out after %s", timeout)
		return &OperationTimeoutError{Timeout: timeout}
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// acquireResource transitions Ready -> Busy and returns the handle. If
// the session is in Error it first attempts one implicit recovery, so a
// previously failed session self-heals on the next operation. Must be
// called with the gate held.
func (m *Manager) acquireResource(ctx context.Context) (*Handle, error) {
	if m.State() == types.StateError {
		if err := m.recoverLocked(ctx); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	if m.state != types.StateReady || m.handle == nil {
		state := m.state
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: state %q", ErrResourceUnavailable, state)
	}
	handle := m.handle
	prev := m.state
	m.state = types.StateBusy
	m.mu.Unlock()

	m.emit(types.NewStateChangeEvent(types.StateBusy, prev))
	return handle, nil
}

// releaseResource transitions Busy -> Ready and records activity. A
// no-op from any other state, so it is safe to call from every failure
// branch without double-transitioning.
func (m *Manager) releaseResource() {
	m.mu.Lock()
	if m.state != types.StateBusy {
		m.mu.Unlock()
		return
	}
	m.state = types.StateReady
	m.lastActivity = time.Now()
	m.mu.Unlock()

	m.emit(types.NewStateChangeEvent(types.StateReady, types.StateBusy))
}

// Recover tears down and rebuilds the browser session on demand. Used
// for caller-initiated recovery outside of an active operation; failed
// operations and keep-alive checks trigger the same cycle internally.
func (m *Manager) Recover(ctx context.Context) error {
	if err := m.gate.Acquire(ctx); err != nil {
		return err
	}
	defer m.gate.Release()
	return m.recoverLocked(ctx)
}

// recoverLocked replaces the current handle with a fresh generation and
// re-runs the login procedure. The caller must hold the gate. Reentrant
// triggers collapse via the Recovering state check rather than a second
// lock: every path that can reach here already holds the gate. Recovery
// is legal only from Ready, Busy, or Error; in particular a Closed
// session stays closed, since rebuilding it would leave a browser
// running that no scheduler tends.
func (m *Manager) recoverLocked(ctx context.Context) error {
	switch current := m.State(); current {
	case types.StateRecovering:
		return nil
	case types.StateReady, types.StateBusy, types.StateError:
	default:
		return &InvalidStateTransitionError{From: current, Op: "recover"}
	}
	m.setState(types.StateRecovering)
	m.logger.Infof("recovering session")

	m.teardownHandle(ctx)

	handle, err := m.driver.Launch(ctx, m.opts)
	if err != nil {
		return m.fail(fmt.Errorf("recovery launch failed: %w", err))
	}
	m.setHandle(handle)

	if err := m.hooks.PerformLogin(ctx, handle); err != nil {
		return m.fail(fmt.Errorf("recovery login failed: %w", err))
	}

	m.logger.Infof("session recovered, generation %s", handle.Generation)
	m.emit(types.NewRecoveredEvent())
	m.setState(types.StateReady)
	m.touch()
	return nil
}

// Close stops the keep-alive scheduler, tears down the browser, and
// transitions to Closed. Teardown errors are swallowed, so Close always
// succeeds from the caller's perspective. Close does not take the gate:
// it must complete even while an operation is in flight.
func (m *Manager) Close() {
	m.stopKeepAlive()
	m.teardownHandle(context.Background())
	m.setState(types.StateClosed)
	m.logger.Infof("session closed")
}

// ForceClose is the fallback shutdown path for callers that cannot
// guarantee a graceful Close runs, e.g. under process-termination
// pressure. Teardown already swallows its own errors, so the semantics
// are identical to Close.
func (m *Manager) ForceClose() {
	m.Close()
}

// Restart closes the session and starts it again. Not atomic: an
// observer can see Closed between the two steps.
func (m *Manager) Restart(ctx context.Context) error {
	m.Close()
	return m.Start(ctx)
}

// fail transitions to Error, emits an error event, and returns err.
func (m *Manager) fail(err error) error {
	m.setState(types.StateError)
	m.logger.Errorf("session failed: %v", err)
	m.emit(types.NewErrorEvent(err))
	return err
}

// teardownHandle detaches the current handle and tears it down,
// swallowing (but logging) teardown errors.
func (m *Manager) teardownHandle(ctx context.Context) {
	m.mu.Lock()
	handle := m.handle
	m.handle = nil
	m.mu.Unlock()

	if handle == nil {
		return
	}
	if err := m.driver.Teardown(ctx, handle); err != nil {
		m.logger.Warnf("teardown failed for generation %s: %v", handle.Generation, err)
	}
}

func (m *Manager) setHandle(h *Handle) {
	m.mu.Lock()
	m.handle = h
	m.mu.Unlock()
}

func (m *Manager) setState(next types.SessionState) {
	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()

	if prev != next {
		m.emit(types.NewStateChangeEvent(next, prev))
	}
}

func (m *Manager) touch() {
	m.mu.Lock()
	m.lastActivity = time.Now()
	m.mu.Unlock()
}

// emit delivers an event to all subscribers, outside the manager lock.
func (m *Manager) emit(event *types.SessionEvent) {
	m.mu.RLock()
	subscribers := make([]func(*types.SessionEvent), len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.RUnlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
