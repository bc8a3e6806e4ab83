package session

import (
	"context"
	"time"

	"github.com/entrhq/warden/pkg/types"
)

// startKeepAlive launches the background refresh loop. No-op if the loop
// is already running (a recovery inside an already-started session must
// not spawn a second scheduler).
func (m *Manager) startKeepAlive() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.keepAliveCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.keepAliveCancel = cancel
	m.keepAliveDone = done

	go m.keepAliveLoop(ctx, done)
}

// stopKeepAlive cancels the refresh loop and waits for it to exit, so
// no tick can run concurrently with teardown.
func (m *Manager) stopKeepAlive() {
	m.mu.Lock()
	cancel := m.keepAliveCancel
	done := m.keepAliveDone
	m.keepAliveCancel = nil
	m.keepAliveDone = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// KeepAliveRunning reports whether the background refresh loop is active.
func (m *Manager) KeepAliveRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.keepAliveCancel != nil
}

func (m *Manager) keepAliveLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.opts.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.keepAliveTick(ctx)
		}
	}
}

// keepAliveTick refreshes the session and verifies it is still logged
// in. The first state check is a cheap, unsynchronized pre-check; the
// gate is then taken non-blocking, so a tick that loses the race to an
// operation skips this interval rather than queueing behind it. An
// operation can still slip in between the two, so the state is checked
// a second time once the gate is held.
func (m *Manager) keepAliveTick(ctx context.Context) {
	if m.State() != types.StateReady {
		return
	}

	if !m.gate.TryAcquire() {
		return
	}
	defer m.gate.Release()

	m.mu.RLock()
	state := m.state
	handle := m.handle
	m.mu.RUnlock()
	if state != types.StateReady || handle == nil {
		return
	}

	if err := m.hooks.RefreshForKeepAlive(ctx, handle); err != nil {
		m.logger.Warnf("keep-alive refresh failed: %v", err)
		m.recoverFromTick(ctx)
		return
	}

	loggedIn, err := m.hooks.IsLoggedIn(ctx, handle)
	if err != nil {
		m.logger.Warnf("keep-alive liveness check failed: %v", err)
		m.recoverFromTick(ctx)
		return
	}
	if !loggedIn {
		m.logger.Warnf("session expired, recovering")
		m.emit(types.NewSessionExpiredEvent())
		m.recoverFromTick(ctx)
		return
	}

	m.touch()
}

// recoverFromTick runs a recovery cycle from the keep-alive scheduler.
// There is no caller to propagate a failure to, so recovery errors are
// reported only through the error event and the log.
func (m *Manager) recoverFromTick(ctx context.Context) {
	if err := m.recoverLocked(ctx); err != nil {
		m.logger.Errorf("keep-alive recovery failed: %v", err)
	}
}
