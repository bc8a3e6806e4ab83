// Package session provides long-lived, exclusive-access management of a
// single browser session through Playwright.
//
// The package solves the coordination problem around a stateful browser
// that must survive many sequential operations without being restarted
// for each one: only one operation ever touches the browser at a time,
// the session is kept alive and authenticated across idle periods, and
// a crashed browser is rebuilt transparently without corrupting whatever
// operation observed the crash.
//
// # Architecture
//
// The package is built around four cooperating pieces:
//
//  1. Manager: the facade owning the session state machine and handle
//  2. Exclusivity gate: a FIFO single-holder lock serializing all access
//  3. Keep-alive scheduler: a background refresh loop on its own timer
//  4. Recovery: a teardown-and-rebuild cycle replacing a broken handle
//
// # Session lifecycle
//
// A session moves through explicit states:
//
//	Uninitialized -> Starting -> LoggingIn -> Ready <-> Busy
//	Ready/Busy/Error -> Recovering -> Ready (or Error)
//	any -> Closed
//
// Start launches the browser and runs the caller's login hook. Each
// WithResource call acquires the gate, hands the caller a fresh handle,
// and races the operation against its timeout. Errors matching known
// browser-crash signatures trigger recovery before the original error is
// returned; other errors propagate untouched. Close releases everything.
//
// # Hooks
//
// Site-specific behavior is injected as three function values rather
// than subclassing: PerformLogin, IsLoggedIn, and RefreshForKeepAlive.
// Unset hooks default to no-op, always-logged-in, and page reload.
//
// # Example usage
//
//	driver := session.NewPlaywrightDriver()
//	mgr := session.NewManager(driver, session.Hooks{
//	    PerformLogin: func(ctx context.Context, h *session.Handle) error {
//	        _, err := h.Page.Goto("https://example.com/login")
//	        return err
//	    },
//	}, session.Options{})
//
//	if err := mgr.Start(ctx); err != nil {
//	    return err
//	}
//	defer mgr.Close()
//
//	err := mgr.WithResource(ctx, 30*time.Second, func(ctx context.Context, h *session.Handle) error {
//	    _, err := h.Page.Goto("https://example.com/orders")
//	    return err
//	})
package session
