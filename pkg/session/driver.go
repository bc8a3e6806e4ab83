package session

import "context"

// Driver launches and tears down browser handles. The production
// implementation is PlaywrightDriver; tests substitute a fake.
type Driver interface {
	// Launch starts a new browser, context, and page and returns them as
	// a fully populated handle with a fresh generation. If any step of
	// the launch fails, resources created so far are closed before the
	// error is returned -- no partial handle ever escapes.
	Launch(ctx context.Context, opts Options) (*Handle, error)

	// Teardown closes the handle's page, context, and browser. Teardown
	// is best-effort: the manager logs and swallows any error it returns,
	// since closing an already-broken handle must never block cleanup.
	Teardown(ctx context.Context, h *Handle) error
}
