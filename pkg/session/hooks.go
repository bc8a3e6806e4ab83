package session

import "context"

// Hooks supplies the site-specific procedures the manager cannot know:
// how to log in, how to tell whether the login is still valid, and how
// to refresh the session during idle periods. Any nil hook gets a safe
// default, so callers only implement what their site requires.
type Hooks struct {
	// PerformLogin authenticates a freshly launched handle. Called during
	// Start and after every recovery rebuild. Default: no-op.
	PerformLogin func(ctx context.Context, h *Handle) error

	// IsLoggedIn reports whether the session is still authenticated.
	// Called by the keep-alive scheduler after each refresh.
	// Default: always true.
	IsLoggedIn func(ctx context.Context, h *Handle) (bool, error)

	// RefreshForKeepAlive keeps the session warm during idle periods.
	// Default: reload the current page.
	RefreshForKeepAlive func(ctx context.Context, h *Handle) error
}

// withDefaults returns a copy of the hooks with no-op or reload defaults
// filled in for nil fields.
func (h Hooks) withDefaults() Hooks {
	if h.PerformLogin == nil {
		h.PerformLogin = func(context.Context, *Handle) error { return nil }
	}
	if h.IsLoggedIn == nil {
		h.IsLoggedIn = func(context.Context, *Handle) (bool, error) { return true, nil }
	}
	if h.RefreshForKeepAlive == nil {
		h.RefreshForKeepAlive = func(_ context.Context, handle *Handle) error {
			if handle == nil || handle.Page == nil {
				return nil
			}
			_, err := handle.Page.Reload()
			return err
		}
	}
	return h
}
