package session

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Handle bundles the browser resources backing one session generation.
// A driver either returns a fully populated handle or an error; callers
// never observe a partial triple. Handles are valid only for the duration
// of a single WithResource call and must not be retained across calls --
// recovery replaces the whole handle with a new generation.
type Handle struct {
	// Browser is the root Playwright browser instance.
	Browser playwright.Browser

	// Context is the browser context (isolated session).
	Context playwright.BrowserContext

	// Page is the interactive surface operations and hooks drive.
	Page playwright.Page

	// Generation uniquely identifies this handle's lifetime. Each
	// start, recovery, or restart mints a new generation.
	Generation string

	// CreatedAt is when this generation was launched.
	CreatedAt time.Time
}
