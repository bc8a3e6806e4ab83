package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// PlaywrightDriver launches Chromium sessions through Playwright. The
// Playwright runtime is installed and started lazily on first launch and
// shared across generations; Stop shuts it down.
type PlaywrightDriver struct {
	mu     sync.Mutex
	pw     *playwright.Playwright
	output io.Writer
}

// NewPlaywrightDriver creates a driver. Playwright's own process output
// is discarded unless redirected with SetOutput.
func NewPlaywrightDriver() *PlaywrightDriver {
	return &PlaywrightDriver{output: io.Discard}
}

// SetOutput redirects the Playwright runtime's stdout/stderr, typically
// to a log file. Must be called before the first Launch.
func (d *PlaywrightDriver) SetOutput(w io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w != nil {
		d.output = w
	}
}

// ensureRuntime installs and starts Playwright once.
func (d *PlaywrightDriver) ensureRuntime() (*playwright.Playwright, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pw != nil {
		return d.pw, nil
	}

	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  d.output,
		Stderr:  d.output,
	}

	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	d.pw = pw
	return pw, nil
}

// Launch starts a browser, context, and page configured from opts and
// returns them as a new handle generation. Partial launches are closed
// before the error returns.
func (d *PlaywrightDriver) Launch(ctx context.Context, opts Options) (*Handle, error) {
	pw, err := d.ensureRuntime()
	if err != nil {
		return nil, err
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: opts.Headless,
		Args:     opts.LaunchArgs,
	}
	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
		Locale:     playwright.String(opts.Locale),
		TimezoneId: playwright.String(opts.TimezoneID),
	}
	browserContext, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &Handle{
		Browser:    browser,
		Context:    browserContext,
		Page:       page,
		Generation: uuid.New().String(),
		CreatedAt:  time.Now(),
	}, nil
}

// Teardown closes the handle's resources innermost-first. Close errors
// are collected rather than aborting, so a dead page never prevents the
// browser process from being reaped.
func (d *PlaywrightDriver) Teardown(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}

	var errs []error
	if h.Page != nil {
		if err := h.Page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if h.Context != nil {
		if err := h.Context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
	}
	if h.Browser != nil {
		if err := h.Browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Stop shuts down the shared Playwright runtime. Call after the manager
// is closed; subsequent launches restart the runtime.
func (d *PlaywrightDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pw == nil {
		return nil
	}
	pw := d.pw
	d.pw = nil

	if err := pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}
