package session

import "time"

// Default values for session options
const (
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 720
	DefaultKeepAliveInterval = 5 * time.Minute
	DefaultOperationTimeout  = 60 * time.Second
	DefaultLocale            = "ja-JP"
	DefaultTimezoneID        = "Asia/Tokyo"
)

// defaultLaunchArgs are applied when no launch arguments are configured.
// The sandbox flags are required to run Chromium inside containers.
var defaultLaunchArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Options configures a managed browser session. The zero value is usable;
// defaults are applied at construction and the resulting options are
// immutable for the lifetime of the manager.
type Options struct {
	// Headless controls whether the browser runs without a visible window.
	// Nil means the default (true).
	Headless *bool

	// Viewport sets the initial viewport size.
	Viewport *Viewport

	// KeepAliveInterval is how often the background refresh fires.
	KeepAliveInterval time.Duration

	// OperationTimeout is the default deadline for WithResource operations
	// that do not supply their own.
	OperationTimeout time.Duration

	// LaunchArgs are extra Chromium launch arguments.
	LaunchArgs []string

	// Locale is the browser locale, e.g. "ja-JP".
	Locale string

	// TimezoneID is the IANA timezone identifier, e.g. "Asia/Tokyo".
	TimezoneID string
}

// withDefaults returns a copy of the options with defaults applied for
// any omitted field.
func (o Options) withDefaults() Options {
	if o.Headless == nil {
		headless := true
		o.Headless = &headless
	}
	if o.Viewport == nil {
		o.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if o.KeepAliveInterval <= 0 {
		o.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if o.OperationTimeout <= 0 {
		o.OperationTimeout = DefaultOperationTimeout
	}
	if o.LaunchArgs == nil {
		o.LaunchArgs = append([]string(nil), defaultLaunchArgs...)
	}
	if o.Locale == "" {
		o.Locale = DefaultLocale
	}
	if o.TimezoneID == "" {
		o.TimezoneID = DefaultTimezoneID
	}
	return o
}
