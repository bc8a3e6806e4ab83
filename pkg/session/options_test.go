package session

import (
	"testing"
	"time"
)

func TestOptions_WithDefaults(t *testing.T) {
	t.Run("zero value gets all defaults", func(t *testing.T) {
		opts := Options{}.withDefaults()

		if opts.Headless == nil || !*opts.Headless {
			t.Error("Expected headless to default to true")
		}
		if opts.Viewport == nil || opts.Viewport.Width != DefaultViewportWidth || opts.Viewport.Height != DefaultViewportHeight {
			t.Errorf("Unexpected default viewport: %+v", opts.Viewport)
		}
		if opts.KeepAliveInterval != DefaultKeepAliveInterval {
			t.Errorf("Expected %s keep-alive interval, got %s", DefaultKeepAliveInterval, opts.KeepAliveInterval)
		}
		if opts.OperationTimeout != DefaultOperationTimeout {
			t.Errorf("Expected %s operation timeout, got %s", DefaultOperationTimeout, opts.OperationTimeout)
		}
		if len(opts.LaunchArgs) != 2 || opts.LaunchArgs[0] != "--no-sandbox" {
			t.Errorf("Unexpected default launch args: %v", opts.LaunchArgs)
		}
		if opts.Locale != DefaultLocale || opts.TimezoneID != DefaultTimezoneID {
			t.Errorf("Unexpected default locale/timezone: %q %q", opts.Locale, opts.TimezoneID)
		}
	})

	t.Run("explicit values survive", func(t *testing.T) {
		headless := false
		opts := Options{
			Headless:          &headless,
			Viewport:          &Viewport{Width: 1920, Height: 1080},
			KeepAliveInterval: time.Minute,
			OperationTimeout:  10 * time.Second,
			LaunchArgs:        []string{"--disable-gpu"},
			Locale:            "en-US",
			TimezoneID:        "UTC",
		}.withDefaults()

		if *opts.Headless {
			t.Error("Explicit headless=false was overridden")
		}
		if opts.Viewport.Width != 1920 || opts.Viewport.Height != 1080 {
			t.Error("Explicit viewport was overridden")
		}
		if opts.KeepAliveInterval != time.Minute || opts.OperationTimeout != 10*time.Second {
			t.Error("Explicit intervals were overridden")
		}
		if len(opts.LaunchArgs) != 1 || opts.LaunchArgs[0] != "--disable-gpu" {
			t.Error("Explicit launch args were overridden")
		}
		if opts.Locale != "en-US" || opts.TimezoneID != "UTC" {
			t.Error("Explicit locale/timezone was overridden")
		}
	})

	t.Run("empty launch args slice disables defaults", func(t *testing.T) {
		opts := Options{LaunchArgs: []string{}}.withDefaults()
		if len(opts.LaunchArgs) != 0 {
			t.Errorf("Empty slice should mean no args, got %v", opts.LaunchArgs)
		}
	})
}

func TestHooks_WithDefaults(t *testing.T) {
	hooks := Hooks{}.withDefaults()

	if hooks.PerformLogin == nil || hooks.IsLoggedIn == nil || hooks.RefreshForKeepAlive == nil {
		t.Fatal("Defaults should fill every nil hook")
	}

	if err := hooks.PerformLogin(nil, nil); err != nil {
		t.Errorf("Default login should be a no-op: %v", err)
	}
	loggedIn, err := hooks.IsLoggedIn(nil, nil)
	if err != nil || !loggedIn {
		t.Errorf("Default liveness should report logged in: %v %v", loggedIn, err)
	}
	if err := hooks.RefreshForKeepAlive(nil, &Handle{}); err != nil {
		t.Errorf("Default refresh should tolerate a handle without a page: %v", err)
	}
}
