package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/warden/pkg/session"
)

const (
	// SectionIDSession is the identifier for the browser session section
	SectionIDSession = "session"
)

// SessionSection manages browser session settings: launch mode, viewport,
// keep-alive cadence, and browser environment (locale, timezone, args).
type SessionSection struct {
	headless          bool
	viewportWidth     int
	viewportHeight    int
	keepAliveInterval time.Duration
	operationTimeout  time.Duration
	launchArgs        []string
	locale            string
	timezoneID        string
	mu                sync.RWMutex
}

// NewSessionSection creates a session section with default settings.
func NewSessionSection() *SessionSection {
	return &SessionSection{
		headless:          true,
		viewportWidth:     session.DefaultViewportWidth,
		viewportHeight:    session.DefaultViewportHeight,
		keepAliveInterval: session.DefaultKeepAliveInterval,
		operationTimeout:  session.DefaultOperationTimeout,
		locale:            session.DefaultLocale,
		timezoneID:        session.DefaultTimezoneID,
	}
}

// ID returns the section identifier.
func (s *SessionSection) ID() string {
	return SectionIDSession
}

// Title returns the section title.
func (s *SessionSection) Title() string {
	return "Browser Session Settings"
}

// Description returns the section description.
func (s *SessionSection) Description() string {
	return "Configure the managed browser session: launch mode, viewport, keep-alive interval, and browser environment."
}

// Data returns the current configuration data.
func (s *SessionSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	args := make([]interface{}, len(s.launchArgs))
	for i, a := range s.launchArgs {
		args[i] = a
	}

	return map[string]interface{}{
		"headless":            s.headless,
		"viewport_width":      s.viewportWidth,
		"viewport_height":     s.viewportHeight,
		"keep_alive_interval": s.keepAliveInterval.String(),
		"operation_timeout":   s.operationTimeout.String(),
		"launch_args":         args,
		"locale":              s.locale,
		"timezone_id":         s.timezoneID,
	}
}

// SetData updates the configuration from the provided data. Unknown keys
// are ignored so old config files keep loading across versions.
func (s *SessionSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["headless"]; ok {
		headless, ok := v.(bool)
		if !ok {
			return fmt.Errorf("invalid value for 'headless': expected bool, got %T", v)
		}
		s.headless = headless
	}
	if v, ok := data["viewport_width"]; ok {
		width, ok := toInt(v)
		if !ok {
			return fmt.Errorf("invalid value for 'viewport_width': expected int, got %T", v)
		}
		s.viewportWidth = width
	}
	if v, ok := data["viewport_height"]; ok {
		height, ok := toInt(v)
		if !ok {
			return fmt.Errorf("invalid value for 'viewport_height': expected int, got %T", v)
		}
		s.viewportHeight = height
	}
	if v, ok := data["keep_alive_interval"]; ok {
		interval, err := toDuration(v)
		if err != nil {
			return fmt.Errorf("invalid value for 'keep_alive_interval': %w", err)
		}
		s.keepAliveInterval = interval
	}
	if v, ok := data["operation_timeout"]; ok {
		timeout, err := toDuration(v)
		if err != nil {
			return fmt.Errorf("invalid value for 'operation_timeout': %w", err)
		}
		s.operationTimeout = timeout
	}
	if v, ok := data["launch_args"]; ok {
		args, err := toStringSlice(v)
		if err != nil {
			return fmt.Errorf("invalid value for 'launch_args': %w", err)
		}
		s.launchArgs = args
	}
	if v, ok := data["locale"]; ok {
		locale, ok := v.(string)
		if !ok {
			return fmt.Errorf("invalid value for 'locale': expected string, got %T", v)
		}
		s.locale = locale
	}
	if v, ok := data["timezone_id"]; ok {
		tz, ok := v.(string)
		if !ok {
			return fmt.Errorf("invalid value for 'timezone_id': expected string, got %T", v)
		}
		s.timezoneID = tz
	}

	return nil
}

// Validate validates the current configuration.
func (s *SessionSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.viewportWidth <= 0 || s.viewportHeight <= 0 {
		return fmt.Errorf("viewport dimensions must be positive, got %dx%d", s.viewportWidth, s.viewportHeight)
	}
	if s.keepAliveInterval <= 0 {
		return fmt.Errorf("keep_alive_interval must be positive, got %s", s.keepAliveInterval)
	}
	if s.operationTimeout <= 0 {
		return fmt.Errorf("operation_timeout must be positive, got %s", s.operationTimeout)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *SessionSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.headless = true
	s.viewportWidth = session.DefaultViewportWidth
	s.viewportHeight = session.DefaultViewportHeight
	s.keepAliveInterval = session.DefaultKeepAliveInterval
	s.operationTimeout = session.DefaultOperationTimeout
	s.launchArgs = nil
	s.locale = session.DefaultLocale
	s.timezoneID = session.DefaultTimezoneID
}

// Options converts the section into session options.
func (s *SessionSection) Options() session.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()

	headless := s.headless
	return session.Options{
		Headless: &headless,
		Viewport: &session.Viewport{
			Width:  s.viewportWidth,
			Height: s.viewportHeight,
		},
		KeepAliveInterval: s.keepAliveInterval,
		OperationTimeout:  s.operationTimeout,
		LaunchArgs:        append([]string(nil), s.launchArgs...),
		Locale:            s.locale,
		TimezoneID:        s.timezoneID,
	}
}

// toInt converts a decoded YAML scalar to an int.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// toDuration accepts either a duration string ("5m") or a number of
// seconds.
func toDuration(v interface{}) (time.Duration, error) {
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("cannot parse duration %q: %w", d, err)
		}
		return parsed, nil
	case int:
		return time.Duration(d) * time.Second, nil
	case int64:
		return time.Duration(d) * time.Second, nil
	case float64:
		return time.Duration(d * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("expected duration string or seconds, got %T", v)
	}
}

func toStringSlice(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", v)
	}
}
