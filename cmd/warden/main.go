// Package main provides the Warden browser session daemon.
// Warden owns a single long-lived, logged-in browser session: it launches
// Chromium, runs the configured login procedure, keeps the session alive
// with background refreshes, and transparently rebuilds it when the
// browser dies or the login expires.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	appconfig "github.com/entrhq/warden/pkg/config"
	"github.com/entrhq/warden/pkg/logging"
	"github.com/entrhq/warden/pkg/session"
	"github.com/entrhq/warden/pkg/types"
)

const version = "0.1.0" // Version of the Warden daemon

// Config holds the application configuration
type Config struct {
	ConfigPath       string
	LoginURL         string
	Username         string
	Password         string
	UsernameSelector string
	PasswordSelector string
	SubmitSelector   string
	ReadySelector    string
	Headed           bool
	ShowVersion      bool
}

func main() {
	// Load .env before flags so env-backed defaults pick it up
	_ = godotenv.Load()

	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("Warden v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
}

// parseFlags parses command line flags and environment variables
func parseFlags() *Config {
	config := &Config{
		Username: os.Getenv("WARDEN_USERNAME"),
		Password: os.Getenv("WARDEN_PASSWORD"),
	}

	flag.StringVar(&config.ConfigPath, "config", "", "Path to config file (default: ~/.warden/config.yaml)")
	flag.StringVar(&config.LoginURL, "login-url", os.Getenv("WARDEN_LOGIN_URL"), "Login page URL (or set WARDEN_LOGIN_URL env var)")
	flag.StringVar(&config.UsernameSelector, "username-selector", "input[name='username']", "CSS selector for the username field")
	flag.StringVar(&config.PasswordSelector, "password-selector", "input[name='password']", "CSS selector for the password field")
	flag.StringVar(&config.SubmitSelector, "submit-selector", "button[type='submit']", "CSS selector for the login submit button")
	flag.StringVar(&config.ReadySelector, "ready-selector", "", "CSS selector that is visible only while logged in (optional)")
	flag.BoolVar(&config.Headed, "headed", false, "Run the browser with a visible window")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Warden - Browser session daemon\n\n")
		fmt.Fprintf(os.Stderr, "Usage: warden [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  WARDEN_LOGIN_URL   Login page URL\n")
		fmt.Fprintf(os.Stderr, "  WARDEN_USERNAME    Login username\n")
		fmt.Fprintf(os.Stderr, "  WARDEN_PASSWORD    Login password\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  warden -login-url https://example.com/login -ready-selector '#account-menu'\n")
		fmt.Fprintf(os.Stderr, "  warden -headed                           # Watch the session in a window\n")
		fmt.Fprintf(os.Stderr, "  warden -config /etc/warden/config.yaml\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	if c.LoginURL != "" && (c.Username == "" || c.Password == "") {
		return fmt.Errorf("login requires credentials. Set WARDEN_USERNAME and WARDEN_PASSWORD environment variables")
	}
	if c.ReadySelector != "" && c.LoginURL == "" {
		return fmt.Errorf("-ready-selector requires -login-url")
	}
	return nil
}

// run executes the main application logic
func run(ctx context.Context, config *Config) error {
	logger, err := logging.NewLogger("main")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	opts := appconfig.GetSessionSettings().Options()
	if config.Headed {
		headless := false
		opts.Headless = &headless
	}

	driver := session.NewPlaywrightDriver()
	driver.SetOutput(logger.Writer())
	defer driver.Stop()

	manager := session.NewManager(driver, buildHooks(config), opts)
	manager.Subscribe(func(e *types.SessionEvent) {
		switch e.Type {
		case types.EventTypeStateChange:
			logger.Infof("session state: %s -> %s", e.Previous, e.State)
		case types.EventTypeError:
			logger.Errorf("session error: %v", e.Err)
			fmt.Fprintf(os.Stderr, "Session error: %v\n", e.Err)
		case types.EventTypeSessionExpired:
			logger.Warnf("session login expired")
			fmt.Println("Session expired, rebuilding...")
		case types.EventTypeRecovered:
			logger.Infof("session recovered")
			fmt.Println("Session recovered.")
		}
	})

	fmt.Printf("Warden v%s - Browser Session Daemon\n", version)
	fmt.Printf("Config: %s\n", appconfig.Global().Store().Path())
	fmt.Printf("Log: %s\n", logger.LogPath())
	fmt.Println()

	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	fmt.Printf("Session ready, generation %s\n", manager.Generation())

	<-ctx.Done()

	fmt.Println("Closing session...")
	manager.Close()
	return nil
}

// buildHooks assembles the site procedures from the configured login
// form. Without a login URL the session runs anonymous with the default
// hooks.
func buildHooks(config *Config) session.Hooks {
	if config.LoginURL == "" {
		return session.Hooks{}
	}

	return session.Hooks{
		PerformLogin: func(ctx context.Context, h *session.Handle) error {
			if _, err := h.Page.Goto(config.LoginURL); err != nil {
				return fmt.Errorf("failed to open login page: %w", err)
			}
			if err := h.Page.Fill(config.UsernameSelector, config.Username); err != nil {
				return fmt.Errorf("failed to fill username: %w", err)
			}
			if err := h.Page.Fill(config.PasswordSelector, config.Password); err != nil {
				return fmt.Errorf("failed to fill password: %w", err)
			}
			if err := h.Page.Click(config.SubmitSelector); err != nil {
				return fmt.Errorf("failed to submit login form: %w", err)
			}
			if err := h.Page.WaitForLoadState(); err != nil {
				return fmt.Errorf("login navigation failed: %w", err)
			}
			return nil
		},
		IsLoggedIn: func(ctx context.Context, h *session.Handle) (bool, error) {
			if config.ReadySelector == "" {
				return true, nil
			}
			return h.Page.Locator(config.ReadySelector).IsVisible()
		},
	}
}
