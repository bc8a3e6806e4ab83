package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// resetForTest points the package globals at a temp directory so tests
// never touch ~/.warden and each test gets a fresh run ID.
func resetForTest(t *testing.T) {
	t.Helper()

	origLogDir, origLogDirErr, origLogDirOnce := logDir, logDirErr, logDirOnce
	origRunID, origRunIDOnce := runID, runIDOnce

	logDir = t.TempDir()
	logDirErr = nil
	logDirOnce = sync.Once{}
	logDirOnce.Do(func() {}) // already created by TempDir
	runID = ""
	runIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir, logDirErr, logDirOnce = origLogDir, origLogDirErr, origLogDirOnce
		runID, runIDOnce = origRunID, origRunIDOnce
	})
}

func TestNewLogger(t *testing.T) {
	resetForTest(t)

	logger, err := NewLogger("session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if logger.LogPath() == "" {
		t.Fatal("Expected a log path")
	}
	if _, err := os.Stat(logger.LogPath()); err != nil {
		t.Errorf("Log file missing: %v", err)
	}

	// File name carries the run ID: <run-id>-warden.log
	name := filepath.Base(logger.LogPath())
	if !strings.HasSuffix(name, "-warden.log") {
		t.Errorf("Unexpected log file name: %q", name)
	}
	if !strings.Contains(strings.TrimSuffix(name, "-warden.log"), "-") {
		t.Errorf("Expected a UUID run ID prefix, got %q", name)
	}
}

func TestLogger_Levels(t *testing.T) {
	resetForTest(t)

	logger, err := NewLogger("session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	logger.Debugf("launching generation %s", "abc-123")
	logger.Infof("session state: %s -> %s", "starting", "ready")
	logger.Warnf("keep-alive refresh failed: %v", "reload timeout")
	logger.Errorf("session failed: %v", "login rejected")

	content, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	for _, want := range []string{
		"[session] [DEBUG] launching generation abc-123",
		"[session] [INFO] session state: starting -> ready",
		"[session] [WARN] keep-alive refresh failed: reload timeout",
		"[session] [ERROR] session failed: login rejected",
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("Log missing entry %q\nContent:\n%s", want, content)
		}
	}
}

func TestLogger_ComponentsShareFile(t *testing.T) {
	resetForTest(t)

	sessionLog, err := NewLogger("session")
	if err != nil {
		t.Fatalf("NewLogger(session) failed: %v", err)
	}
	defer sessionLog.Close()

	mainLog, err := NewLogger("main")
	if err != nil {
		t.Fatalf("NewLogger(main) failed: %v", err)
	}
	defer mainLog.Close()

	if sessionLog.LogPath() != mainLog.LogPath() {
		t.Fatalf("Components should share one file, got %q and %q", sessionLog.LogPath(), mainLog.LogPath())
	}

	sessionLog.Infof("browser launched")
	mainLog.Infof("daemon running")

	content, err := os.ReadFile(sessionLog.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "[session]") || !strings.Contains(string(content), "[main]") {
		t.Errorf("Expected entries from both components:\n%s", content)
	}
}

func TestLogger_Writer(t *testing.T) {
	resetForTest(t)

	logger, err := NewLogger("session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	// Raw subprocess output lands in the same file, unformatted.
	if _, err := logger.Writer().Write([]byte("playwright runtime output\n")); err != nil {
		t.Fatalf("Writer write failed: %v", err)
	}

	content, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "playwright runtime output") {
		t.Error("Writer output missing from log file")
	}
}

func TestLogger_Close(t *testing.T) {
	resetForTest(t)

	logger, err := NewLogger("session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Second close should be a no-op: %v", err)
	}
}
