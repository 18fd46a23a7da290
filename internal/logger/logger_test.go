package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	if err := Init(Config{DataDir: dir}); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if _, err := os.Stat(filepath.Join(dir, "logs")); err != nil {
		t.Fatalf("log directory not created: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}
	Info("hello", "k", "v")
	Warn("careful")
}

func TestHelpersWithoutInit(t *testing.T) {
	Logger = nil
	// Must not panic.
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}

func TestDiscard(t *testing.T) {
	Discard()
	t.Cleanup(func() { Logger = nil })
	if Logger == nil {
		t.Fatal("Discard should install a logger")
	}
	Error("dropped")
}
