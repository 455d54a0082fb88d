package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerDiscardsWithoutPath(t *testing.T) {
	logger, closeLog, err := newLogger("")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer closeLog()
	logger.Info("dropped")
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.log")
	logger, closeLog, err := newLogger(path)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Debug("drag start", "pointer", 1)
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "drag start") {
		t.Fatalf("expected debug line in log, got %q", data)
	}
}

func TestNewLoggerBadPath(t *testing.T) {
	if _, _, err := newLogger(filepath.Join(t.TempDir(), "missing", "sheet.log")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
