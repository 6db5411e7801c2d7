package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening log: %v", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("unmarshaling event: %v", err)
		}
		events = append(events, ev)
	}
	return events
}

func TestLoggerWritesRunLog(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, "run-1")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	if err := logger.Info(CategoryGeneration, "idea_accepted", "got idea", map[string]any{
		"idea": "A red fox under a crescent moon.",
	}); err != nil {
		t.Fatalf("Info: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := readEvents(t, filepath.Join(dir, "runs", "run-1.jsonl"))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", ev.RunID)
	}
	if ev.Category != CategoryGeneration {
		t.Errorf("Category = %q, want generation", ev.Category)
	}
	if ev.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestLoggerMirrorsErrors(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, "run-2")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info(CategoryModel, "call_started", "calling", nil)
	logger.Error(CategoryModel, "call_failed", "boom", nil)
	logger.Close()

	errEvents := readEvents(t, filepath.Join(dir, "errors.jsonl"))
	if len(errEvents) != 1 {
		t.Fatalf("got %d error events, want 1", len(errEvents))
	}
	if errEvents[0].EventType != "call_failed" {
		t.Errorf("EventType = %q, want call_failed", errEvents[0].EventType)
	}
}

func TestLoggerMinLevel(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, "run-3")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Debug(CategoryRetry, "attempt", "suppressed at info", nil)
	logger.SetMinLevel(LevelDebug)
	logger.Debug(CategoryRetry, "attempt", "visible at debug", nil)
	logger.Close()

	events := readEvents(t, filepath.Join(dir, "runs", "run-3.jsonl"))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Message != "visible at debug" {
		t.Errorf("Message = %q", events[0].Message)
	}
}

func TestParseLevel(t *testing.T) {
	if got := ParseLevel("debug"); got != LevelDebug {
		t.Errorf("ParseLevel(debug) = %q", got)
	}
	if got := ParseLevel("bogus"); got != LevelInfo {
		t.Errorf("ParseLevel(bogus) = %q, want info", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("Truncate = %q, want abc...", got)
	}
	if got := Truncate("ab", 3); got != "ab" {
		t.Errorf("Truncate = %q, want ab", got)
	}
}
