package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetrabot/internal/storage"
)

func TestRecordRunReportsNewBest(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	var buf bytes.Buffer
	logger := log.New(&buf)

	tests := []struct {
		attack  int
		newBest bool
	}{
		{10, true},
		{4, false},
		{10, false},
		{11, true},
	}
	for _, tt := range tests {
		run := storage.Run{Seed: 1, Evaluator: "features", Pieces: 20, Attack: tt.attack}
		id, newBest, err := recordRun(store, run, logger)
		if err != nil {
			t.Fatalf("recordRun(attack %d) failed: %v", tt.attack, err)
		}
		if id == "" {
			t.Errorf("recordRun(attack %d) returned an empty id", tt.attack)
		}
		if newBest != tt.newBest {
			t.Errorf("recordRun(attack %d) newBest = %v, want %v", tt.attack, newBest, tt.newBest)
		}
	}

	if buf.Len() != 0 {
		t.Errorf("unexpected warnings: %s", buf.String())
	}
}

func TestRecordRunLogsStorageFailures(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.Close()

	var buf bytes.Buffer
	logger := log.New(&buf)

	_, newBest, err := recordRun(store, storage.Run{Evaluator: "features", Pieces: 1, Attack: 3}, logger)
	if err == nil {
		t.Fatal("recordRun() on a closed store should fail")
	}
	if newBest {
		t.Error("a failed save must not report a new best")
	}
	if !strings.Contains(buf.String(), "could not read best attack") {
		t.Errorf("expected a best attack warning, got %q", buf.String())
	}
}
