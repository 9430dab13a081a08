package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodlog.log")
	log, err := New(Options{Level: "debug", File: path, Quiet: true})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Infow("tick", "date", "2025-06-15")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"date":"2025-06-15"`) {
		t.Fatalf("expected structured field in %s", data)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
