package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "journal", "deliveries.jsonl")
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), FeedbackID: 1, Status: "submitted"}
	ev2 := Event{Timestamp: time.Unix(2, 0).UTC(), FeedbackID: 1, Status: "server-offline", Detail: "connection refused"}
	if err := rec.Append(ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := rec.Append(ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	events, err := rec.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2, got %d", len(events))
	}
	if events[0].Status != "submitted" || events[1].Detail != "connection refused" {
		t.Fatalf("order mismatch: %+v", events)
	}
}

func TestFileRecorder_SkipsBrokenLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "deliveries.jsonl")
	if err := os.WriteFile(p, []byte("{broken\n\n{\"feedback_id\":7,\"status\":\"sent-via-email\"}\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}
	events, err := rec.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 1 || events[0].FeedbackID != 7 {
		t.Fatalf("unexpected events: %+v", events)
	}
}
