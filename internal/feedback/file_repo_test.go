package feedback

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFileRepository_CreatesEmptyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "feedback-data.json")
	if _, err := NewFileRepository(p); err != nil {
		t.Fatalf("init: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("want empty array, got %q", data)
	}
}

func TestFileRepository_LoadRecoversFromBadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "feedback.json")
	repo, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, content := range []string{"", "{not json", `{"id":1}`} {
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		records, err := repo.Load()
		if err != nil {
			t.Fatalf("load %q: %v", content, err)
		}
		if len(records) != 0 {
			t.Fatalf("load %q: want empty, got %+v", content, records)
		}
	}

	if err := os.Remove(p); err != nil {
		t.Fatalf("remove: %v", err)
	}
	records, err := repo.Load()
	if err != nil || len(records) != 0 {
		t.Fatalf("missing file: want empty, got %+v (%v)", records, err)
	}
}

func TestFileRepository_RoundTripPreservesDocument(t *testing.T) {
	p := filepath.Join(t.TempDir(), "feedback.json")
	repo, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	records := []Record{
		{
			ID: 2, Type: TypeFix, Priority: PriorityHigh, PageSection: "Hero", Text: "Typo",
			Status: StatusPending, Timestamp: "2025-01-02T00:00:00.000Z", CreatedAt: "1/2/2025, 12:00:00 AM",
			Extra: map[string]json.RawMessage{"browser": json.RawMessage(`"firefox"`)},
		},
		{
			ID: 1, Type: TypeDesign, Priority: PriorityLow, PageSection: "Footer", Text: "Darker",
			Status: StatusCompleted, Timestamp: "2025-01-01T00:00:00.000Z", CreatedAt: "1/1/2025, 12:00:00 AM",
			ImplementationLog: []LogEntry{{Timestamp: "2025-01-03T00:00:00.000Z", Notes: "done", FilesChanged: []string{"style.css"}}},
		},
	}
	if err := repo.Save(records); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != 2 || loaded[1].ID != 1 {
		t.Fatalf("order mismatch: %+v", loaded)
	}
	if err := repo.Save(loaded); err != nil {
		t.Fatalf("save again: %v", err)
	}
	second, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read again: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("round trip changed document:\n%s\n---\n%s", first, second)
	}

	// blank and null values written by other clients stay as they were
	doc := `[{"id":3,"type":"fix","priority":"low","pageSection":"Hero","text":"x","expectedResult":"",` +
		`"status":"pending","timestamp":"t","createdAt":"c","implemented":false,"lastUpdated":null,` +
		`"implementation_notes":"","implementation_log":[],"browser":null}]`
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err = repo.Load()
	if err != nil || len(loaded) != 1 {
		t.Fatalf("load: %+v %v", loaded, err)
	}
	if err := repo.Save(loaded); err != nil {
		t.Fatalf("save: %v", err)
	}
	assertSameDocument(t, p, doc)
}

func assertSameDocument(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var a, b any
	if err := json.Unmarshal(got, &a); err != nil {
		t.Fatalf("decode saved: %v", err)
	}
	if err := json.Unmarshal([]byte(want), &b); err != nil {
		t.Fatalf("decode expected: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("document changed:\n got %s\nwant %s", got, want)
	}
}

func TestFileRepository_KeepsRecordsWithUnexpectedTypes(t *testing.T) {
	p := filepath.Join(t.TempDir(), "feedback.json")
	doc := `[
  {"id": 1700000000001, "type": "fix", "priority": "high", "pageSection": "Hero", "text": "keep me", "status": "pending"},
  {"id": "1700000000000", "type": "update", "priority": "low", "pageSection": "Footer", "text": "legacy string id", "status": "pending", "implemented": "no"}
]`
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	loaded, err := repo.Load()
	if err != nil || len(loaded) != 2 {
		t.Fatalf("want both records, got %+v (%v)", loaded, err)
	}
	if loaded[1].ID != 1700000000000 {
		t.Fatalf("numeric string id not read: %+v", loaded[1])
	}
	if got := loaded[1].InvalidFields(); len(got) != 1 || got[0] != "implemented" {
		t.Fatalf("unexpected invalid fields: %v", got)
	}

	svc := NewService(repo, nil)
	if _, err := svc.Create(map[string]json.RawMessage{
		"type": json.RawMessage(`"create"`), "priority": json.RawMessage(`"medium"`),
		"pageSection": json.RawMessage(`"Nav"`), "text": json.RawMessage(`"new one"`),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateStatus(1700000000000, StatusInProgress, ""); err != nil {
		t.Fatalf("update legacy record: %v", err)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var saved []map[string]any
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(saved) != 3 || saved[0]["text"] != "new one" || saved[1]["text"] != "keep me" {
		t.Fatalf("records lost: %s", data)
	}
	legacy := saved[2]
	if legacy["id"] != "1700000000000" || legacy["implemented"] != "no" || legacy["status"] != "in_progress" {
		t.Fatalf("legacy record not preserved: %v", legacy)
	}
}

func TestFileRepository_MutateRefusesUnreadableDocument(t *testing.T) {
	p := filepath.Join(t.TempDir(), "feedback.json")
	repo, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, content := range []string{`{"id":1}`, `[{"id":1,"text":"kept"},5]`} {
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		err := repo.Mutate(func(records []Record) ([]Record, error) {
			return append([]Record{{ID: 2}}, records...), nil
		})
		if !errors.Is(err, ErrUnreadableDocument) {
			t.Fatalf("mutate over %q: want ErrUnreadableDocument, got %v", content, err)
		}
		data, _ := os.ReadFile(p)
		if string(data) != content {
			t.Fatalf("document %q was rewritten to %q", content, data)
		}
	}

	records, err := repo.Load()
	if err != nil || len(records) != 1 || records[0].Text != "kept" {
		t.Fatalf("readable records should still load: %+v %v", records, err)
	}
}

func TestFileRepository_MutateErrorLeavesFileUntouched(t *testing.T) {
	p := filepath.Join(t.TempDir(), "feedback.json")
	repo, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := repo.Save([]Record{{ID: 7, Text: "keep"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	boom := errors.New("boom")
	err = repo.Mutate(func(records []Record) ([]Record, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	records, _ := repo.Load()
	if len(records) != 1 || records[0].ID != 7 {
		t.Fatalf("file changed after failed mutate: %+v", records)
	}
}

func TestFileRepository_TwoHandlesShareOneFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "feedback.json")
	a, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init a: %v", err)
	}
	b, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init b: %v", err)
	}

	add := func(repo *FileRepository, id int64) {
		err := repo.Mutate(func(records []Record) ([]Record, error) {
			return append([]Record{{ID: id}}, records...), nil
		})
		if err != nil {
			t.Fatalf("mutate %d: %v", id, err)
		}
	}
	add(a, 1)
	add(b, 2)
	add(a, 3)

	records, _ := b.Load()
	if len(records) != 3 {
		t.Fatalf("want 3 records, got %d", len(records))
	}
	if records[0].ID != 3 || records[1].ID != 2 || records[2].ID != 1 {
		t.Fatalf("unexpected order: %+v", records)
	}
}
