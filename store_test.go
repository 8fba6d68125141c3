package pubsite

import (
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSyncDocumentsReportsChanges(t *testing.T) {
	s := setupTestStore(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	changed, err := s.SyncDocuments(map[string]string{"b.md": "1", "a.md": "1"}, now)
	if err != nil {
		t.Fatalf("SyncDocuments failed: %v", err)
	}
	if want := []string{"a.md", "b.md"}; !reflect.DeepEqual(changed, want) {
		t.Errorf("first sync changed = %v, want %v", changed, want)
	}

	changed, err = s.SyncDocuments(map[string]string{"a.md": "1", "b.md": "2"}, now)
	if err != nil {
		t.Fatalf("SyncDocuments failed: %v", err)
	}
	if want := []string{"b.md"}; !reflect.DeepEqual(changed, want) {
		t.Errorf("second sync changed = %v, want %v", changed, want)
	}

	changed, err = s.SyncDocuments(map[string]string{"a.md": "1", "b.md": "2"}, now)
	if err != nil {
		t.Fatalf("SyncDocuments failed: %v", err)
	}
	if len(changed) != 0 {
		t.Errorf("unchanged sync reported %v", changed)
	}
}

func TestSyncDocumentsForgetsRemoved(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now()

	if _, err := s.SyncDocuments(map[string]string{"a.md": "1"}, now); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SyncDocuments(map[string]string{}, now); err != nil {
		t.Fatal(err)
	}
	changed, err := s.SyncDocuments(map[string]string{"a.md": "1"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 1 {
		t.Errorf("re-added document should count as changed, got %v", changed)
	}
}

func TestLastBuild(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.LastBuild(); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second"} {
		err := s.RecordBuild(BuildRecord{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:  1500 * time.Millisecond,
			Pages:     3 + i,
			Rewritten: 2,
			Changed:   1,
		})
		if err != nil {
			t.Fatalf("RecordBuild failed: %v", err)
		}
	}

	got, err := s.LastBuild()
	if err != nil {
		t.Fatalf("LastBuild failed: %v", err)
	}
	if got.ID != "second" {
		t.Errorf("ID = %q, want %q", got.ID, "second")
	}
	if got.Pages != 4 {
		t.Errorf("Pages = %d, want 4", got.Pages)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", got.Duration)
	}
	if !got.StartedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, base.Add(time.Minute))
	}
}
