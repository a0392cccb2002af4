package store

import (
	"path/filepath"
	"testing"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleJob(url string) model.Job {
	return model.Job{
		Source:   "greenhouse",
		ID:       "123",
		Title:    "DevOps Engineer",
		Company:  "Acme",
		Location: "Austin, TX",
		URL:      url,
	}
}

func TestMakeKey_URLOnly(t *testing.T) {
	a := sampleJob("https://example.com/jobs/1")
	b := sampleJob("https://example.com/jobs/1")
	b.Title = "Completely Different Title"
	b.Company = "Globex"
	b.Source = "lever"

	if MakeKey(a) != MakeKey(b) {
		t.Error("jobs with identical non-empty URLs must share a fingerprint regardless of other fields")
	}

	c := sampleJob("https://example.com/jobs/2")
	if MakeKey(a) == MakeKey(c) {
		t.Error("different URLs must produce different fingerprints")
	}
}

func TestMakeKey_CompositeFallback(t *testing.T) {
	a := sampleJob("")
	b := sampleJob("")
	b.Company = "ACME" // composite is case-insensitive on company/title/location

	if MakeKey(a) != MakeKey(b) {
		t.Error("composite fingerprint must lowercase company")
	}

	c := sampleJob("")
	c.Source = "lever"
	if MakeKey(a) == MakeKey(c) {
		t.Error("composite fingerprint must include the source")
	}
}

func TestIsNewThenAdd(t *testing.T) {
	s := newTestStore(t)
	job := sampleJob("https://example.com/jobs/1")

	fresh, err := s.IsNew(job)
	if err != nil {
		t.Fatalf("IsNew: %v", err)
	}
	if !fresh {
		t.Error("expected unknown job to be new")
	}

	// IsNew is read-only; repeated calls must not record anything.
	if fresh, _ := s.IsNew(job); !fresh {
		t.Error("IsNew must not have side effects")
	}

	if err := s.Add([]model.Job{job}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	fresh, err = s.IsNew(job)
	if err != nil {
		t.Fatalf("IsNew after Add: %v", err)
	}
	if fresh {
		t.Error("expected job to be seen after Add")
	}
}

func TestAddIdempotent(t *testing.T) {
	s := newTestStore(t)
	job := sampleJob("https://example.com/jobs/1")

	if err := s.Add([]model.Job{job}); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := s.Add([]model.Job{job, job}); err != nil {
		t.Fatalf("second Add (duplicates): %v", err)
	}

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want exactly 1 entry for the fingerprint", count)
	}

	if fresh, _ := s.IsNew(job); fresh {
		t.Error("expected job to remain seen")
	}
}

func TestAddEmptyIsNoop(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add(nil); err != nil {
		t.Fatalf("Add(nil): %v", err)
	}
}

func TestSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	job := sampleJob("https://example.com/jobs/1")
	if err := s.Add([]model.Job{job}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Close()

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	fresh, err := reopened.IsNew(job)
	if err != nil {
		t.Fatalf("IsNew after reopen: %v", err)
	}
	if fresh {
		t.Error("expected entry to survive a restart")
	}
}

func TestIsEmptyAndRecent(t *testing.T) {
	s := newTestStore(t)

	empty, err := s.IsEmpty()
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Error("expected fresh store to be empty")
	}

	jobs := []model.Job{
		sampleJob("https://example.com/jobs/1"),
		sampleJob("https://example.com/jobs/2"),
		sampleJob("https://example.com/jobs/3"),
	}
	if err := s.Add(jobs); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Recent(2) returned %d entries", len(entries))
	}
	for _, e := range entries {
		if e.Key == "" || e.URL == "" {
			t.Errorf("entry missing fields: %+v", e)
		}
	}
}
