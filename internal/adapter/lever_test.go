package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLeverFetchJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("mode"); got != "json" {
			t.Errorf("mode query = %q, want json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "abc-123",
				"text": "DevOps Engineer",
				"categories": {"location": "Austin, TX"},
				"createdAt": 1749544200000,
				"hostedUrl": "https://jobs.lever.co/acme/abc-123"
			},
			{
				"text": "SRE",
				"categories": {"location": "Remote - US"},
				"listedAt": 1749544200000,
				"applyUrl": "https://jobs.lever.co/acme/def-456/apply"
			}
		]`))
	}))
	defer srv.Close()

	src := NewLeverSource([]string{"acme"}, srv.Client())
	src.baseURL = srv.URL

	jobs, err := src.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("FetchJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}

	first := jobs[0]
	if first.Source != "lever" || first.ID != "abc-123" {
		t.Errorf("job identity = (%q, %q)", first.Source, first.ID)
	}
	if first.Company != "acme" || first.Title != "DevOps Engineer" {
		t.Errorf("job = %+v", first)
	}
	if first.URL != "https://jobs.lever.co/acme/abc-123" {
		t.Errorf("url = %q", first.URL)
	}
	if first.PostedAt == nil {
		t.Fatal("createdAt should parse")
	}
	want := time.UnixMilli(1749544200000).UTC()
	if !first.PostedAt.Equal(want) {
		t.Errorf("posted = %v, want %v", first.PostedAt, want)
	}

	// Missing id and hostedUrl fall back to the apply URL; missing createdAt
	// falls back to listedAt.
	second := jobs[1]
	if second.ID != "https://jobs.lever.co/acme/def-456/apply" {
		t.Errorf("fallback id = %q", second.ID)
	}
	if second.URL != "https://jobs.lever.co/acme/def-456/apply" {
		t.Errorf("fallback url = %q", second.URL)
	}
	if second.PostedAt == nil || !second.PostedAt.Equal(want) {
		t.Errorf("listedAt fallback = %v, want %v", second.PostedAt, want)
	}
}

func TestLeverFetchJobs_CompanyFailureSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"id": "1", "text": "SRE", "hostedUrl": "https://x/1"}]`))
	}))
	defer srv.Close()

	src := NewLeverSource([]string{"broken", "acme"}, srv.Client())
	src.baseURL = srv.URL

	jobs, err := src.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("FetchJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("got %d jobs, want 1 from the healthy company", len(jobs))
	}
}
