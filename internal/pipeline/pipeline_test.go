package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/wnaveed5/Job-Checker/internal/config"
	"github.com/wnaveed5/Job-Checker/internal/filter"
	"github.com/wnaveed5/Job-Checker/internal/model"
	"github.com/wnaveed5/Job-Checker/internal/store"
)

// --- Fakes ---

// fakeSource returns a canned slice of jobs or an error.
type fakeSource struct {
	name string
	jobs []model.Job
	err  error
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) FetchJobs(_ context.Context) ([]model.Job, error) {
	return f.jobs, f.err
}

// memStore is a map-based seen store.
type memStore struct {
	seen    map[string]bool
	failAdd bool
}

func newMemStore() *memStore {
	return &memStore{seen: make(map[string]bool)}
}

func (s *memStore) IsNew(job model.Job) (bool, error) {
	return !s.seen[store.MakeKey(job)], nil
}

func (s *memStore) Add(jobs []model.Job) error {
	if s.failAdd {
		return errors.New("disk full")
	}
	for _, j := range jobs {
		s.seen[store.MakeKey(j)] = true
	}
	return nil
}

// recordingNotifier records every Notify call.
type notifyCall struct {
	jobs     []model.Job
	scopeTag string
	stretch  bool
}

type recordingNotifier struct {
	calls []notifyCall
	err   error
}

func (n *recordingNotifier) Notify(jobs []model.Job, scopeTag string, stretch bool) error {
	n.calls = append(n.calls, notifyCall{jobs: jobs, scopeTag: scopeTag, stretch: stretch})
	return n.err
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Interval:               2 * time.Minute,
			MaxPostAgeHours:        24,
			AdaptiveRecency:        true,
			WeekdayMaxPostAgeHours: 24,
			WeekendMaxPostAgeHours: 72,
		},
		Filters: config.FiltersConfig{
			IncludeKeywords:      []string{"devops", "kubernetes"},
			IncludeBonusKeywords: []string{"terraform"},
			MinScore:             2,
			ExcludeContract:      true,
			ExcludeIntern:        true,
			ExcludePartTime:      true,
			ExcludeTemp:          true,
		},
		Locations: config.LocationsConfig{
			AustinAliases: []string{"austin"},
			USOnlyRemote:  true,
		},
		Notification: config.NotificationConfig{
			Type:        "log",
			TagAustin:   "[AUSTIN]",
			TagUSRemote: "[US-REMOTE]",
			TagCore:     "[CORE]",
			TagStretch:  "[STRETCH]",
		},
	}
}

func newPipeline(cfg *config.Config, st model.SeenStore, n model.Notifier, sources ...model.Source) *Pipeline {
	return New(sources, filter.New(cfg), st, n, cfg, discardLogger())
}

func timePtr(t time.Time) *time.Time { return &t }

// --- Tests ---

func TestRunCycle_EndToEnd(t *testing.T) {
	cfg := testConfig()
	now := time.Now().UTC()

	austinJob := model.Job{
		Source:      "greenhouse",
		ID:          "1",
		Title:       "Senior DevOps Engineer",
		Company:     "Acme",
		Location:    "Austin, TX",
		URL:         "https://x/1",
		Description: "We use kubernetes and terraform.",
		PostedAt:    timePtr(now.Add(-2 * time.Hour)),
	}
	londonJob := austinJob
	londonJob.ID = "2"
	londonJob.URL = "https://x/2"
	londonJob.Location = "London, UK"

	st := newMemStore()
	n := &recordingNotifier{}
	p := newPipeline(cfg, st, n, &fakeSource{name: "greenhouse", jobs: []model.Job{austinJob, londonJob}})

	if err := p.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if len(n.calls) != 1 {
		t.Fatalf("got %d notify calls, want 1", len(n.calls))
	}
	call := n.calls[0]
	if call.scopeTag != "[AUSTIN]" || !call.stretch {
		t.Errorf("call = (%q, stretch=%v), want ([AUSTIN], stretch=true)", call.scopeTag, call.stretch)
	}
	if len(call.jobs) != 1 || call.jobs[0].URL != "https://x/1" {
		t.Errorf("unexpected jobs in group: %+v", call.jobs)
	}

	// The Austin job is recorded; the London job was rejected at the filter
	// and must not have been marked seen.
	if fresh, _ := st.IsNew(austinJob); fresh {
		t.Error("accepted job should be marked seen")
	}
	if fresh, _ := st.IsNew(londonJob); !fresh {
		t.Error("filtered-out job must not be marked seen")
	}
}

func TestRunCycle_SeenJobsNotRenotified(t *testing.T) {
	cfg := testConfig()
	job := model.Job{
		Source:      "lever",
		ID:          "1",
		Title:       "DevOps Engineer",
		Company:     "Acme",
		Location:    "Austin, TX",
		URL:         "https://x/1",
		Description: "kubernetes terraform",
	}

	st := newMemStore()
	n := &recordingNotifier{}
	p := newPipeline(cfg, st, n, &fakeSource{name: "lever", jobs: []model.Job{job}})

	if err := p.RunCycle(context.Background()); err != nil {
		t.Fatalf("first RunCycle: %v", err)
	}
	if err := p.RunCycle(context.Background()); err != nil {
		t.Fatalf("second RunCycle: %v", err)
	}

	if len(n.calls) != 1 {
		t.Errorf("got %d notify calls across two cycles, want 1", len(n.calls))
	}
}

func TestRunCycle_UnscopedJobsMarkedSeenButNotNotified(t *testing.T) {
	cfg := testConfig()
	// Passes the filter (no non-US indicator) but matches neither Austin nor
	// any remote token.
	job := model.Job{
		Source:      "lever",
		ID:          "1",
		Title:       "DevOps Engineer",
		Company:     "Acme",
		Location:    "Boise, ID",
		URL:         "https://x/1",
		Description: "kubernetes terraform",
	}

	st := newMemStore()
	n := &recordingNotifier{}
	p := newPipeline(cfg, st, n, &fakeSource{name: "lever", jobs: []model.Job{job}})

	if err := p.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if len(n.calls) != 0 {
		t.Errorf("unscoped job must not be notified, got %d calls", len(n.calls))
	}
	if fresh, _ := st.IsNew(job); fresh {
		t.Error("unscoped job must still be marked seen")
	}
}

func TestRunCycle_NotifyFailureStillMarksSeen(t *testing.T) {
	cfg := testConfig()
	job := model.Job{
		Source:      "lever",
		ID:          "1",
		Title:       "DevOps Engineer",
		Company:     "Acme",
		Location:    "Austin, TX",
		URL:         "https://x/1",
		Description: "kubernetes terraform",
	}

	st := newMemStore()
	n := &recordingNotifier{err: errors.New("telegram down")}
	p := newPipeline(cfg, st, n, &fakeSource{name: "lever", jobs: []model.Job{job}})

	if err := p.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle must not fail on notification errors: %v", err)
	}
	if fresh, _ := st.IsNew(job); fresh {
		t.Error("job must be marked seen even when notification fails")
	}
}

func TestRunCycle_StoreFailureAbortsCycle(t *testing.T) {
	cfg := testConfig()
	job := model.Job{
		Source:      "lever",
		ID:          "1",
		Title:       "DevOps Engineer",
		Company:     "Acme",
		Location:    "Austin, TX",
		URL:         "https://x/1",
		Description: "kubernetes terraform",
	}

	st := newMemStore()
	st.failAdd = true
	n := &recordingNotifier{}
	p := newPipeline(cfg, st, n, &fakeSource{name: "lever", jobs: []model.Job{job}})

	if err := p.RunCycle(context.Background()); err == nil {
		t.Error("expected cycle error when the store is unreachable")
	}
	// The notification still went out before the failed add: duplicate
	// notification is an acceptable degradation, dropped postings are not.
	if len(n.calls) != 1 {
		t.Errorf("got %d notify calls, want 1", len(n.calls))
	}
}

func TestRunCycle_FailedSourceContributesNothing(t *testing.T) {
	cfg := testConfig()
	job := model.Job{
		Source:      "lever",
		ID:          "1",
		Title:       "DevOps Engineer",
		Company:     "Acme",
		Location:    "Austin, TX",
		URL:         "https://x/1",
		Description: "kubernetes terraform",
	}

	st := newMemStore()
	n := &recordingNotifier{}
	p := newPipeline(cfg, st, n,
		&fakeSource{name: "remotive", err: errors.New("connection refused")},
		&fakeSource{name: "lever", jobs: []model.Job{job}},
	)

	if err := p.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle must tolerate a failed source: %v", err)
	}
	if len(n.calls) != 1 || len(n.calls[0].jobs) != 1 {
		t.Errorf("healthy source results were lost: %+v", n.calls)
	}
}

func TestRunCycle_SameURLFromTwoSourcesHandledOnce(t *testing.T) {
	cfg := testConfig()
	job := model.Job{
		Source:      "remotive",
		ID:          "1",
		Title:       "DevOps Engineer",
		Company:     "Acme",
		Location:    "Austin, TX",
		URL:         "https://x/1",
		Description: "kubernetes terraform",
	}
	dup := job
	dup.Source = "jobspikr"
	dup.ID = "other-id"

	st := newMemStore()
	n := &recordingNotifier{}
	p := newPipeline(cfg, st, n,
		&fakeSource{name: "remotive", jobs: []model.Job{job}},
		&fakeSource{name: "jobspikr", jobs: []model.Job{dup}},
	)

	if err := p.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	total := 0
	for _, c := range n.calls {
		total += len(c.jobs)
	}
	if total != 1 {
		t.Errorf("duplicate URL notified %d times, want 1", total)
	}
}

func TestRunCycle_GroupsSplitByScopeAndLevel(t *testing.T) {
	cfg := testConfig()
	mk := func(id, title, location string) model.Job {
		return model.Job{
			Source:      "lever",
			ID:          id,
			Title:       title,
			Company:     "Acme",
			Location:    location,
			URL:         "https://x/" + id,
			Description: "kubernetes terraform",
		}
	}
	jobs := []model.Job{
		mk("1", "DevOps Engineer", "Austin, TX"),
		mk("2", "Senior DevOps Engineer", "Austin, TX"),
		mk("3", "DevOps Engineer", "Remote - US"),
		mk("4", "Staff DevOps Engineer", "Remote - US"),
	}

	st := newMemStore()
	n := &recordingNotifier{}
	p := newPipeline(cfg, st, n, &fakeSource{name: "lever", jobs: jobs})

	if err := p.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if len(n.calls) != 4 {
		t.Fatalf("got %d notify calls, want 4", len(n.calls))
	}
	want := []notifyCall{
		{scopeTag: "[AUSTIN]", stretch: false},
		{scopeTag: "[AUSTIN]", stretch: true},
		{scopeTag: "[US-REMOTE]", stretch: false},
		{scopeTag: "[US-REMOTE]", stretch: true},
	}
	for i, c := range n.calls {
		if c.scopeTag != want[i].scopeTag || c.stretch != want[i].stretch {
			t.Errorf("call %d = (%q, %v), want (%q, %v)", i, c.scopeTag, c.stretch, want[i].scopeTag, want[i].stretch)
		}
		if len(c.jobs) != 1 {
			t.Errorf("call %d has %d jobs, want 1", i, len(c.jobs))
		}
	}
}

func TestBootstrap_SeedsWithoutNotifying(t *testing.T) {
	cfg := testConfig()
	job := model.Job{
		Source:      "lever",
		ID:          "1",
		Title:       "DevOps Engineer",
		Company:     "Acme",
		Location:    "Austin, TX",
		URL:         "https://x/1",
		Description: "kubernetes terraform",
	}

	st := newMemStore()
	n := &recordingNotifier{}
	p := newPipeline(cfg, st, n, &fakeSource{name: "lever", jobs: []model.Job{job}})

	if err := p.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	if len(n.calls) != 0 {
		t.Errorf("bootstrap must not notify, got %d calls", len(n.calls))
	}
	if fresh, _ := st.IsNew(job); fresh {
		t.Error("bootstrap must seed the store")
	}

	// A following cycle stays quiet.
	if err := p.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle after bootstrap: %v", err)
	}
	if len(n.calls) != 0 {
		t.Errorf("cycle after bootstrap must not notify, got %d calls", len(n.calls))
	}
}
