// Package pipeline drives one polling cycle: fan out to the source adapters,
// filter the merged results, drop already-seen listings, classify the rest
// into scope groups, hand each non-empty group to the notifier, and record
// everything that survived dedup as seen.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wnaveed5/Job-Checker/internal/config"
	"github.com/wnaveed5/Job-Checker/internal/filter"
	"github.com/wnaveed5/Job-Checker/internal/model"
	"github.com/wnaveed5/Job-Checker/internal/scope"
	"github.com/wnaveed5/Job-Checker/internal/store"
)

// fetchTimeout bounds each adapter call so a slow source cannot stall the
// whole cycle.
const fetchTimeout = 60 * time.Second

// Pipeline composes the filter engine, seen store, scope classifier, and
// notifier for one polling cycle.
type Pipeline struct {
	sources  []model.Source
	engine   *filter.Engine
	store    model.SeenStore
	notifier model.Notifier
	tags     config.NotificationConfig
	aliases  []string
	logger   *slog.Logger
}

// New creates a pipeline wired with all its dependencies.
func New(
	sources []model.Source,
	engine *filter.Engine,
	seenStore model.SeenStore,
	notifier model.Notifier,
	cfg *config.Config,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		sources:  sources,
		engine:   engine,
		store:    seenStore,
		notifier: notifier,
		tags:     cfg.Notification,
		aliases:  cfg.Locations.AustinAliases,
		logger:   logger,
	}
}

// RunCycle executes one full cycle. Notification failures are logged and do
// not block the mark-seen step; store failures abort the cycle so no new
// posting is silently dropped.
func (p *Pipeline) RunCycle(ctx context.Context) error {
	fetched := p.gather(ctx)
	accepted := p.engine.Apply(fetched, time.Now())

	newJobs, err := p.newOnly(accepted)
	if err != nil {
		return fmt.Errorf("run cycle: %w", err)
	}

	groups := p.group(newJobs)
	for _, g := range groups {
		if len(g.jobs) == 0 {
			continue
		}
		if err := p.notifier.Notify(g.jobs, g.scopeTag, g.stretch); err != nil {
			p.logger.Error("notification failed",
				"scope", g.scopeTag,
				"stretch", g.stretch,
				"jobs", len(g.jobs),
				"error", err,
			)
		}
	}

	// Every job that survived dedup is recorded, scoped or not, so unscoped
	// listings are not re-evaluated next cycle.
	if err := p.store.Add(newJobs); err != nil {
		return fmt.Errorf("run cycle: marking seen: %w", err)
	}

	p.logger.Info("cycle complete",
		"fetched", len(fetched),
		"accepted", len(accepted),
		"new", len(newJobs),
	)
	return nil
}

// Bootstrap seeds the store with everything currently matching the filters,
// without notifying. Used on first run to avoid a backlog of alerts.
func (p *Pipeline) Bootstrap(ctx context.Context) error {
	fetched := p.gather(ctx)
	accepted := p.engine.Apply(fetched, time.Now())

	if err := p.store.Add(accepted); err != nil {
		return fmt.Errorf("bootstrap: marking seen: %w", err)
	}

	p.logger.Info("bootstrap complete",
		"fetched", len(fetched),
		"seeded", len(accepted),
	)
	return nil
}

// gather fetches all sources concurrently, each with its own timeout. A
// failed or slow source contributes an empty result and never blocks the
// cycle. Listings carrying a fingerprint already produced this cycle are
// dropped so the same posting from two sources is handled once.
func (p *Pipeline) gather(ctx context.Context) []model.Job {
	var (
		mu   sync.Mutex
		jobs []model.Job
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, src := range p.sources {
		src := src
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			fetched, err := src.FetchJobs(fetchCtx)
			if err != nil {
				p.logger.Warn("source fetch failed", "source", src.Name(), "error", err)
				return nil
			}
			p.logger.Debug("source fetched", "source", src.Name(), "jobs", len(fetched))

			mu.Lock()
			jobs = append(jobs, fetched...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	seen := mapset.NewThreadUnsafeSet[string]()
	deduped := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if seen.Add(store.MakeKey(job)) {
			deduped = append(deduped, job)
		}
	}
	return deduped
}

// newOnly keeps the jobs whose fingerprint is absent from the seen store.
func (p *Pipeline) newOnly(jobs []model.Job) ([]model.Job, error) {
	var out []model.Job
	for _, job := range jobs {
		fresh, err := p.store.IsNew(job)
		if err != nil {
			return nil, fmt.Errorf("checking seen status: %w", err)
		}
		if fresh {
			out = append(out, job)
		}
	}
	return out, nil
}

type group struct {
	scopeTag string
	stretch  bool
	jobs     []model.Job
}

// group partitions new jobs into the four notification buckets. Jobs with no
// geographic match are excluded from every bucket but still marked seen by
// the caller.
func (p *Pipeline) group(jobs []model.Job) []group {
	groups := []group{
		{scopeTag: p.tags.TagAustin, stretch: false},
		{scopeTag: p.tags.TagAustin, stretch: true},
		{scopeTag: p.tags.TagUSRemote, stretch: false},
		{scopeTag: p.tags.TagUSRemote, stretch: true},
	}

	for _, job := range jobs {
		tag, stretch := scope.Classify(job, p.aliases)
		if tag == scope.TagNone {
			p.logger.Debug("job outside scope", "title", job.Title, "location", job.Location)
			continue
		}
		idx := 0
		if tag == scope.TagUSRemote {
			idx = 2
		}
		if stretch {
			idx++
		}
		groups[idx].jobs = append(groups[idx].jobs, job)
	}
	return groups
}
