package model

import (
	"context"
	"time"
)

// Job is the normalized listing shape produced by every source adapter.
// A Job is built once by its adapter and never mutated downstream.
type Job struct {
	Source      string     // origin adapter name ("remotive", "greenhouse", ...)
	ID          string     // source-local identifier, not globally unique
	Title       string     // job title
	Company     string     // company name
	Location    string     // free text, may be empty
	URL         string     // canonical listing URL; primary dedup signal
	Description string     // optional free text; empty means no description
	PostedAt    *time.Time // nullable (not all sources provide this)
}

// Source fetches job listings from one external board or aggregator.
type Source interface {
	Name() string
	FetchJobs(ctx context.Context) ([]Job, error)
}

// SeenStore tracks which listings have already been processed, keyed by
// content fingerprint.
type SeenStore interface {
	IsNew(job Job) (bool, error)
	Add(jobs []Job) error
}

// Notifier delivers one scope group of new jobs. scopeTag is the display tag
// for the geographic bucket; stretch selects the senior-roles audience.
type Notifier interface {
	Notify(jobs []Job, scopeTag string, stretch bool) error
}
