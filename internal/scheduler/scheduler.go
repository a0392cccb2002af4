package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Runner is one polling cycle. Satisfied by pipeline.Pipeline.
type Runner interface {
	RunCycle(ctx context.Context) error
}

// Scheduler owns the main loop: ticks on an interval and runs one pipeline
// cycle per tick. A failed cycle is logged and the loop continues.
type Scheduler struct {
	pipe     Runner
	interval time.Duration
	logger   *slog.Logger
}

// New creates a scheduler that runs the pipeline at the given interval.
func New(pipe Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pipe:     pipe,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the polling loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.pipe.RunCycle(ctx); err != nil {
		s.logger.Error("cycle failed", "error", err)
	}
}
