package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a Sweeper on a cron schedule.
type Scheduler struct {
	sweeper *Sweeper
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a new sweep scheduler.
func NewScheduler(sweeper *Sweeper) *Scheduler {
	return &Scheduler{
		sweeper: sweeper,
		cron:    cron.New(),
		logger:  slog.Default().With("component", "export.janitor"),
	}
}

// Start schedules sweeps using the sweeper's Schedule, for example
// "*/15 * * * *" for every 15 minutes. An empty schedule does nothing.
// The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.sweeper.config.Schedule
	if schedule == "" {
		s.logger.Info("sweep schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.runSweep(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("temp file sweeper started",
		"schedule", schedule,
		"dir", s.sweeper.dir(),
		"max_age", s.sweeper.config.MaxAge,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runSweep(ctx context.Context) {
	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.Error("scheduled sweep failed", "removed", removed, "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("scheduled sweep completed", "removed", removed)
	}
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("temp file sweeper stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled sweep, or nil when nothing is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
