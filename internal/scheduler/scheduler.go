package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/clawmon/clawmon/internal/bus"
	"github.com/clawmon/clawmon/internal/runlog"
)

// Job defines a schedulable unit of work.
type Job struct {
	Name    string    // Unique job identifier.
	Cron    *CronExpr // Parsed cron expression.
	Content string    // Message content dispatched to the agent loop.
}

// Config holds scheduler settings.
type Config struct {
	Enabled      bool          `json:"enabled" envconfig:"ENABLED"`
	TickInterval time.Duration `json:"tickInterval"`
}

// Scheduler manages job registration and tick dispatch.
type Scheduler struct {
	cfg      Config
	bus      *bus.MessageBus
	runs     *runlog.Service
	jobs     map[string]*Job
	running  bool
	lastTick time.Time
	mu       sync.RWMutex
}

// New creates a Scheduler. runs may be nil to disable run logging.
func New(cfg Config, b *bus.MessageBus, runs *runlog.Service) *Scheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 60 * time.Second
	}
	return &Scheduler{
		cfg:  cfg,
		bus:  b,
		runs: runs,
		jobs: make(map[string]*Job),
	}
}

// Register adds a job to the scheduler.
func (s *Scheduler) Register(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = job
	slog.Info("Scheduler job registered", "name", job.Name)
}

// Unregister removes a job by name.
func (s *Scheduler) Unregister(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, name)
}

// Jobs returns a snapshot of the registered jobs.
func (s *Scheduler) Jobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out
}

// Status reports the scheduler state for the admin console.
func (s *Scheduler) Status() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := map[string]any{
		"jobs":    len(s.jobs),
		"running": s.running,
	}
	if !s.lastTick.IsZero() {
		status["last_tick"] = s.lastTick.Format(time.RFC3339)
	}
	if next := s.nextRunLocked(); !next.IsZero() {
		status["next_run"] = next.Format(time.RFC3339)
	}
	return status
}

func (s *Scheduler) nextRunLocked() time.Time {
	var next time.Time
	now := time.Now()
	for _, job := range s.jobs {
		n := job.Cron.Next(now)
		if n.IsZero() {
			continue
		}
		if next.IsZero() || n.Before(next) {
			next = n
		}
	}
	return next
}

// Run starts the scheduler tick loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	slog.Info("Scheduler started", "tick", s.cfg.TickInterval, "jobs", len(s.jobs))
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return ctx.Err()
		case t := <-ticker.C:
			s.tick(ctx, t)
		}
	}
}

// tick dispatches any jobs whose cron expression matches now.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	s.lastTick = now
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, job := range s.jobs {
		if !job.Cron.Matches(now) {
			continue
		}
		s.dispatch(job, now)
	}
}

// dispatch sends a job onto the bus as an inbound message.
func (s *Scheduler) dispatch(job *Job, now time.Time) {
	slog.Info("Scheduler dispatching job", "job", job.Name)

	go func() {
		start := time.Now()
		s.bus.PublishInbound(&bus.InboundMessage{
			Channel:   "scheduler",
			SenderID:  "scheduler",
			ChatID:    fmt.Sprintf("scheduler:%s", job.Name),
			Content:   job.Content,
			Timestamp: now,
		})
		s.logJobRun(job.Name, "dispatched", now, time.Since(start))
	}()
}

// logJobRun persists the run status to the run log (best-effort).
func (s *Scheduler) logJobRun(name, status string, tick time.Time, duration time.Duration) {
	if s.runs == nil {
		return
	}
	if _, err := s.runs.RecordRun(name, status, tick, duration); err != nil {
		slog.Warn("Scheduler run log write failed", "job", name, "error", err)
	}
}
