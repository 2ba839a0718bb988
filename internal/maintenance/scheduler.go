// Package maintenance runs periodic housekeeping jobs on a cron schedule.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of periodic housekeeping.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobTimeout bounds a single job run.
const JobTimeout = 5 * time.Minute

// specParser accepts standard five-field expressions and descriptors such
// as "@every 1h" or "@daily".
var specParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule validates a cron spec.
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := specParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// Scheduler runs jobs on cron schedules until its context ends. Overlapping
// runs of the same job are skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu  sync.RWMutex
	ctx context.Context
}

// NewScheduler creates a Scheduler.
func NewScheduler(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "maintenance"))
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(specParser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: log,
		ctx:    context.Background(),
	}
}

// Add registers job under spec.
func (s *Scheduler) Add(spec string, job Job) error {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return err
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() { s.runJob(job) }))
	s.logger.Info("maintenance job scheduled",
		slog.String("job", job.Name()),
		slog.String("schedule", spec))
	return nil
}

// RunNow runs job once, synchronously.
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, JobTimeout)
	defer cancel()
	return job.Run(ctx)
}

// Run starts the cron loop and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("maintenance scheduler started", slog.Int("jobs", len(s.cron.Entries())))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("maintenance scheduler stopped")
	return nil
}

func (s *Scheduler) runJob(job Job) {
	s.mu.RLock()
	base := s.ctx
	s.mu.RUnlock()

	start := time.Now()
	err := s.RunNow(base, job)
	log := s.logger.With(slog.String("job", job.Name()), slog.Duration("took", time.Since(start)))
	if err != nil {
		log.Error("maintenance job failed", slog.Any("error", err))
		return
	}
	log.Debug("maintenance job finished")
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
