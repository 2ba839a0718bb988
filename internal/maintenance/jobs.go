package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/flashlists/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// PurgeUnverifiedJob deletes accounts that were never verified and are older
// than MaxAge.
type PurgeUnverifiedJob struct {
	users  store.UserStore
	maxAge time.Duration
	purged prometheus.Counter
	logger *slog.Logger
	now    func() time.Time
}

// NewPurgeUnverifiedJob creates the job. purged may be nil.
func NewPurgeUnverifiedJob(
	users store.UserStore,
	maxAge time.Duration,
	purged prometheus.Counter,
	log *slog.Logger,
) *PurgeUnverifiedJob {
	if log == nil {
		log = slog.Default()
	}
	return &PurgeUnverifiedJob{
		users:  users,
		maxAge: maxAge,
		purged: purged,
		logger: log.With(slog.String("job", "purge_unverified")),
		now:    time.Now,
	}
}

// Name implements Job.
func (j *PurgeUnverifiedJob) Name() string { return "purge_unverified" }

// Run implements Job.
func (j *PurgeUnverifiedJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.maxAge)
	n, err := j.users.DeleteUnverifiedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge unverified users: %w", err)
	}
	if j.purged != nil {
		j.purged.Add(float64(n))
	}
	if n > 0 {
		j.logger.Info("purged unverified users",
			slog.Int64("count", n),
			slog.Time("created_before", cutoff))
	}
	return nil
}

// Sweeper drops idle per-client state, such as rate limiter buckets.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// SweepJob calls Sweep on a schedule.
type SweepJob struct {
	name    string
	sweeper Sweeper
	idle    time.Duration
	logger  *slog.Logger
}

// NewSweepJob creates a SweepJob.
func NewSweepJob(name string, sweeper Sweeper, idle time.Duration, log *slog.Logger) *SweepJob {
	if log == nil {
		log = slog.Default()
	}
	return &SweepJob{name: name, sweeper: sweeper, idle: idle, logger: log.With(slog.String("job", name))}
}

// Name implements Job.
func (j *SweepJob) Name() string { return j.name }

// Run implements Job.
func (j *SweepJob) Run(context.Context) error {
	if removed := j.sweeper.Sweep(j.idle); removed > 0 {
		j.logger.Debug("swept idle entries", slog.Int("removed", removed))
	}
	return nil
}
