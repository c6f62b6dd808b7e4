package worker

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"

	"sjsage522/topicworker/logger"
)

// Scheduler runs a job at fixed wall-clock times every day, each run delayed
// by a random jitter.
type Scheduler struct {
	cron      *cron.Cron
	entry     cron.Job
	times     []string
	maxJitter time.Duration
	jitter    func(max time.Duration) time.Duration
	job       func(ctx context.Context)
	log       *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler for the given HH:MM times in loc
func NewScheduler(times []string, loc *time.Location, maxJitter time.Duration, job func(ctx context.Context)) *Scheduler {
	log := logger.ForScheduler()
	cronLog := logger.NewCronLogger(log)

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
		),
		times:     times,
		maxJitter: maxJitter,
		jitter:    randomJitter,
		job:       job,
		log:       log,
	}
	// Entries share one guarded job so runs never overlap across times
	s.entry = cron.NewChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)).
		Then(cron.FuncJob(s.run))
	return s
}

// CronSpec converts a HH:MM clock time to a daily cron expression
func CronSpec(clock string) (string, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return "", fmt.Errorf("invalid schedule time %q: %w", clock, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max) + 1))
}

// Start registers one entry per configured time and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	for _, clock := range s.times {
		spec, err := CronSpec(clock)
		if err != nil {
			return err
		}
		if _, err := s.cron.AddJob(spec, s.entry); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", clock, err)
		}
	}

	s.cron.Start()
	s.log.Info().
		Strs("times", s.times).
		Dur("max_jitter", s.maxJitter).
		Time("next_run", s.Next()).
		Msg("Scheduler started")
	return nil
}

// Stop stops the scheduler, interrupts a pending jitter and waits for a running job
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// Next returns the earliest upcoming run before jitter
func (s *Scheduler) Next() time.Time {
	var next time.Time
	for _, entry := range s.cron.Entries() {
		if next.IsZero() || (!entry.Next.IsZero() && entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

func (s *Scheduler) run() {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	delay := s.jitter(s.maxJitter)
	if delay > 0 {
		s.log.Debug().Dur("delay", delay).Msg("Delaying scheduled check")
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	s.job(ctx)
}
