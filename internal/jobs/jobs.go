package jobs

import (
	"context"
	"fmt"
	"labplanner/config"
	"labplanner/infras/scheduler"
	overrideService "labplanner/internal/domains/override/service"

	"github.com/rs/zerolog/log"
)

const jobPurgeOverrides = "purge_expired_overrides"

// Jobs owns the background schedule. It is inert unless SCHEDULER_ENABLE is set.
type Jobs struct {
	cfg       *config.Config
	scheduler *scheduler.Scheduler
	overrides overrideService.Override
}

func New(cfg *config.Config, sched *scheduler.Scheduler, overrides overrideService.Override) (*Jobs, error) {
	jobs := &Jobs{
		cfg:       cfg,
		scheduler: sched,
		overrides: overrides,
	}

	if !cfg.Scheduler.Enable {
		return jobs, nil
	}

	err := sched.AddDaily(scheduler.DailyJob{
		Name:   jobPurgeOverrides,
		Hour:   cfg.Scheduler.PurgeAtHour,
		Minute: cfg.Scheduler.PurgeAtMinute,
		Task:   jobs.purgeOverrides,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule override purge: %w", err)
	}

	return jobs, nil
}

func (j *Jobs) purgeOverrides(ctx context.Context) error {
	res, err := j.overrides.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired overrides: %w", err)
	}

	log.Info().Str("cutoff", res.Cutoff).Int64("deleted", res.Deleted).Msg("expired capacity overrides purged")

	return nil
}

func (j *Jobs) Start() {
	if !j.cfg.Scheduler.Enable {
		return
	}

	j.scheduler.Start()
}

func (j *Jobs) Shutdown() error {
	if !j.cfg.Scheduler.Enable {
		return nil
	}

	return j.scheduler.Shutdown()
}
