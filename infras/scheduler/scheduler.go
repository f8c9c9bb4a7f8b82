package scheduler

import (
	"context"
	"fmt"
	"labplanner/config"
	"labplanner/infras/otel"
	"labplanner/shared/constant"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Task runs once per trigger with a context detached from any request.
type Task func(ctx context.Context) error

// DailyJob fires every day at Hour:Minute in the scheduler zone.
type DailyJob struct {
	Name   string
	Hour   uint
	Minute uint
	Task   Task
}

type Scheduler struct {
	cron gocron.Scheduler
	otel otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) (*Scheduler, error) {
	location := time.UTC

	if name := cfg.Scheduler.Timezone; name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load scheduler timezone %q: %w", name, err)
		}

		location = loc
	}

	cron, err := gocron.NewScheduler(gocron.WithLocation(location))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{cron: cron, otel: otl}, nil
}

// AddDaily registers job. Overlapping runs of the same job are skipped.
func (s *Scheduler) AddDaily(job DailyJob) error {
	_, err := s.cron.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(job.Hour, job.Minute, 0))),
		gocron.NewTask(s.run, job),
		gocron.WithName(job.Name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name, err)
	}

	log.Info().Str("job", job.Name).Uint("hour", job.Hour).Uint("minute", job.Minute).Msg("scheduled daily job")

	return nil
}

func (s *Scheduler) run(job DailyJob) {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelSchedulerScopeName, constant.OtelSchedulerScopeName+"."+job.Name)
	defer scope.End()

	started := time.Now()

	if err := job.Task(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("job", job.Name).Msg("scheduled job failed")

		return
	}

	log.Info().Str("job", job.Name).Dur("elapsed", time.Since(started)).Msg("scheduled job finished")
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Shutdown() error {
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}

	return nil
}
