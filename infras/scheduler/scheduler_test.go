package scheduler_test

import (
	"context"
	"labplanner/config"
	"labplanner/infras/otel/mocks"
	"labplanner/infras/scheduler"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduler.Timezone = "Europe/Berlin"

	s, err := scheduler.New(cfg, mocks.NewOtel())
	require.NoError(t, err)

	err = s.AddDaily(scheduler.DailyJob{
		Name:   "purge-expired-overrides",
		Hour:   0,
		Minute: 5,
		Task:   func(context.Context) error { return nil },
	})
	require.NoError(t, err)

	s.Start()
	assert.NoError(t, s.Shutdown())
}

func TestNewUnknownTimezone(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduler.Timezone = "Nowhere/Atlantis"

	_, err := scheduler.New(cfg, mocks.NewOtel())

	assert.Error(t, err)
}

func TestAddDailyRejectsInvalidTime(t *testing.T) {
	s, err := scheduler.New(&config.Config{}, mocks.NewOtel())
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Shutdown() })

	err = s.AddDaily(scheduler.DailyJob{Name: "bad", Hour: 25, Task: func(context.Context) error { return nil }})

	assert.Error(t, err)
}
