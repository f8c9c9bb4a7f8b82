package helper_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labplanner/config"
	"labplanner/helper"
)

func TestParseAction(t *testing.T) {
	for _, value := range []string{"up", "down", "step-up", "drop", "version"} {
		action, err := helper.ParseAction(value)
		require.NoError(t, err)
		assert.Equal(t, helper.Action(value), action)
	}

	_, err := helper.ParseAction("sideways")
	require.ErrorIs(t, err, helper.ErrUnknownAction)
}

func TestMigrationURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.MigrationTable = "schema_migrations_labplanner"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "planner"
	cfg.DB.Postgres.Write.Password = "p@ss"
	cfg.DB.Postgres.Write.Name = "labplanner"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	parsed, err := url.Parse(helper.MigrationURL(cfg))
	require.NoError(t, err)

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db:5432", parsed.Host)
	assert.Equal(t, "/test_labplanner", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations_labplanner", parsed.Query().Get("x-migrations-table"))

	password, _ := parsed.User.Password()
	assert.Equal(t, "p@ss", password)
}

func TestRun_UnknownAction(t *testing.T) {
	err := helper.Run(&config.Config{}, helper.Action("sideways"))
	require.ErrorIs(t, err, helper.ErrUnknownAction)
}

func TestAutoMigrate_Disabled(t *testing.T) {
	require.NoError(t, helper.AutoMigrate(&config.Config{}))
}
