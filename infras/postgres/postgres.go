package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"labplanner/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits traffic between a read replica and the primary.
// Both may point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one side of the connection pair.
type Endpoint struct {
	Role     string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
	Timezone string
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	read := Endpoint{
		Role: "read", Host: pg.Read.Host, Port: pg.Read.Port, Username: pg.Read.Username, Password: pg.Read.Password,
		Name: databaseName(pg.Prefix, pg.Read.Name), SSLMode: pg.Read.SSLMode, Timezone: pg.Read.Timezone,
	}

	return &Connection{
		Read:  Connect(read, pg.MaxRetry, pg.RetryWaitTime),
		Write: Connect(WriteEndpoint(cfg), pg.MaxRetry, pg.RetryWaitTime),
	}
}

// WriteEndpoint describes the primary. Migrations run against it.
func WriteEndpoint(cfg *config.Config) Endpoint {
	pg := cfg.DB.Postgres

	return Endpoint{
		Role: "write", Host: pg.Write.Host, Port: pg.Write.Port, Username: pg.Write.Username, Password: pg.Write.Password,
		Name: databaseName(pg.Prefix, pg.Write.Name), SSLMode: pg.Write.SSLMode, Timezone: pg.Write.Timezone,
	}
}

func databaseName(prefix, name string) string {
	return prefix + name
}

// DSN renders the lib/pq connection URL for e.
func (e Endpoint) DSN() string {
	query := url.Values{}

	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect retries until the database answers, exiting the process after maxRetry failures.
func Connect(e Endpoint, maxRetry, waitSeconds int) *sqlx.DB {
	logger := log.With().Str("name", e.Role).Str("host", e.Host).Str("port", e.Port).Str("dbName", e.Name).Logger()

	for attempt := range max(maxRetry, 1) {
		db, err := sqlx.Connect("postgres", e.DSN())
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt+1).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logger.Fatal().Int("max_retry", maxRetry).Msg("Giving up connecting to database")

	return nil
}

// Ping checks both pools.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping read database: %w", err)
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping write database: %w", err)
	}

	return nil
}

func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close())
}
