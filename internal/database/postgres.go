package database

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/adamanr/staff_portal/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `CREATE TABLE IF NOT EXISTS users (
	id              BIGSERIAL PRIMARY KEY,
	last_name       TEXT    NOT NULL,
	first_name      TEXT    NOT NULL,
	password        TEXT    NOT NULL,
	department      TEXT    NOT NULL,
	role            TEXT    NOT NULL,
	employment_date DATE    NOT NULL,
	county          TEXT    NOT NULL,
	phone_number    TEXT    NOT NULL,
	its_active      BOOLEAN NOT NULL DEFAULT TRUE
)`

// ConnString renders the database section as a postgres URL with the
// credentials escaped.
func ConnString(config *config.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(config.Database.User, config.Database.Password),
		Host:   config.Database.Host,
		Path:   "/" + config.Database.Database,
	}
	return u.String()
}

// NewConnect opens a connection pool and makes sure the users table exists.
func NewConnect(ctx context.Context, config *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(ConnString(config))
	if err != nil {
		logger.Error("Error parsing DB url", slog.String("error", err.Error()))
		return nil, err
	}

	if config.Database.MaxConns > 0 {
		poolCfg.MaxConns = config.Database.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Error connecting to DB", slog.String("error", err.Error()))
		return nil, err
	}

	if err = pool.Ping(ctx); err != nil {
		logger.Error("Error pinging DB", slog.String("error", err.Error()))
		pool.Close()
		return nil, err
	}

	if _, err = pool.Exec(ctx, schema); err != nil {
		logger.Error("Error creating users table", slog.String("error", err.Error()))
		pool.Close()
		return nil, err
	}

	logger.Info("Connected to DB successfully")
	return pool, nil
}
