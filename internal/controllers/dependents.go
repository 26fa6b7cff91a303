package controllers

import (
	"context"
	"log/slog"
	"time"

	"github.com/adamanr/staff_portal/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

type Controllers struct {
	AuthController     *AuthController
	EmployeeController *EmployeeController
}

func NewControllers(deps *Dependens) *Controllers {
	return &Controllers{
		AuthController:     NewAuthController(deps),
		EmployeeController: NewEmployeeController(deps),
	}
}

// Dependens is satisfied by *pgxpool.Pool and *redis.Client. Each pool call
// acquires a connection and hands it back once the row is scanned, the rows
// are closed or the exec returns.
type Dependens struct {
	DB interface {
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	}
	Redis interface {
		Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
		Get(ctx context.Context, key string) *redis.StringCmd
		Del(ctx context.Context, keys ...string) *redis.IntCmd
	}
	Logger *slog.Logger
	Config *config.Config
}
