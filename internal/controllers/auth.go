package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/adamanr/staff_portal/internal/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type AuthController struct {
	deps *Dependens
}

func NewAuthController(deps *Dependens) *AuthController {
	return &AuthController{
		deps: deps,
	}
}

// Verify resolves a "LastName FirstName" identity and password to one record.
// Names match case-insensitively; the password matches exactly.
func (c *AuthController) Verify(ctx context.Context, identity, password string) (*entity.Employee, error) {
	parts := strings.Fields(identity)
	if len(parts) < 2 || password == "" {
		c.deps.Logger.Warn("Malformed login identity", slog.String("identity", identity))
		return nil, ErrNotFound
	}

	lastName, firstName := parts[0], strings.Join(parts[1:], " ")

	query := `SELECT ` + employeeColumns + ` FROM users
              WHERE lower(last_name) = lower($1) AND lower(first_name) = lower($2) AND password = $3
              ORDER BY its_active DESC, id
              LIMIT 1`

	emp, err := scanEmployee(c.deps.DB.QueryRow(ctx, query, lastName, firstName, password))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Invalid login attempt", slog.String("identity", identity))
			return nil, ErrNotFound
		}

		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	if !emp.ItsActive {
		c.deps.Logger.Warn("Login to inactive account", slog.Int64("id", emp.ID))
		return nil, ErrInactive
	}

	return &emp, nil
}

// CreateSession stores emp under a fresh session id and returns the signed
// token the browser keeps.
func (c *AuthController) CreateSession(ctx context.Context, emp *entity.Employee) (string, error) {
	sessionID := uuid.NewString()

	payload, err := json.Marshal(emp)
	if err != nil {
		c.deps.Logger.Error("Error encoding session", slog.String("error", err.Error()))
		return "", err
	}

	ttl := c.deps.Config.Session.TTL
	if err = c.deps.Redis.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl).Err(); err != nil {
		c.deps.Logger.Error("Error saving session to Redis", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	now := time.Now()
	claims := entity.Claims{
		SessionID:  sessionID,
		EmployeeID: emp.ID,
		Role:       emp.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.deps.Config.Server.SecretKey))
	if err != nil {
		c.deps.Logger.Error("Error signing token", slog.String("error", err.Error()))
		return "", err
	}

	return token, nil
}

func (c *AuthController) parseToken(tokenStr string) (*entity.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &entity.Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(c.deps.Config.Server.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*entity.Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GetSession returns the employee held by the session the token names.
// Unknown, expired and tampered tokens all yield ErrNoSession.
func (c *AuthController) GetSession(ctx context.Context, tokenStr string) (*entity.Employee, error) {
	if tokenStr == "" {
		return nil, ErrNoSession
	}

	claims, err := c.parseToken(tokenStr)
	if err != nil {
		c.deps.Logger.Warn("Rejected session token", slog.String("error", err.Error()))
		return nil, ErrNoSession
	}

	payload, err := c.deps.Redis.Get(ctx, sessionKeyPrefix+claims.SessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.deps.Logger.Warn("Session expired or revoked", slog.String("session", claims.SessionID))
			return nil, ErrNoSession
		}

		c.deps.Logger.Error("Error reading session from Redis", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	var emp entity.Employee
	if err = json.Unmarshal(payload, &emp); err != nil {
		c.deps.Logger.Error("Error decoding session", slog.String("error", err.Error()))
		return nil, ErrNoSession
	}

	return &emp, nil
}

// DeleteSession drops the session the token names. Tokens that do not parse
// have nothing to drop.
func (c *AuthController) DeleteSession(ctx context.Context, tokenStr string) error {
	claims, err := c.parseToken(tokenStr)
	if err != nil {
		return nil
	}

	if err = c.deps.Redis.Del(ctx, sessionKeyPrefix+claims.SessionID).Err(); err != nil {
		c.deps.Logger.Error("Error deleting session from Redis", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	return nil
}
