package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const DefaultPath = "configs/config.toml"

type Config struct {
	Server struct {
		Host                 string
		GRPCHost             string `toml:"grpc_host"`
		SecretKey            string `toml:"secret_key"`
		ReadTimeout          time.Duration
		WriteTimeout         time.Duration
		ReadHeaderTimeout    time.Duration
		StrReadTimeout       string `toml:"read_timeout"`
		StrWriteTimeout      string `toml:"write_timeout"`
		StrReadHeaderTimeout string `toml:"read_header_timeout"`
	}
	Database struct {
		Host     string
		User     string
		Password string
		Database string
		MaxConns int32 `toml:"max_conns"`
	}
	Redis struct {
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
	}
	Session struct {
		CookieName string `toml:"cookie_name"`
		Secure     bool
		TTL        time.Duration
		StrTTL     string `toml:"ttl"`
	}
	Log struct {
		File  string
		Level string
	}
}

// GetConfig reads the TOML file at path, then lets the process environment
// (optionally seeded from a .env file) override connection settings and the
// secret key.
func GetConfig(path string, logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Error loading .env file", slog.String("error", err.Error()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Error read config.toml file", slog.String("error", err.Error()))
		return nil, err
	}

	var cfg Config

	if _, tomlErr := toml.Decode(string(data), &cfg); tomlErr != nil {
		logger.Error("Error decode config.toml file", slog.String("error", tomlErr.Error()))
		return nil, tomlErr
	}

	applyEnv(&cfg)

	if err = cfg.parseDurations(); err != nil {
		return nil, err
	}

	cfg.setDefaults()

	if cfg.Server.SecretKey == "" {
		return nil, errors.New("SECRET_KEY is required")
	}

	logger.Info("Config is loaded", slog.String("path", path))
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"DB_HOST":        &cfg.Database.Host,
		"DB_USER":        &cfg.Database.User,
		"DB_PASSWORD":    &cfg.Database.Password,
		"DB_DB":          &cfg.Database.Database,
		"REDIS_ADDR":     &cfg.Redis.RedisAddr,
		"REDIS_PASSWORD": &cfg.Redis.RedisPassword,
		"SECRET_KEY":     &cfg.Server.SecretKey,
		"LOG_LEVEL":      &cfg.Log.Level,
	}

	for key, dst := range overrides {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}

	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			cfg.Redis.RedisDB = db
		}
	}
}

func (cfg *Config) parseDurations() error {
	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"read_timeout", cfg.Server.StrReadTimeout, &cfg.Server.ReadTimeout},
		{"write_timeout", cfg.Server.StrWriteTimeout, &cfg.Server.WriteTimeout},
		{"read_header_timeout", cfg.Server.StrReadHeaderTimeout, &cfg.Server.ReadHeaderTimeout},
		{"session.ttl", cfg.Session.StrTTL, &cfg.Session.TTL},
	}

	for _, d := range durations {
		if d.raw == "" {
			continue
		}

		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	return nil
}

func (cfg *Config) setDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "session_token"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 8 * time.Hour
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "server.log"
	}
}
