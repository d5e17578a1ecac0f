package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Game     GameConfig     `yaml:"game"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
}

// StorageConfig selects where the leaderboard and player name live:
// memory, sqlite, redis or postgres.
type StorageConfig struct {
	Backend    string `yaml:"backend" env:"STORAGE_BACKEND"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr" env:"REDIS_ADDR"`
	Password  string `yaml:"password" env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX"`
	TTL       string `yaml:"ttl" env:"REDIS_TTL"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

type GameConfig struct {
	TotalTime        string `yaml:"total_time" env:"GAME_TOTAL_TIME"`
	Penalty          string `yaml:"penalty" env:"GAME_PENALTY"`
	PointsPerCorrect int    `yaml:"points_per_correct" env:"GAME_POINTS_PER_CORRECT"`
	LeaderboardSize  int    `yaml:"leaderboard_size" env:"GAME_LEADERBOARD_SIZE"`
	Questions        string `yaml:"questions" env:"GAME_QUESTIONS"`
}

const (
	// MaxTotalTime is the longest countdown a run may be given.
	MaxTotalTime = 30 * time.Minute
	// MaxLeaderboardSize is the most entries the board may keep.
	MaxLeaderboardSize = 10
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Load reads YAML config from path and applies environment overrides.
// A missing file is not an error; defaults and the environment still apply.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendSQLite
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/arcade.db"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "arcade:"
	}
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("storage backend redis requires redis.addr")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("storage backend postgres requires postgres.url")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Game.PointsPerCorrect < 0 {
		return fmt.Errorf("game.points_per_correct must not be negative")
	}
	if c.Game.LeaderboardSize < 0 || c.Game.LeaderboardSize > MaxLeaderboardSize {
		return fmt.Errorf("game.leaderboard_size must be between 0 and %d, got %d", MaxLeaderboardSize, c.Game.LeaderboardSize)
	}
	return c.Game.validateTimes()
}

// validateTimes checks the optional countdown and penalty durations.
func (g GameConfig) validateTimes() error {
	if g.TotalTime != "" {
		d, err := time.ParseDuration(g.TotalTime)
		if err != nil {
			return fmt.Errorf("game.total_time: %w", err)
		}
		if d < time.Second || d > MaxTotalTime {
			return fmt.Errorf("game.total_time must be between 1s and %s, got %s", MaxTotalTime, d)
		}
	}
	if g.Penalty != "" {
		d, err := time.ParseDuration(g.Penalty)
		if err != nil {
			return fmt.Errorf("game.penalty: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("game.penalty must not be negative, got %s", d)
		}
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
