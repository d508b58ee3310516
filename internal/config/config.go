package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Server modes
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeTest        = "test"
	// ModeMemory serves the seeded in-memory store instead of PostgreSQL.
	ModeMemory = "memory"
)

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port           string  `yaml:"port" env:"SERVER_PORT"`
	Mode           string  `yaml:"mode" env:"SERVER_MODE"`
	ReadTimeout    string  `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout   string  `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" env:"SERVER_RATE_LIMIT_RPS"`
	RateLimitBurst int     `yaml:"rate_limit_burst" env:"SERVER_RATE_LIMIT_BURST"`
}

// DatabaseConfig configures the PostgreSQL pool and migrations
type DatabaseConfig struct {
	Host            string `yaml:"host" env:"DB_HOST"`
	Port            string `yaml:"port" env:"DB_PORT"`
	User            string `yaml:"user" env:"DB_USER"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	// MigrationsDir overrides the embedded schema when set.
	MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
}

// RedisConfig configures the aggregate cache. An empty URL disables it.
type RedisConfig struct {
	URL          string `yaml:"url" env:"REDIS_URL"`
	PoolSize     int    `yaml:"pool_size" env:"REDIS_POOL_SIZE"`
	MinIdleConns int    `yaml:"min_idle_conns" env:"REDIS_MIN_IDLE_CONNS"`
	CacheTTL     string `yaml:"cache_ttl" env:"REDIS_CACHE_TTL"`
}

// JWTConfig configures bearer token verification
type JWTConfig struct {
	Secret string `yaml:"secret" env:"JWT_SECRET"`
	Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
}

// SyncConfig bounds the enqueue-and-poll sync call
type SyncConfig struct {
	Timeout      string `yaml:"timeout" env:"SYNC_TIMEOUT"`
	PollInterval string `yaml:"poll_interval" env:"SYNC_POLL_INTERVAL"`
}

// MonitorConfig schedules the queue depth monitor
type MonitorConfig struct {
	QueueSchedule string `yaml:"queue_schedule" env:"MONITOR_QUEUE_SCHEDULE"`
}

// LoggingConfig configures the global logger
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Config structure represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Sync     SyncConfig     `yaml:"sync"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoadConfig loads configuration from a file, an optional .env file next to
// the working directory and environment variables, in increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithEnvFile(configPath, ".env")
}

// LoadConfigWithEnvFile is LoadConfig with an explicit .env path.
func LoadConfigWithEnvFile(configPath, envFile string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// godotenv never overrides variables that are already set.
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = ModeDevelopment
	config.Server.ReadTimeout = "15s"
	config.Server.WriteTimeout = "60s"
	config.Server.RateLimitRPS = 2
	config.Server.RateLimitBurst = 5

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "persondata"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = ""

	// Redis defaults
	config.Redis.PoolSize = 10
	config.Redis.MinIdleConns = 2
	config.Redis.CacheTTL = "5m"

	// JWT defaults
	config.JWT.Issuer = "persondata"

	// Sync defaults
	config.Sync.Timeout = "15s"
	config.Sync.PollInterval = "3s"

	config.Monitor.QueueSchedule = "@every 30s"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" && config.Server.Mode != ModeMemory {
		return errors.New("database host is required")
	}

	if config.JWT.Secret == "" && config.Server.Mode == ModeProduction {
		return errors.New("JWT secret is required in production")
	}

	durations := map[string]string{
		"server.read_timeout":        config.Server.ReadTimeout,
		"server.write_timeout":       config.Server.WriteTimeout,
		"database.conn_max_lifetime": config.Database.ConnMaxLifetime,
		"redis.cache_ttl":            config.Redis.CacheTTL,
		"sync.timeout":               config.Sync.Timeout,
		"sync.poll_interval":         config.Sync.PollInterval,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if config.SyncTimeout() <= 0 {
		return errors.New("sync timeout must be positive")
	}
	if config.SyncPollInterval() <= 0 {
		return errors.New("sync poll interval must be positive")
	}
	if config.Server.RateLimitRPS <= 0 || config.Server.RateLimitBurst <= 0 {
		return errors.New("server rate limit must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// SyncTimeout is the parsed default sync timeout.
func (c *Config) SyncTimeout() time.Duration {
	return mustDuration(c.Sync.Timeout)
}

// SyncPollInterval is the parsed default poll interval.
func (c *Config) SyncPollInterval() time.Duration {
	return mustDuration(c.Sync.PollInterval)
}

// CacheTTL is the parsed aggregate cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return mustDuration(c.Redis.CacheTTL)
}

// ReadTimeout is the parsed HTTP read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return mustDuration(c.Server.ReadTimeout)
}

// WriteTimeout is the parsed HTTP write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout)
}

// mustDuration parses a value validateConfig already accepted; anything else
// reads as zero.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
