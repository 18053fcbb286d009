package connector

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "SQLCMD_"

// Config represents database connection configuration.
type Config struct {
	Driver             string            `json:"driver" yaml:"driver" env:"DRIVER" envDefault:"sqlite"`
	DSN                string            `json:"dsn" yaml:"dsn" env:"DSN"`
	Host               string            `json:"host" yaml:"host" env:"HOST"`
	Port               int               `json:"port" yaml:"port" env:"PORT"`
	Database           string            `json:"database" yaml:"database" env:"DATABASE"`
	Username           string            `json:"username" yaml:"username" env:"USERNAME"`
	Password           string            `json:"password" yaml:"password" env:"PASSWORD"`
	SSLMode            string            `json:"ssl_mode" yaml:"ssl_mode" env:"SSL_MODE"`
	Params             map[string]string `json:"params" yaml:"params" env:"PARAMS"`
	Pool               PoolConfig        `json:"pool" yaml:"pool" envPrefix:"POOL_"`
	ConnectTimeout     time.Duration     `json:"connect_timeout" yaml:"connect_timeout" env:"CONNECT_TIMEOUT" envDefault:"10s"`
	CommandTimeout     time.Duration     `json:"command_timeout" yaml:"command_timeout" env:"COMMAND_TIMEOUT"`
	StatementCacheSize int               `json:"statement_cache_size" yaml:"statement_cache_size" env:"STATEMENT_CACHE_SIZE" envDefault:"64"`
	Retry              RetryConfig       `json:"retry" yaml:"retry" envPrefix:"RETRY_"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open" env:"MAX_OPEN"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle" env:"MAX_IDLE"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime" env:"MAX_LIFETIME"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time" env:"MAX_IDLE_TIME"`
}

// RetryConfig defines connection retry behavior. MaxRetries of zero means a
// single attempt.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries" env:"MAX_RETRIES"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay" env:"BASE_DELAY" envDefault:"500ms"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay" env:"MAX_DELAY" envDefault:"10s"`
	Backoff    float64       `json:"backoff" yaml:"backoff" env:"BACKOFF" envDefault:"2"`
}

// Load reads the configuration from SQLCMD_* environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings every provider relies on.
func (c Config) Validate() error {
	if c.Driver == "" {
		return ErrNoDriver
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if c.StatementCacheSize < 0 {
		return fmt.Errorf("statement cache size must not be negative: %d", c.StatementCacheSize)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative: %d", c.Retry.MaxRetries)
	}
	return nil
}
