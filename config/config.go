package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
)

// Config is the application-wide configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Grid     GridConfig     `mapstructure:"grid"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port          int        `mapstructure:"port"`
	CORS          CORSConfig `mapstructure:"cors"`
	MaxUploadSize int64      `mapstructure:"max_upload_size"` // bytes
}

// CORSConfig cross-origin settings for the UI.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// UpstreamConfig points at the solver/API server this service synchronizes
// with.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig durable session store settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig session persistence settings.
type SessionConfig struct {
	Namespace       string `mapstructure:"namespace"`
	HistoryCapacity int    `mapstructure:"history_capacity"`
}

// GridConfig rendering settings: the pinned override coordinates.
type GridConfig struct {
	Overrides []grid.Override `mapstructure:"overrides"`
}

// LogConfig logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration with precedence env > file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.max_upload_size", 8<<20)

	v.SetDefault("upstream.base_url", "http://localhost:8000")
	v.SetDefault("upstream.timeout", "60s")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.namespace", "tts:session")
	v.SetDefault("session.history_capacity", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// The weekly club period is an institutional rule, not solver output;
	// it ships as a default override and stays configurable.
	v.SetDefault("grid.overrides", []map[string]interface{}{
		{"day": "Wednesday", "period": 7, "subject": "Club Activity", "type": "CLUB"},
	})

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("TTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// no file: defaults + env only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be within 1-65535")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("config: upstream.base_url must not be empty")
	}
	if c.Session.HistoryCapacity <= 0 {
		return fmt.Errorf("config: session.history_capacity must be positive")
	}
	return nil
}
