package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL         = "ws://127.0.0.1:7350/ws"
	DefaultHandshakeTimeout  = 10 * time.Second
	DefaultHeartbeatInterval = 5 * time.Second
	DefaultPassThreshold     = 21
	DefaultMaxPeggingTotal   = 31
)

// Config holds the client configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Player PlayerConfig `yaml:"player"`
	Rules  RulesConfig  `yaml:"rules"`
	Log    LogConfig    `yaml:"log"`
	Status StatusConfig `yaml:"status"`
}

// ServerConfig describes how to reach the authority.
type ServerConfig struct {
	URL               string        `yaml:"url"`
	Token             string        `yaml:"token"`
	HandshakeTimeout  time.Duration `yaml:"handshake_timeout"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
}

// PlayerConfig is the local identity sent on login.
type PlayerConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// RulesConfig holds the pegging bounds used for the "go" affordance.
type RulesConfig struct {
	PassThreshold   int `yaml:"pass_threshold"`
	MaxPeggingTotal int `yaml:"max_pegging_total"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console|json
}

// StatusConfig configures the local status listener; an empty Addr disables it.
type StatusConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:               DefaultServerURL,
			HandshakeTimeout:  DefaultHandshakeTimeout,
			HeartbeatInterval: DefaultHeartbeatInterval,
		},
		Rules: RulesConfig{
			PassThreshold:   DefaultPassThreshold,
			MaxPeggingTotal: DefaultMaxPeggingTotal,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CRIBBAGE_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("CRIBBAGE_TOKEN"); v != "" {
		cfg.Server.Token = v
	}
	if v := os.Getenv("CRIBBAGE_PLAYER_ID"); v != "" {
		cfg.Player.ID = v
	}
	if v := os.Getenv("CRIBBAGE_PLAYER_NAME"); v != "" {
		cfg.Player.Name = v
	}
	if v := os.Getenv("CRIBBAGE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server.url is required")
	}
	if c.Rules.MaxPeggingTotal <= 0 {
		return fmt.Errorf("rules.max_pegging_total must be positive, got %d", c.Rules.MaxPeggingTotal)
	}
	if c.Rules.PassThreshold <= 0 || c.Rules.PassThreshold > c.Rules.MaxPeggingTotal {
		return fmt.Errorf("rules.pass_threshold %d outside [1, %d]", c.Rules.PassThreshold, c.Rules.MaxPeggingTotal)
	}
	if c.Server.HeartbeatInterval < 0 || c.Server.HandshakeTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	return nil
}
