// Package config loads the backend's YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/latexstudio/pkg/latexstudio"
)

// Environment variables that override values read from the config file.
const (
	// EnvAddr overrides Config.Addr.
	EnvAddr = "LATEXSTUDIO_ADDR"
	// EnvToken overrides Config.Token.
	EnvToken = "LATEXSTUDIO_TOKEN"
	// EnvLogLevel overrides Config.LogLevel.
	EnvLogLevel = latexstudio.EnvLogLevel
)

const (
	// DefaultAddr is the loopback address the bridge listens on when none is configured.
	DefaultAddr = "127.0.0.1:1430"
	// DefaultLogLevel keeps the backend quiet unless something goes wrong.
	DefaultLogLevel = "warn"
)

// Config holds the settings of the IPC bridge and logging.
type Config struct {
	// Addr is the listen address of the bridge.
	Addr string `yaml:"addr"`
	// Token, when set, must be presented by every front-end connection.
	Token string `yaml:"token"`
	// AllowedOrigins extends the localhost origins accepted for WebSocket
	// connections (host patterns as understood by the websocket library).
	AllowedOrigins []string `yaml:"allowed_origins"`
	LogLevel       string   `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:     DefaultAddr,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads path (if non-empty), fills defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = DefaultAddr
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv(EnvToken); ok {
		cfg.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config missing addr")
	}
	if _, err := latexstudio.LogLevelFromString(c.LogLevel); err != nil {
		return fmt.Errorf("config invalid log_level %q: %w", c.LogLevel, err)
	}
	for i, origin := range c.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("allowed_origins[%d] is empty", i)
		}
	}
	return nil
}
