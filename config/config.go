// Package config loads the sidecar's YAML configuration over built-in defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/rules"
	"gopkg.in/yaml.v3"
)

const (
	TransportUnix      = "unix"
	TransportWebSocket = "websocket"
)

type Config struct {
	Transport  string `yaml:"transport"`
	SocketPath string `yaml:"socket_path"`
	EngineURL  string `yaml:"engine_url"`
	LogLevel   string `yaml:"log_level"`

	// Empty paths and addresses disable the matching component.
	StatusAddr string `yaml:"status_addr"`
	StorePath  string `yaml:"store_path"`
	TurnLogDir string `yaml:"turn_log_dir"`

	// Profile names a built-in profile; Strategy overrides its fields.
	Profile  string        `yaml:"profile"`
	Strategy rules.Profile `yaml:"strategy"`

	// Catalog entries replace the engine defaults per type.
	Catalog model.Catalog `yaml:"catalog"`

	// Rules, when set, replace the profile's compiled rule set.
	Rules []rules.RuleSpec `yaml:"rules"`
}

func Defaults() Config {
	return Config{
		Transport:  TransportUnix,
		SocketPath: "/tmp/rampart.sock",
		LogLevel:   "info",
		StatusAddr: "127.0.0.1:8086",
		Profile:    "staged",
		Strategy:   rules.StagedProfile(),
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, cfg.Validate()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// The named profile seeds Strategy before the file's own overrides land on it.
	var head struct {
		Profile string `yaml:"profile"`
	}
	if err := yaml.Unmarshal(b, &head); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if head.Profile != "" {
		p, ok := rules.ProfileByName(head.Profile)
		if !ok {
			return cfg, fmt.Errorf("%s: unknown profile %q", path, head.Profile)
		}
		cfg.Strategy = p
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Transport {
	case TransportUnix:
		if c.SocketPath == "" {
			return fmt.Errorf("socket_path is required for the unix transport")
		}
	case TransportWebSocket:
		if c.EngineURL == "" {
			return fmt.Errorf("engine_url is required for the websocket transport")
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	c.Strategy.Validate()
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// EffectiveCatalog is the default catalog with the configured entries applied.
func (c Config) EffectiveCatalog() model.Catalog {
	return model.DefaultCatalog().Merge(c.Catalog)
}

// CompileRules returns the configured rule list, or the profile's rules.
func (c Config) CompileRules() ([]*rules.Rule, error) {
	if len(c.Rules) > 0 {
		return rules.FromSpecs(c.Rules)
	}
	return rules.CompileProfile(c.Strategy), nil
}
