package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/skysync/internal/logging"
	"github.com/danmuck/skysync/internal/protocol"
	"github.com/danmuck/skysync/internal/protocol/coder"
	"github.com/danmuck/skysync/internal/protocol/frame"
	"github.com/rs/zerolog"
)

// skyframe config.toml key mapping to runtime settings.
type fileConfig struct {
	Backend          string   `toml:"backend"`
	MaxMessageSize   int      `toml:"max_message_size"`
	MaxSignatureSize int      `toml:"max_signature_size"`
	Software         string   `toml:"software"`
	Protocol         []int64  `toml:"protocol"`
	Features         []string `toml:"features"`
	Metrics          bool     `toml:"metrics"`
	LogLevel         string   `toml:"log_level"`
}

type appConfig struct {
	Backend  coder.Kind
	Limits   frame.Limits
	Software string
	Protocol []int64
	Features []string
	Metrics  bool
	LogLevel zerolog.Level
}

func defaultAppConfig() appConfig {
	return appConfig{
		Backend:  coder.KindJSON,
		Limits:   frame.DefaultLimits(),
		Software: "skysync/0.1",
		Protocol: []int64{1},
		Features: []string{},
		Metrics:  false,
		LogLevel: zerolog.InfoLevel,
	}
}

// loadAppConfig overlays the keys defined in path onto the defaults. An
// empty path yields the defaults.
func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return appConfig{}, fmt.Errorf("load skyframe config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return appConfig{}, fmt.Errorf("load skyframe config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("backend") {
		kind, err := coder.ParseKind(raw.Backend)
		if err != nil {
			return appConfig{}, fmt.Errorf("load skyframe config: %w", err)
		}
		cfg.Backend = kind
	}
	if meta.IsDefined("max_message_size") {
		cfg.Limits.MaxBodyBytes = raw.MaxMessageSize
	}
	if meta.IsDefined("max_signature_size") {
		cfg.Limits.MaxSignatureBytes = raw.MaxSignatureSize
	}
	if meta.IsDefined("software") {
		cfg.Software = strings.TrimSpace(raw.Software)
	}
	if meta.IsDefined("protocol") {
		cfg.Protocol = raw.Protocol
	}
	if meta.IsDefined("features") {
		cfg.Features = raw.Features
	}
	if meta.IsDefined("metrics") {
		cfg.Metrics = raw.Metrics
	}
	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return appConfig{}, fmt.Errorf("load skyframe config: invalid log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	if err := validateAppConfig(cfg); err != nil {
		return appConfig{}, fmt.Errorf("load skyframe config: %w", err)
	}
	return cfg, nil
}

func validateAppConfig(cfg appConfig) error {
	if cfg.Limits.MaxBodyBytes <= 0 || cfg.Limits.MaxBodyBytes > protocol.MaxMessageSize {
		return fmt.Errorf("max_message_size must be in (0, %d]", protocol.MaxMessageSize)
	}
	if cfg.Limits.MaxSignatureBytes <= 0 {
		return fmt.Errorf("max_signature_size must be positive")
	}
	if cfg.Software == "" {
		return fmt.Errorf("software is required")
	}
	if len(cfg.Protocol) == 0 {
		return fmt.Errorf("protocol must list at least one version")
	}
	return nil
}
