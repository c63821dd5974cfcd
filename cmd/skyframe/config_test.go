package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/skysync/internal/protocol/coder"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestLoadAppConfigExample(t *testing.T) {
	cfg, err := loadAppConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Backend != coder.KindJSON {
		t.Fatalf("unexpected backend: %v", cfg.Backend)
	}
	if cfg.Limits.MaxBodyBytes != 1048576 || cfg.Limits.MaxSignatureBytes != 4096 {
		t.Fatalf("unexpected limits: %+v", cfg.Limits)
	}
	if diff := cmp.Diff([]int64{1, 2}, cfg.Protocol); diff != "" {
		t.Fatalf("protocol mismatch: %s", diff)
	}
	if diff := cmp.Diff([]string{"lz4"}, cfg.Features); diff != "" {
		t.Fatalf("features mismatch: %s", diff)
	}
	if cfg.LogLevel != zerolog.DebugLevel {
		t.Fatalf("unexpected log level: %v", cfg.LogLevel)
	}
}

func TestLoadAppConfigDefaultsWhenUnset(t *testing.T) {
	path := writeConfig(t, `software = "custom/2"`)
	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	def := defaultAppConfig()
	if cfg.Software != "custom/2" {
		t.Fatalf("unexpected software: %q", cfg.Software)
	}
	if cfg.Limits != def.Limits || cfg.Backend != def.Backend {
		t.Fatalf("defaults not kept: %+v", cfg)
	}

	cfg, err = loadAppConfig("")
	if err != nil {
		t.Fatalf("load empty path: %v", err)
	}
	if cfg.Software != def.Software {
		t.Fatalf("unexpected software: %q", cfg.Software)
	}
}

func TestLoadAppConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"backend":      `backend = "cbor"`,
		"unknown key":  `colour = "blue"`,
		"size":         `max_message_size = 0`,
		"protocol":     `protocol = []`,
		"log level":    `log_level = "loud"`,
		"syntax error": `software = `,
	}
	for name, body := range cases {
		if _, err := loadAppConfig(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	_, err := loadAppConfig(writeConfig(t, `backend = "cbor"`))
	if !errors.Is(err, coder.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
