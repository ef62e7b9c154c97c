package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/omochice/wstest/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
endpoint: ws://localhost:8080/
dial_timeout: 3s
send_timeout: 250ms
queue_size: 8
log_file: /tmp/wstest.log
log_level: debug
`)

	cfg, err := config.Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Endpoint != "ws://localhost:8080/" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.DialTimeout != 3*time.Second {
		t.Errorf("DialTimeout = %s, want 3s", cfg.DialTimeout)
	}
	if cfg.SendTimeout != 250*time.Millisecond {
		t.Errorf("SendTimeout = %s, want 250ms", cfg.SendTimeout)
	}
	if cfg.QueueSize != 8 {
		t.Errorf("QueueSize = %d, want 8", cfg.QueueSize)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	// Unset keys keep their defaults.
	if cfg.RefreshInterval != config.Default().RefreshInterval {
		t.Errorf("RefreshInterval = %s, want default", cfg.RefreshInterval)
	}
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := config.Load(path, true)
	if err != nil {
		t.Fatalf("Load() optional error = %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}

	if _, err := config.Load(path, false); err == nil {
		t.Error("expected error for missing required config")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "endpoint: [", "failed to parse"},
		{"bad duration", "dial_timeout: soon", "failed to parse"},
		{"negative", "send_timeout: -1s", "send_timeout"},
		{"bad level", "log_level: loud", "log_level"},
		{"negative queue", "queue_size: -2", "queue_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content), false)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefault_Validate(t *testing.T) {
	if err := config.Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}
