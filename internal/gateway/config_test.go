package gateway

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.Server.Port != 4444 {
		t.Errorf("default port = %d, want 4444", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("default host = %q, want 127.0.0.1", cfg.Server.Host)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load(\"\") = %+v, want default config", cfg)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	yaml := "server:\n  port: 5555\n  host: 0.0.0.0\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 5555 {
		t.Errorf("port = %d, want 5555", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	// Fields absent from the overlay keep their default value.
	if cfg.Session.SpawnTimeoutMS != DefaultConfig().Session.SpawnTimeoutMS {
		t.Errorf("spawn timeout should retain its default when not overlaid")
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for port 0")
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an out-of-range port")
	}
}

func TestValidateRequiresHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Host = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an empty host")
	}
}
