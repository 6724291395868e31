package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("CRM_STORE_URL", "https://example.supabase.co")
	t.Setenv("CRM_STORE_SERVICE_KEY", "service-key")
	t.Setenv("CRM_AI_MODEL", "gpt-4o")
	t.Setenv("CRM_LISTEN_ADDR", ":9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Fatalf("listen_addr = %q", cfg.ListenAddr)
	}
	if cfg.Store.URL != "https://example.supabase.co" {
		t.Fatalf("store.url = %q", cfg.Store.URL)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Fatalf("ai.model = %q", cfg.AI.Model)
	}
	// Untouched defaults survive
	if cfg.AI.MaxTokens != 2000 {
		t.Fatalf("ai.max_tokens = %d, want 2000", cfg.AI.MaxTokens)
	}
	if cfg.AI.Temperature != 0.7 {
		t.Fatalf("ai.temperature = %v, want 0.7", cfg.AI.Temperature)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("logging.level = %q", cfg.Logging.Level)
	}
}

func TestLoadYAMLThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
listen_addr: ":7000"
store:
  url: "https://from-yaml.example"
  service_key: "yaml-key"
ai:
  model: "from-yaml"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CRM_AI_MODEL", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":7000" {
		t.Fatalf("listen_addr = %q", cfg.ListenAddr)
	}
	if cfg.Store.ServiceKey != "yaml-key" {
		t.Fatalf("store.service_key = %q", cfg.Store.ServiceKey)
	}
	if cfg.AI.Model != "from-env" {
		t.Fatalf("env override lost: ai.model = %q", cfg.AI.Model)
	}
}

func TestLoadRequiresStoreCredentials(t *testing.T) {
	t.Setenv("CRM_STORE_URL", "")
	t.Setenv("CRM_STORE_SERVICE_KEY", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error without store credentials")
	}

	t.Setenv("CRM_STORE_URL", "https://example.supabase.co")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error without service key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
