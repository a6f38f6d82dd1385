package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CALNOTES_CONFIG_PATH", t.TempDir())
	t.Setenv("CALNOTES_URL", "https://example.supabase.co/")
	t.Setenv("CALNOTES_KEY", "anon")
	t.Setenv("CALNOTES_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendPostgREST || cfg.URL != "https://example.supabase.co" || cfg.Key != "anon" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Table != "notes" || cfg.Timeout != 30*time.Second || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !cfg.Configured() {
		t.Fatalf("expected configured")
	}
}

func TestLoadConfigFromFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CALNOTES_CONFIG_PATH", dir)
	if err := os.WriteFile(filepath.Join(dir, ".calnotes.yaml"), []byte("backend: sqlite\npath: "+dir+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SUPABASE_URL=https://dotenv.supabase.co\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SUPABASE_URL") })

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.BasePath() != dir {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.URL != "https://dotenv.supabase.co" {
		t.Fatalf("expected .env fallback url, got %q", cfg.URL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("local backend should not need url/key: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing url", Config{Backend: BackendPostgREST, Key: "k", Table: "notes"}, "url"},
		{"bad url", Config{Backend: BackendPostgREST, URL: "not a url", Key: "k", Table: "notes"}, "url"},
		{"missing key", Config{Backend: BackendPostgREST, URL: "https://x.supabase.co", Table: "notes"}, "key"},
		{"unknown backend", Config{Backend: "redis", Path: "/tmp"}, "backend"},
		{"local without path", Config{Backend: BackendDiskv}, "path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
	ok := Config{Backend: BackendPostgREST, URL: "https://x.supabase.co", Key: "k", Table: "notes"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if (&Config{Backend: BackendPostgREST, URL: "https://x.supabase.co"}).Configured() {
		t.Fatalf("missing key should not be configured")
	}
}

func TestBasePathExpandsHome(t *testing.T) {
	cfg := Config{Path: "~/.calnotes"}
	if strings.HasPrefix(cfg.BasePath(), "~") {
		t.Fatalf("expected ~ to be expanded, got %q", cfg.BasePath())
	}
}
