package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/taskwave/pkg/analysis"
	"github.com/matzehuels/taskwave/pkg/cache"
	apperr "github.com/matzehuels/taskwave/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	want := &Config{
		ConflictPenalty: analysis.DefaultConflictPenalty,
		CacheCapacity:   analysis.DefaultCacheCapacity,
		Store: StoreConfig{
			Backend: cache.BackendFile,
			Dir:     filepath.Join(cacheHome, appName),
			TTL:     cache.TTLReport,
		},
		Server: ServerConfig{Addr: defaultServerAddr},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
conflict_penalty = -1
cache_capacity = 16

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"
ttl = "48h"

[server]
addr = "127.0.0.1:9000"
shutdown_timeout = "5s"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	want := &Config{
		ConflictPenalty: -1,
		CacheCapacity:   16,
		Store: StoreConfig{
			Backend:       cache.BackendMongo,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
			TTL:           48 * time.Hour,
		},
		Server: ServerConfig{Addr: "127.0.0.1:9000", ShutdownTimeout: 5 * time.Second},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode apperr.Code
	}{
		{"unknown key", `conflict_penalti = 3`, apperr.ErrCodeInvalidConfig},
		{"syntax error", `conflict_penalty = `, apperr.ErrCodeInvalidConfig},
		{"unknown backend", "[store]\nbackend = \"s3\"", apperr.ErrCodeInvalidConfig},
		{"redis without addr", "[store]\nbackend = \"redis\"", apperr.ErrCodeInvalidConfig},
		{"mongo without uri", "[store]\nbackend = \"mongo\"", apperr.ErrCodeInvalidConfig},
		{"negative capacity", `cache_capacity = -4`, apperr.ErrCodeInvalidConfig},
		{"negative ttl", "[store]\nttl = \"-1h\"", apperr.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperr.Is(err, tt.wantCode) {
				t.Errorf("error %v does not carry code %s", err, tt.wantCode)
			}
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Errorf("loadConfig(absent) = %v, want %s", err, apperr.ErrCodeFileNotFound)
	}
}

func TestConfigKeyer(t *testing.T) {
	var nilCfg *Config
	base := nilCfg.keyer().ReportKey("abc", cache.ReportKeyOpts{})

	cfg := &Config{}
	cfg.SetDefaults()
	if got := cfg.keyer().ReportKey("abc", cache.ReportKeyOpts{}); got != base {
		t.Errorf("unprefixed key = %q, want %q", got, base)
	}

	cfg.Store.Prefix = "staging:"
	if got := cfg.keyer().ReportKey("abc", cache.ReportKeyOpts{}); got != "staging:"+base {
		t.Errorf("prefixed key = %q, want %q", got, "staging:"+base)
	}
}
