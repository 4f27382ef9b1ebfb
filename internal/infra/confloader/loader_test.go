package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Backend struct {
		URL       string        `koanf:"url"`
		Timeout   time.Duration `koanf:"timeout"`
		RateLimit int           `koanf:"rate_limit"`
	} `koanf:"backend"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func testDefaults() map[string]any {
	return map[string]any{
		"backend.url":        "http://localhost:3000/api",
		"backend.timeout":    "30s",
		"backend.rate_limit": 10,
		"log.level":          "warn",
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/etc/rentdash/cli.yaml"))
	if l.envPrefix != "TEST_" || l.FilePath() != "/etc/rentdash/cli.yaml" {
		t.Errorf("options not applied: %q %q", l.envPrefix, l.FilePath())
	}
}

func TestLoader_Defaults(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithEnvPrefix("RDTEST_DEFAULTS_"), WithDefaults(testDefaults()))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.URL != "http://localhost:3000/api" {
		t.Errorf("URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.Backend.RateLimit != 10 {
		t.Errorf("RateLimit = %d", cfg.Backend.RateLimit)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() = false after Load")
	}
}

func TestLoader_Priority(t *testing.T) {
	path := writeConfig(t, "backend:\n  url: http://file:4000/api\n  rate_limit: 5\nlog:\n  level: info\n")
	t.Setenv("RDTEST_PRIO_BACKEND_RATE_LIMIT", "20")

	var cfg testConfig
	l := NewLoader(
		WithEnvPrefix("RDTEST_PRIO_"),
		WithDefaults(testDefaults()),
		WithConfigFile(path),
	)
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.URL != "http://file:4000/api" {
		t.Errorf("file should override defaults: URL = %q", cfg.Backend.URL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if l.String("backend.rate_limit") != "20" {
		t.Errorf("env should override file: rate_limit = %q", l.String("backend.rate_limit"))
	}

	if err := l.LoadMap(map[string]any{"log.level": "debug"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("map should override env and file: Level = %q", cfg.Log.Level)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	var cfg testConfig
	if err := NewLoader(WithConfigFile(missing)).Load(&cfg); err == nil {
		t.Error("Load() should fail for a required missing file")
	}
	if err := NewLoader(WithConfigFile(missing), WithOptionalFile()).Load(&cfg); err != nil {
		t.Errorf("Load() with optional file error = %v", err)
	}
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "backend: [unclosed\n")
	if err := NewLoader().LoadFile(path); err == nil {
		t.Error("LoadFile() should fail on invalid YAML")
	}
}

func TestLoader_HasAndKeys(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"output.format": "json"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if !l.Has("output.format") || l.Has("output.wide") {
		t.Error("Has() reports wrong keys")
	}
	if len(l.Keys()) != 1 || l.All()["output.format"] != "json" {
		t.Errorf("Keys() = %v, All() = %v", l.Keys(), l.All())
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"RENTDASH_BACKEND_URL":        "backend.url",
		"RENTDASH_BACKEND_RATE_LIMIT": "backend.rate_limit",
		"RENTDASH_SESSION_DIR":        "session.dir",
	}
	for in, want := range tests {
		if got := EnvKey(DefaultEnvPrefix, in); got != want {
			t.Errorf("EnvKey(%q) = %q, want %q", in, got, want)
		}
	}
}
