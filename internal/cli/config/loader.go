package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/rentdash-go/internal/infra/confloader"
)

// DirName is the per-user state directory under $HOME.
const DirName = ".rentdash"

// DefaultDir returns ~/.rentdash, or .rentdash when $HOME is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "cli.yaml")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Load merges defaults, the config file at path, RENTDASH_* variables and
// overrides, in increasing priority. A missing file is not an error.
// overrides is keyed by dotted path, e.g. "output.format".
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	l := confloader.NewLoader(
		confloader.WithDefaults(defaultsMap()),
		confloader.WithConfigFile(ExpandHome(path)),
		confloader.WithOptionalFile(),
	)

	cfg := &CLIConfig{}
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := l.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	cfg.Session.Dir = ExpandHome(cfg.Session.Dir)
	return cfg, nil
}

// Save writes cfg as YAML with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	path = ExpandHome(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Marshal encodes cfg as YAML. Durations are written in their string form.
func Marshal(cfg *CLIConfig) ([]byte, error) {
	type backend struct {
		URL       string  `yaml:"url"`
		Timeout   string  `yaml:"timeout"`
		RateLimit float64 `yaml:"rate_limit"`
	}
	doc := struct {
		Backend backend       `yaml:"backend"`
		Output  OutputConfig  `yaml:"output"`
		Log     LogConfig     `yaml:"log"`
		Session SessionConfig `yaml:"session"`
	}{
		Backend: backend{
			URL:       cfg.Backend.URL,
			Timeout:   cfg.Backend.Timeout.String(),
			RateLimit: cfg.Backend.RateLimit,
		},
		Output:  cfg.Output,
		Log:     cfg.Log,
		Session: cfg.Session,
	}
	return yaml.Marshal(doc)
}
