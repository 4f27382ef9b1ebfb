package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/yndnr/rentdash-go/internal/cli/output"
	"github.com/yndnr/rentdash-go/internal/core/domain"
	"github.com/yndnr/rentdash-go/internal/telemetry/logger"
)

// CLIConfig is the configuration for rentdash-cli.
type CLIConfig struct {
	Backend BackendConfig `koanf:"backend" yaml:"backend" json:"backend"`
	Output  OutputConfig  `koanf:"output" yaml:"output" json:"output"`
	Log     LogConfig     `koanf:"log" yaml:"log" json:"log"`
	Session SessionConfig `koanf:"session" yaml:"session" json:"session"`
}

// BackendConfig locates the dashboard API.
type BackendConfig struct {
	URL       string        `koanf:"url" yaml:"url" json:"url"`
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`
	RateLimit float64       `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// OutputConfig controls command output.
type OutputConfig struct {
	Format string `koanf:"format" yaml:"format" json:"format"`
	Wide   bool   `koanf:"wide" yaml:"wide" json:"wide"`
}

// LogConfig controls diagnostics on stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// SessionConfig controls session persistence.
type SessionConfig struct {
	Dir     string `koanf:"dir" yaml:"dir" json:"dir"`
	Persist bool   `koanf:"persist" yaml:"persist" json:"persist"`
}

// Default values.
const (
	DefaultBackendURL = "http://localhost:3000/api"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 10
)

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Backend: BackendConfig{
			URL:       DefaultBackendURL,
			Timeout:   DefaultTimeout,
			RateLimit: DefaultRateLimit,
		},
		Output: OutputConfig{Format: string(output.FormatTable)},
		Log:    LogConfig{Level: "warn", Format: "text"},
		Session: SessionConfig{
			Dir:     DefaultDir(),
			Persist: true,
		},
	}
}

// Flatten returns the configuration keyed by dotted path, with durations
// in their string form.
func (c *CLIConfig) Flatten() map[string]any {
	return map[string]any{
		"backend.url":        c.Backend.URL,
		"backend.timeout":    c.Backend.Timeout.String(),
		"backend.rate_limit": c.Backend.RateLimit,
		"output.format":      c.Output.Format,
		"output.wide":        c.Output.Wide,
		"log.level":          c.Log.Level,
		"log.format":         c.Log.Format,
		"session.dir":        c.Session.Dir,
		"session.persist":    c.Session.Persist,
	}
}

func defaultsMap() map[string]any {
	return Default().Flatten()
}

// Validate checks every field and reports the first problem.
func (c *CLIConfig) Validate() error {
	if c.Backend.URL == "" {
		return domain.ErrInvalidArgument.WithDetails("backend.url is required")
	}
	if c.Backend.Timeout <= 0 {
		return domain.ErrInvalidArgument.WithDetails("backend.timeout must be positive")
	}
	if c.Backend.RateLimit < 0 {
		return domain.ErrInvalidArgument.WithDetails("backend.rate_limit must not be negative")
	}
	if !output.IsValidFormat(c.Output.Format) {
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("output.format %q: want table, json or yaml", c.Output.Format))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return domain.ErrInvalidArgument.WithDetails("log.level: " + err.Error())
	}
	if !slices.Contains(logger.ValidFormats, c.Log.Format) {
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("log.format %q: want text or json", c.Log.Format))
	}
	if c.Session.Persist && c.Session.Dir == "" {
		return domain.ErrInvalidArgument.WithDetails("session.dir is required when session.persist is set")
	}
	return nil
}
