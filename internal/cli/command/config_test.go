package command

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

func TestConfigShow(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("config", "show")
	require.Contains(t, out, "backend.url")
	require.Contains(t, out, env.url)
	require.Contains(t, out, "(not found, using defaults)")
}

func TestConfigShow_FlagOverrides(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("--timeout", "5s", "--no-session", "-o", "json", "config", "show")
	var flat map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &flat))
	require.Equal(t, "5s", flat["backend.timeout"])
	require.Equal(t, "json", flat["output.format"])
	require.Equal(t, false, flat["session.persist"])
	require.Equal(t, env.dir, flat["session.dir"])
}

func TestConfigInit(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("config", "init")
	require.Contains(t, out, "Wrote "+env.configPath())

	info, err := os.Stat(env.configPath())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, _, err = env.run("", "config", "init")
	require.True(t, errors.Is(err, domain.ErrInvalidArgument), "got %v", err)
	require.Contains(t, err.Error(), "--force")

	env.mustRun("config", "init", "--force")

	out = env.mustRun("config", "validate")
	require.Contains(t, out, "Configuration is valid")
}

func TestConfigValidate_File(t *testing.T) {
	env := newCLIEnv(t)
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output:\n  format: xml\n"), 0o600))

	_, _, err := env.run("", "config", "validate", "--file", bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "output.format")

	_, _, err = env.run("", "config", "validate", "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, errors.Is(err, domain.ErrInvalidArgument), "got %v", err)
}

func TestInvalidConfig_BlocksBackendCommands(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.WriteFile(env.configPath(), []byte("log:\n  level: loud\n"), 0o600))

	_, _, err := env.run("", "whoami")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration in "+env.configPath())

	// Local commands still run.
	out := env.mustRun("config", "show")
	require.Contains(t, out, "loud")
}
