package command

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdash-go/internal/cli/config"
	"github.com/yndnr/rentdash-go/internal/cli/repl"
	"github.com/yndnr/rentdash-go/internal/infra/confloader"
	"github.com/yndnr/rentdash-go/internal/telemetry/logger"
)

// historyFile is the shell history file name under the session dir.
const historyFile = "history"

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive session",
		Description: `Runs commands in a single process so the session is checked once and
kept for the whole session. Type "help" for built-ins, "<prefix>?" to list
matching commands, and "exit" to leave.`,
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if rt.inShell {
		return errors.New("already in a shell")
	}
	rt.inShell = true
	defer func() { rt.inShell = false }()

	// The shell works without a backend for config and system commands.
	if err := rt.hydrate(c.Context); err != nil {
		rt.log.Warn("session unavailable", "error", err)
	}

	cfg := rt.config()
	history := repl.NewHistory("", repl.DefaultHistorySize)
	if cfg.Session.Persist {
		history = repl.NewHistory(filepath.Join(cfg.Session.Dir, historyFile), repl.DefaultHistorySize)
		if err := history.Load(); err != nil {
			rt.log.Debug("failed to load shell history", "error", err)
		}
	}

	if stop := rt.watchConfig(); stop != nil {
		defer stop()
	}

	fmt.Fprintf(rt.out, "%s %s. Type \"help\" for help, \"exit\" to quit.\n", AppName, c.App.Version)

	app := c.App
	shell := repl.New(
		func(ctx context.Context, args []string) error {
			if len(args) > 0 && args[0] == "shell" {
				return errors.New("already in a shell")
			}
			return app.RunContext(ctx, append([]string{AppName}, args...))
		},
		repl.WithInput(rt.lines),
		repl.WithOutput(rt.out),
		repl.WithPrompt(rt.shellPrompt),
		repl.WithHistory(history),
	)

	runErr := shell.Run(c.Context)
	if cfg.Session.Persist {
		if err := history.Save(); err != nil {
			rt.log.Warn("failed to save shell history", "error", err)
		}
	}
	return runErr
}

// shellPrompt shows the signed-in user's name.
func (rt *Runtime) shellPrompt() string {
	if rt.gate != nil {
		if u := rt.gate.Snapshot().User; u != nil {
			return fmt.Sprintf("rentdash(%s)> ", u.Name)
		}
	}
	return "rentdash> "
}

// watchConfig reloads output and log settings when the config file
// changes. It returns the stop function, or nil if watching failed.
func (rt *Runtime) watchConfig() func() {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.log))
	if err != nil {
		rt.log.Debug("config watcher unavailable", "error", err)
		return nil
	}
	if err := w.Watch(rt.configPath); err != nil {
		_ = w.Stop()
		return nil
	}
	w.OnChange(rt.reloadConfig)
	w.StartAsync()
	return func() { _ = w.Stop() }
}

// reloadConfig applies a changed config file. Backend settings take effect
// in the next process; an invalid file is ignored.
func (rt *Runtime) reloadConfig(path string) {
	cfg, err := config.Load(path, rt.overrides)
	if err != nil {
		rt.log.Warn("config reload failed", "path", path, "error", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		rt.log.Warn("ignoring invalid config", "path", path, "error", err)
		return
	}

	rt.mu.Lock()
	rt.cfg = cfg
	rt.mu.Unlock()

	logger.SetLevel(cfg.Log.Level)
	rt.log.Info("config reloaded", "path", path)
}
