package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdash-go/internal/cli/config"
	"github.com/yndnr/rentdash-go/internal/core/domain"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and manage the CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "File to validate (default: the active config file)",
					},
				},
				Action: configValidate,
			},
			{
				Name:  "init",
				Usage: "Write a default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	if err := rt.print(c, rt.config().Flatten()); err != nil {
		return err
	}

	source := rt.configPath
	if _, err := os.Stat(source); err != nil {
		source += " (not found, using defaults)"
	}
	rt.say(c, "\nSource: %s", source)
	return nil
}

func configValidate(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	path := rt.configPath
	cfg := rt.config()
	if c.IsSet("file") {
		path = config.ExpandHome(c.String("file"))
		if _, err := os.Stat(path); err != nil {
			return domain.ErrInvalidArgument.WithDetails("cannot read " + path).WithCause(err)
		}
		if cfg, err = config.Load(path, nil); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	rt.say(c, "Configuration is valid: %s", path)
	return nil
}

func configInit(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	path := rt.configPath
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return domain.ErrInvalidArgument.WithDetails(path + " already exists; use --force to overwrite")
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := config.Save(config.Default(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	rt.say(c, "Wrote %s", path)
	return nil
}
