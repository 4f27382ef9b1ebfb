package command

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdash-go/internal/infra/buildinfo"
)

// AppName is the binary name.
const AppName = "rentdash-cli"

const metaRuntime = "runtime"

// PasswordReader reads a secret without echoing it.
type PasswordReader func(prompt string) (string, error)

type settings struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	password PasswordReader
	now      func() time.Time
}

// AppOption configures the app.
type AppOption func(*settings)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) AppOption {
	return func(s *settings) {
		s.in, s.out, s.errOut = in, out, errOut
	}
}

// WithPasswordReader replaces the terminal password prompt.
func WithPasswordReader(fn PasswordReader) AppOption {
	return func(s *settings) { s.password = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AppOption {
	return func(s *settings) { s.now = now }
}

// App creates the CLI application.
func App(opts ...AppOption) *cli.App {
	s := &settings{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return &cli.App{
		Name:      AppName,
		Usage:     "Vehicle rental dashboard for the terminal",
		Version:   buildinfo.String(),
		Reader:    s.in,
		Writer:    s.out,
		ErrWriter: s.errOut,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			RegisterCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			DashboardCommand(),
			UsersCommand(),
			CarsCommand(),
			RentalCommand(),
			ConfigCommand(),
			SystemCommand(),
			ShellCommand(),
		},
		Metadata: map[string]any{},
		Before: func(c *cli.Context) error {
			return setupRuntime(c, s)
		},
		After: func(c *cli.Context) error {
			if rt := runtimeOf(c.App); rt != nil {
				rt.flush(c.Context)
			}
			return nil
		},
		// Errors are printed by the caller; never exit from inside the app.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// Run runs the app with args (args[0] is the program name) and releases
// the runtime afterwards.
func Run(ctx context.Context, args []string, opts ...AppOption) error {
	app := App(opts...)
	err := app.RunContext(ctx, args)
	if rt := runtimeOf(app); rt != nil {
		if cerr := rt.Close(ctx); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (default ~/.rentdash/cli.yaml)",
			EnvVars: []string{"RENTDASH_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "backend",
			Aliases: []string{"b"},
			Usage:   "Backend API root, e.g. http://localhost:3000/api",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "session-dir",
			Usage: "Directory for the session jar and shell history",
		},
		&cli.BoolFlag{
			Name:  "no-session",
			Usage: "Do not keep the session between invocations",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// flagOverrides maps the global flags that were set to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	if c.IsSet("backend") {
		out["backend.url"] = c.String("backend")
	}
	if c.IsSet("timeout") {
		out["backend.timeout"] = c.Duration("timeout").String()
	}
	if c.IsSet("output") {
		out["output.format"] = c.String("output")
	}
	if c.IsSet("wide") {
		out["output.wide"] = c.Bool("wide")
	}
	if c.IsSet("session-dir") {
		out["session.dir"] = c.String("session-dir")
	}
	if c.Bool("no-session") {
		out["session.persist"] = false
	}
	if c.Bool("verbose") {
		out["log.level"] = "debug"
	}
	return out
}
