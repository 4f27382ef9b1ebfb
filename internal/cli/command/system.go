package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdash-go/internal/infra/buildinfo"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:  "system",
		Usage: "Build and runtime information",
		Subcommands: []*cli.Command{
			{
				Name:   "version",
				Usage:  "Show build information",
				Action: systemVersion,
			},
			{
				Name:   "metrics",
				Usage:  "Dump client metrics in Prometheus text format",
				Action: systemMetrics,
			},
		},
	}
}

func systemVersion(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	return rt.print(c, buildinfo.Get())
}

func systemMetrics(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	return rt.metrics.WriteText(rt.out)
}
