// Package main provides the entry point for rentdash-cli.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yndnr/rentdash-go/internal/cli/command"
	"github.com/yndnr/rentdash-go/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	if err := command.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
