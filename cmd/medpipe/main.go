// Command medpipe processes PDF medical documents into redacted,
// annotated chunk records and uploads them into a search index.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/adapters/driving/cli"
)

// version is overridden at build time via
// -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
