// Command cmsbuild builds static CMS content incrementally.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/cmsbuild/internal/adapters/driving/cli"
	"github.com/custodia-labs/cmsbuild/internal/app"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetRuntimeFactory(func(configPath string) (cli.Runtime, error) {
		a, err := app.Open(configPath, logger.Default())
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
