// Package cli provides the cmsbuild command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cmsbuild/internal/core/ports/driving"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

var version = "dev"

// Runtime provides the services behind one configuration.
type Runtime interface {
	Batch() (driving.BatchRunner, error)
	History() (driving.HistoryService, error)

	// WatchPaths lists files whose changes should trigger a rebuild.
	WatchPaths() []string

	Close() error
}

// RuntimeFactory opens a Runtime for a config file path.
// An empty path selects the default config lookup.
type RuntimeFactory func(configPath string) (Runtime, error)

var (
	factoryMu  sync.RWMutex
	newRuntime RuntimeFactory
)

// Global flags.
var (
	configPath string
	verbose    bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "cmsbuild",
	Short: "Incremental static builds of CMS content",
	Long: `cmsbuild pulls stories from a headless CMS, renders their markdown and
writes per-collection manifests and body files. Later runs rewrite only
what changed since the last manifest.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		if noColor {
			logger.SetColor(false)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./cmsbuild.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured log output")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetRuntimeFactory sets how commands open their services.
func SetRuntimeFactory(f RuntimeFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	newRuntime = f
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openRuntime opens the runtime for the --config flag.
func openRuntime() (Runtime, error) {
	factoryMu.RLock()
	f := newRuntime
	factoryMu.RUnlock()

	if f == nil {
		return nil, errors.New("runtime not configured")
	}
	rt, err := f(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return rt, nil
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
