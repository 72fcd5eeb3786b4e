package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cmsbuild/internal/core/ports/driving"
	"github.com/custodia-labs/cmsbuild/internal/logger"
)

// watchDebounce collapses bursts of editor writes into one rebuild.
var watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <root> <dest>",
	Short: "Rebuild whenever the config or fixture file changes",
	Long: `Runs a build, then watches the config file and, for the fixture
source, the stories file. Each change reloads the config and rebuilds.
Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dest, err := ValidatePaths(args[0], args[1])
	if err != nil {
		return err
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer func() {
		if rt != nil {
			rt.Close()
		}
	}()

	targets := watchTargets(rt.WatchPaths())
	if len(targets) == 0 {
		return errors.New("nothing to watch: use a config file or the fixture source")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories so editors that replace files by rename are still seen.
	dirs := make(map[string]bool)
	for target := range targets {
		dir := filepath.Dir(target)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	ctx := cmd.Context()
	opts := driving.BatchOptions{Root: dest}
	if err := runBatch(ctx, cmd, rt, opts); err != nil {
		logger.Error("%v", err)
	}
	cmd.Println("Watching for changes...")

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isRelevant(event, targets) {
				logger.Debug("%s %s", event.Op, event.Name)
				debounce = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case <-debounce:
			debounce = nil
			rt = reopen(ctx, cmd, rt, opts)
		}
	}
}

// reopen reloads the runtime and rebuilds. A failed reload keeps no runtime;
// the next change tries again.
func reopen(ctx context.Context, cmd *cobra.Command, rt Runtime, opts driving.BatchOptions) Runtime {
	if rt != nil {
		rt.Close()
	}

	next, err := openRuntime()
	if err != nil {
		logger.Error("%v", err)
		return nil
	}
	if err := runBatch(ctx, cmd, next, opts); err != nil {
		logger.Error("%v", err)
	}
	return next
}

func watchTargets(paths []string) map[string]bool {
	targets := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			targets[abs] = true
		}
	}
	return targets
}

// isRelevant reports whether event changes one of the watched files.
func isRelevant(event fsnotify.Event, targets map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return targets[name]
}
