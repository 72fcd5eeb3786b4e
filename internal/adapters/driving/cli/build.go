package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driving"
)

var (
	buildDryRun bool
	buildOnly   []string
)

var buildCmd = &cobra.Command{
	Use:   "build <root> <dest>",
	Short: "Build every configured collection into dest",
	Long: `Fetches every configured collection and standalone page, diffs them
against the manifests under dest and writes only what changed.
The dest directory must be root itself or nested under it.`,
	Args: cobra.ExactArgs(2),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildDryRun, "dry-run", "n", false, "report changes without writing anything")
	buildCmd.Flags().StringSliceVar(&buildOnly, "only", nil, "build only these collection or page keys")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	dest, err := ValidatePaths(args[0], args[1])
	if err != nil {
		return err
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	return runBatch(cmd.Context(), cmd, rt, driving.BatchOptions{
		Root:   dest,
		Only:   buildOnly,
		DryRun: buildDryRun,
	})
}

// runBatch runs one batch and prints its report.
func runBatch(ctx context.Context, cmd *cobra.Command, rt Runtime, opts driving.BatchOptions) error {
	batch, err := rt.Batch()
	if err != nil {
		return err
	}

	if opts.DryRun {
		cmd.Println("Dry run: nothing will be written.")
	}
	cmd.Printf("Building into %s...\n", opts.Root)

	report, err := batch.Run(ctx, opts)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *domain.BatchReport) {
	for _, run := range report.Runs {
		cmd.Printf("  %-10s %s\n", run.CollectionKey, describeRun(run))
	}
	if failed := len(report.Failed()); failed > 0 {
		cmd.Printf("%d of %d builds failed.\n", failed, len(report.Runs))
	}
}

func describeRun(run domain.BuildRun) string {
	switch {
	case !run.Succeeded():
		return "failed: " + run.Error
	case run.Bootstrapped:
		return fmt.Sprintf("created (%d entries, %s)", run.Added, run.Duration.Round(time.Millisecond))
	case run.Updated:
		return fmt.Sprintf("updated (+%d ~%d -%d, %s)",
			run.Added, run.Changed, run.Deleted, run.Duration.Round(time.Millisecond))
	default:
		return "unchanged"
	}
}

// ValidatePaths checks that root exists and dest is root or lies under it.
// It returns the absolute dest path.
func ValidatePaths(root, dest string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrInvalidPath, root, err)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrInvalidPath, dest, err)
	}

	info, err := os.Stat(rootAbs)
	if err != nil {
		return "", fmt.Errorf("%w: path %q does not exist", domain.ErrInvalidPath, rootAbs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: path %q is not a directory", domain.ErrInvalidPath, rootAbs)
	}

	rel, err := filepath.Rel(rootAbs, destAbs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: root path does not contain destination path\nRoot: %q\nDest: %q",
			domain.ErrInvalidPath, rootAbs, destAbs)
	}
	return destAbs, nil
}
