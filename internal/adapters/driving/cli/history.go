package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
)

// defaultHistoryLimit matches the history service default.
const defaultHistoryLimit = 20

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [collection]",
	Short: "Show recent builds",
	Long: `Lists recorded collection and page builds, newest first.
If a collection key is provided, only that collection's builds are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", defaultHistoryLimit, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	history, err := rt.History()
	if err != nil {
		return err
	}

	var key string
	if len(args) > 0 {
		key = args[0]
	}

	runs, err := history.List(cmd.Context(), key, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No builds recorded.")
		return nil
	}

	cmd.Println(historyTable(runs))
	return nil
}

func historyTable(runs []domain.BuildRun) string {
	headers := []string{"Started", "Collection", "Result", "Added", "Changed", "Deleted", "Duration"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.CollectionKey,
			runResult(run),
			strconv.Itoa(run.Added),
			strconv.Itoa(run.Changed),
			strconv.Itoa(run.Deleted),
			run.Duration.Round(time.Millisecond).String(),
		})
	}
	return renderTable(headers, rows, aligns)
}

func runResult(run domain.BuildRun) string {
	switch {
	case !run.Succeeded():
		return "failed"
	case run.Bootstrapped:
		return "created"
	case run.Updated:
		return "updated"
	default:
		return "unchanged"
	}
}
