package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/wide-research/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent check runs",
	Long: `List check runs recorded in the workspace history database,
newest first.`,
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20,
		"maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ws := resolveWorkspace()

	store, err := history.Open(historyPath(ws))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No recorded check runs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tVERDICT\tISSUES\tWARNINGS\tSUBTASKS\tRUN ID")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d/%d\t%s\n",
			e.StartedAt.Local().Format(time.DateTime),
			e.Verdict,
			e.Issues,
			e.Warnings,
			e.Stats.CompletedSubtasks,
			e.Stats.TotalSubtasks,
			e.RunID,
		)
	}
	return w.Flush()
}
