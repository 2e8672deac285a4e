package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/wide-research/internal/aggregate"
	"github.com/hugo-lorenzo-mato/wide-research/internal/metadata"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Merge subtask reports into the aggregated document",
	Long: `Merge the per-subtask reports under outputs/ into a single
aggregated document with per-report status lines and roll-up
statistics. This is the intermediate artifact the final synthesis
is written from.

Examples:
  # Aggregate outputs/ into aggregated_raw.md
  widectl aggregate

  # Order failing reports last, write JSON
  widectl aggregate --sort status --format json -o aggregated.json`,
	RunE: runAggregate,
}

var (
	aggregateInput  string
	aggregateOutput string
	aggregateFormat string
	aggregateSort   string
	aggregateTask   string
)

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().StringVar(&aggregateInput, "input", "",
		"input directory (default: <work-dir>/outputs)")
	aggregateCmd.Flags().StringVarP(&aggregateOutput, "output", "o", "",
		"output path (default: <work-dir>/aggregated_raw.md)")
	aggregateCmd.Flags().StringVar(&aggregateFormat, "format", aggregate.FormatMarkdown,
		"output format (markdown, json)")
	aggregateCmd.Flags().StringVar(&aggregateSort, "sort", aggregate.SortName,
		"report order (name, time, status)")
	aggregateCmd.Flags().StringVar(&aggregateTask, "task", "",
		"task name for the document title (default: from metadata.json)")
}

func runAggregate(_ *cobra.Command, _ []string) error {
	ws := resolveWorkspace()
	log := newLogger()

	opts := aggregate.Options{
		InputDir:   aggregateInput,
		OutputPath: aggregateOutput,
		Format:     aggregateFormat,
		Sort:       aggregateSort,
		TaskName:   aggregateTask,
	}
	if opts.InputDir == "" {
		opts.InputDir = ws.OutputsDir()
	}
	if opts.OutputPath == "" {
		opts.OutputPath = ws.AggregatedPath()
	}
	if opts.TaskName == "" {
		if rec, err := metadata.NewStore(ws.MetadataPath()).Load(); err == nil {
			opts.TaskName = rec.StringAt(metadata.PathTaskName)
		}
	}

	result, err := aggregate.New(log).Run(opts)
	if err != nil {
		return err
	}

	fmt.Printf("Aggregated %d reports into %s", result.Reports, result.OutputPath)
	if result.Skipped > 0 {
		fmt.Printf(" (%d skipped)", result.Skipped)
	}
	fmt.Println()
	return nil
}
