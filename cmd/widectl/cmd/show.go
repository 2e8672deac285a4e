package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
)

var showCmd = &cobra.Command{
	Use:   "show [final|aggregated|output <id>]",
	Short: "Render a workspace document in the terminal",
	Long: `Render the final report, the aggregated document or a single
subtask output as styled markdown.

Examples:
  widectl show final
  widectl show aggregated
  widectl show output subtask-3`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

var showRaw bool

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showRaw, "raw", false,
		"print the raw markdown without styling")
}

func runShow(_ *cobra.Command, args []string) error {
	ws := resolveWorkspace()

	var path string
	switch args[0] {
	case "final":
		path = ws.FinalReportPath()
	case "aggregated":
		path = ws.AggregatedPath()
	case "output":
		if len(args) < 2 {
			return core.ErrValidation(core.CodeInvalidField, "show output requires a subtask id")
		}
		path = ws.OutputPath(args[1])
	default:
		return core.ErrValidation(core.CodeInvalidField,
			fmt.Sprintf("unknown document %q, expected final, aggregated or output", args[0]))
	}

	content, err := ws.ReadDocument(path)
	if err != nil {
		return err
	}

	if showRaw || noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(content)
		return nil
	}

	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return fmt.Errorf("rendering document: %w", err)
	}
	fmt.Print(rendered)
	return nil
}
