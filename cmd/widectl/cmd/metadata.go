package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
	"github.com/hugo-lorenzo-mato/wide-research/internal/metadata"
	"github.com/hugo-lorenzo-mato/wide-research/internal/report"
	"github.com/hugo-lorenzo-mato/wide-research/internal/workspace"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Inspect and update workspace metadata",
	Long: `Inspect and update metadata.json. Phase completion, subtask
statistics and arbitrary fields can be updated; all writes are
atomic.

Examples:
  # Mark phase3 complete (also stamps started_at on first use)
  widectl metadata --phase phase3

  # Recompute subtask statistics from outputs/
  widectl metadata --update-subtasks

  # Mark the whole run complete
  widectl metadata --complete

  # Set a field, then print the document as YAML
  widectl metadata --set task.name="AI 市场分析"
  widectl metadata --show -o yaml`,
	RunE: runMetadata,
}

var (
	metadataPhase          string
	metadataUpdateSubtasks bool
	metadataComplete       bool
	metadataSet            []string
	metadataShow           bool
	metadataOutput         string
)

func init() {
	rootCmd.AddCommand(metadataCmd)

	metadataCmd.Flags().StringVar(&metadataPhase, "phase", "",
		"mark a phase completed (phase0..phase5)")
	metadataCmd.Flags().BoolVar(&metadataUpdateSubtasks, "update-subtasks", false,
		"recompute subtask statistics from outputs/")
	metadataCmd.Flags().BoolVar(&metadataComplete, "complete", false,
		"mark the run completed")
	metadataCmd.Flags().StringArrayVar(&metadataSet, "set", nil,
		"set a field (path=value, repeatable)")
	metadataCmd.Flags().BoolVar(&metadataShow, "show", false,
		"print the metadata document")
	metadataCmd.Flags().StringVarP(&metadataOutput, "output", "o", "json",
		"output format for --show (json, yaml)")
}

func runMetadata(_ *cobra.Command, _ []string) error {
	ws := resolveWorkspace()
	store := metadata.NewStore(ws.MetadataPath())

	rec, err := store.Load()
	if err != nil {
		return err
	}

	dirty := false

	if metadataPhase != "" {
		phase, err := parsePhaseArg(metadataPhase)
		if err != nil {
			return err
		}
		if err := metadata.MarkPhase(rec, phase, time.Now()); err != nil {
			return err
		}
		dirty = true
	}

	if metadataUpdateSubtasks {
		if err := recomputeSubtasks(ws, rec); err != nil {
			return err
		}
		dirty = true
	}

	if metadataComplete {
		metadata.MarkComplete(rec, time.Now())
		dirty = true
	}

	for _, assignment := range metadataSet {
		path, value, err := metadata.ApplySet(rec, assignment)
		if err != nil {
			return err
		}
		fmt.Printf("set %s = %v\n", path, value)
		dirty = true
	}

	if dirty {
		if err := store.Save(rec); err != nil {
			return err
		}
	}

	if metadataShow {
		return printRecord(rec, metadataOutput)
	}
	if !dirty {
		return fmt.Errorf("nothing to do: pass --phase, --update-subtasks, --complete, --set or --show")
	}
	return nil
}

// parsePhaseArg resolves a phase name, suggesting the closest valid
// one on a typo.
func parsePhaseArg(s string) (core.Phase, error) {
	phase, err := core.ParsePhase(s)
	if err == nil {
		return phase, nil
	}

	phases := core.AllPhases()
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = string(p)
	}
	if matches := fuzzy.Find(s, names); len(matches) > 0 {
		return "", core.ErrValidation(core.CodeInvalidPhase,
			fmt.Sprintf("unknown phase %q (did you mean %q?)", s, matches[0].Str))
	}
	return "", err
}

// recomputeSubtasks scans outputs/ for every manifest entry and
// rewrites the subtask and statistics summaries in the record.
func recomputeSubtasks(ws *workspace.Workspace, rec metadata.Record) error {
	manifest, err := ws.LoadManifest()
	if err != nil {
		return err
	}

	var outputs []metadata.OutputStat
	for _, subtask := range manifest.Subtasks {
		content, err := ws.ReadOutput(subtask.ID)
		if err != nil {
			continue
		}
		outputs = append(outputs, metadata.OutputStat{
			Status:     report.ClassifyForStats(content),
			References: report.CountInlineReferences(content),
			Size:       report.Size(content),
		})
	}

	metadata.RecomputeSubtasks(rec, len(manifest.Subtasks), outputs)
	fmt.Printf("recomputed statistics for %d of %d subtasks\n", len(outputs), len(manifest.Subtasks))
	return nil
}

func printRecord(rec metadata.Record, format string) error {
	switch format {
	case "json":
		data, err := rec.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case "yaml":
		data, err := yaml.Marshal(map[string]any(rec))
		if err != nil {
			return fmt.Errorf("encoding metadata as YAML: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return core.ErrValidation(core.CodeInvalidField, fmt.Sprintf("unknown output format %q", format))
	}
}
