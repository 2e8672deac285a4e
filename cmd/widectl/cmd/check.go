package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/wide-research/internal/checker"
	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
	"github.com/hugo-lorenzo-mato/wide-research/internal/history"
	"github.com/hugo-lorenzo-mato/wide-research/internal/logging"
	"github.com/hugo-lorenzo-mato/wide-research/internal/workspace"
)

// errChecksFailed signals a failing verdict without an extra error
// message: the report itself is the message.
var errChecksFailed = errors.New("checks failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run coverage and quality checks on the workspace",
	Long: `Run the full check sequence: subtask coverage, reference format,
timestamp annotations, final report structure and metadata
completeness. The exit code is 0 for a pass (with or without
warnings) and 1 when any issue is found.

Examples:
  # Check the current directory
  widectl check

  # Check a specific workspace, machine-readable output
  widectl check -w ./research-run --json

  # Re-run checks whenever the workspace changes
  widectl check --watch`,
	RunE: runCheck,
}

var (
	checkJSON  bool
	checkWatch bool
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false,
		"emit the report as JSON")
	checkCmd.Flags().BoolVar(&checkWatch, "watch", false,
		"watch the workspace and re-run checks on changes")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ws := resolveWorkspace()
	log := newLogger()

	if !ws.Exists() {
		return core.ErrNotFound(core.CodeMissingWorkspace, "workspace not found: "+ws.Dir())
	}

	if checkWatch {
		return watchAndCheck(cmd.Context(), ws, log)
	}

	rep, err := runAndRecord(cmd.Context(), ws, log)
	if err != nil {
		return err
	}
	if rep.Verdict == core.VerdictFail {
		return errChecksFailed
	}
	return nil
}

// runAndRecord runs one check, renders the report and records it in
// the history store when enabled.
func runAndRecord(ctx context.Context, ws *workspace.Workspace, log *logging.Logger) (*checker.Report, error) {
	rep := checker.New(ws, checker.WithLogger(log)).Run()

	if historyEnabled() {
		if err := recordRun(ctx, ws, rep); err != nil {
			log.Warn("failed to record check run", "error", err)
		}
	}

	if checkJSON {
		if err := rep.WriteJSON(os.Stdout); err != nil {
			return nil, err
		}
	} else {
		rep.WriteText(os.Stdout)
	}
	return rep, nil
}

func recordRun(ctx context.Context, ws *workspace.Workspace, rep *checker.Report) error {
	store, err := history.Open(historyPath(ws))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return store.Record(ctx, history.Entry{
		RunID:     rep.RunID,
		Workspace: rep.Workspace,
		StartedAt: rep.StartedAt,
		Verdict:   rep.Verdict,
		Issues:    len(rep.Issues()),
		Warnings:  len(rep.Warnings()),
		Stats:     rep.Stats,
	})
}

// watchAndCheck re-runs the checks whenever a workspace file changes,
// debounced so a burst of writes triggers a single run. It blocks
// until interrupted.
func watchAndCheck(ctx context.Context, ws *workspace.Workspace, log *logging.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(ws.Dir()); err != nil {
		return fmt.Errorf("watching %s: %w", ws.Dir(), err)
	}
	// outputs/ may not exist yet, watch it when it does.
	if _, statErr := os.Stat(ws.OutputsDir()); statErr == nil {
		if err := watcher.Add(ws.OutputsDir()); err != nil {
			return fmt.Errorf("watching %s: %w", ws.OutputsDir(), err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := runAndRecord(ctx, ws, log); err != nil {
		return err
	}
	log.Info("watching workspace", "dir", ws.Dir())

	const debounce = 500 * time.Millisecond
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			// A freshly created outputs/ directory joins the watch.
			if event.Has(fsnotify.Create) && filepath.Clean(event.Name) == filepath.Clean(ws.OutputsDir()) {
				if err := watcher.Add(ws.OutputsDir()); err != nil {
					log.Warn("failed to watch outputs directory", "error", err)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				pending = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-pending:
			timer = nil
			pending = nil
			if _, err := runAndRecord(ctx, ws, log); err != nil {
				log.Error("check run failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}
