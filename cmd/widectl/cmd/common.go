package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/wide-research/internal/logging"
	"github.com/hugo-lorenzo-mato/wide-research/internal/workspace"
)

// newLogger builds the logger from the global flags.
func newLogger() *logging.Logger {
	return logging.New(logging.Config{
		Level:  logLevel,
		Format: logFormat,
		Output: os.Stderr,
	})
}

// resolveWorkspace returns the workspace named by --work-dir, with
// the config file value as fallback.
func resolveWorkspace() *workspace.Workspace {
	dir := workDir
	if dir == "." || dir == "" {
		if configured := viper.GetString("work_dir"); configured != "" {
			dir = configured
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return workspace.New(abs)
}

// historyPath returns the configured history database path, or the
// default under the workspace control directory.
func historyPath(ws *workspace.Workspace) string {
	if p := viper.GetString("history.path"); p != "" {
		return p
	}
	return filepath.Join(ws.Dir(), ".wideresearch", "history.db")
}

// historyEnabled reports whether check runs should be recorded.
func historyEnabled() bool {
	if !viper.IsSet("history.enabled") {
		return true
	}
	return viper.GetBool("history.enabled")
}
