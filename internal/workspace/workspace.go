// Package workspace models the on-disk layout of one wide-research
// run: the subtask manifest, the per-subtask outputs directory, the
// aggregated document, the final report, and the metadata record.
package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
	"github.com/hugo-lorenzo-mato/wide-research/internal/fsutil"
)

// Well-known file names inside a workspace.
const (
	ManifestFile   = "subtasks.json"
	OutputsDirName = "outputs"
	AggregatedFile = "aggregated_raw.md"
	FinalReport    = "final_report.md"
	MetadataFile   = "metadata.json"
)

// Workspace is an immutable handle on a workspace directory. It only
// derives paths and reads; mutation belongs to the metadata updater
// and the aggregator.
type Workspace struct {
	dir string
}

// New creates a workspace handle for the given directory.
func New(dir string) *Workspace {
	return &Workspace{dir: dir}
}

// Dir returns the workspace root directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Exists checks if the workspace directory is present.
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.dir)
	return err == nil && info.IsDir()
}

// ManifestPath returns the subtask manifest path.
func (w *Workspace) ManifestPath() string {
	return filepath.Join(w.dir, ManifestFile)
}

// OutputsDir returns the subtask outputs directory.
func (w *Workspace) OutputsDir() string {
	return filepath.Join(w.dir, OutputsDirName)
}

// OutputPath returns the expected output file for a subtask.
func (w *Workspace) OutputPath(id string) string {
	return filepath.Join(w.OutputsDir(), id+".md")
}

// AggregatedPath returns the aggregated document path.
func (w *Workspace) AggregatedPath() string {
	return filepath.Join(w.dir, AggregatedFile)
}

// FinalReportPath returns the final report path.
func (w *Workspace) FinalReportPath() string {
	return filepath.Join(w.dir, FinalReport)
}

// MetadataPath returns the metadata record path.
func (w *Workspace) MetadataPath() string {
	return filepath.Join(w.dir, MetadataFile)
}

// Subtask is one manifest entry. Extra manifest fields are ignored.
type Subtask struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// Manifest is the parsed subtask manifest.
type Manifest struct {
	Subtasks []Subtask `json:"subtasks"`
}

// LoadManifest reads and parses subtasks.json.
func (w *Workspace) LoadManifest() (*Manifest, error) {
	data, err := fsutil.ReadFileScoped(w.ManifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound(core.CodeMissingManifest, "subtasks.json not found").WithCause(err)
		}
		return nil, core.ErrParse(core.CodeParseFailed, "reading subtasks.json").WithCause(err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, core.ErrParse(core.CodeParseFailed, "parsing subtasks.json").WithCause(err)
	}
	return &manifest, nil
}

// ReadOutput reads one subtask's output file. Missing files yield a
// not-found domain error so callers can tell absence from unreadability.
func (w *Workspace) ReadOutput(id string) (string, error) {
	content, err := fsutil.ReadTextScoped(w.OutputPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", core.ErrNotFound(core.CodeMissingOutput, "output not found: "+id).WithCause(err)
		}
		return "", core.ErrParse(core.CodeParseFailed, "reading output: "+id).WithCause(err)
	}
	return content, nil
}

// ReadDocument reads a shared workspace document (the aggregated
// document or the final report) by its path.
func (w *Workspace) ReadDocument(path string) (string, error) {
	content, err := fsutil.ReadTextScoped(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", core.ErrNotFound(core.CodeMissingDocument,
				"document not found: "+filepath.Base(path)).WithCause(err)
		}
		return "", core.ErrParse(core.CodeParseFailed,
			"reading document: "+filepath.Base(path)).WithCause(err)
	}
	return content, nil
}
