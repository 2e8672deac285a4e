package metadata

import (
	"os"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
)

// Store persists the metadata record at a fixed path. Writes are
// atomic so a crashed updater never leaves a torn metadata.json for
// the workflow driver to trip over.
type Store struct {
	path string
}

// NewStore creates a store for the given metadata.json path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the metadata file path.
func (s *Store) Path() string {
	return s.path
}

// Exists checks if the metadata file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and parses the metadata record.
func (s *Store) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound(core.CodeMissingMetadata, "metadata.json not found").WithCause(err)
		}
		return nil, core.ErrParse(core.CodeParseFailed, "reading metadata.json").WithCause(err)
	}

	rec, err := Parse(data)
	if err != nil {
		return nil, core.ErrParse(core.CodeParseFailed, "parsing metadata.json").WithCause(err)
	}
	return rec, nil
}

// Save writes the record back atomically.
func (s *Store) Save(rec Record) error {
	data, err := rec.Marshal()
	if err != nil {
		return core.ErrParse(core.CodeParseFailed, "marshaling metadata.json").WithCause(err)
	}
	return atomicWriteFile(s.path, data, 0o644)
}
