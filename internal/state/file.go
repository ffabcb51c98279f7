package state

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
)

// FileBackend stores the state document as a JSON file. Writes go through
// a temp file and a rename so a crash mid-write cannot corrupt the
// previous state.
type FileBackend struct {
	path   string
	logger *slog.Logger
}

// NewFileBackend creates a backend persisting to path.
func NewFileBackend(path string, logger *slog.Logger) *FileBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileBackend{path: path, logger: logger}
}

// Load reads the state file. A missing file is an empty state; a corrupt
// file is logged and also treated as empty rather than blocking future
// deployments.
func (b *FileBackend) Load(_ context.Context) (*State, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, apperrors.ErrState("failed to read state file "+b.path, err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		b.logger.Warn("state file is corrupt, starting fresh", "path", b.path, "error", err)
		return NewState(), nil
	}
	if st.Version == "" {
		st.Version = NewState().Version
	}
	return &st, nil
}

// Save writes the state atomically.
func (b *FileBackend) Save(_ context.Context, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return apperrors.ErrState("failed to encode state", err)
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, ".lakedeploy-state-*.tmp")
	if err != nil {
		return apperrors.ErrState("failed to create temporary state file in "+dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.ErrState("failed to write state file", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.ErrState("failed to close state file", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return apperrors.ErrState("failed to replace state file "+b.path, err)
	}
	return nil
}
