// Package filesystem contains file-backed implementations of the
// persistence ports. Documents are read fully and rewritten fully via an
// atomic rename, so a crashed writer never leaves a truncated file;
// concurrent writers for the same issue remain last-writer-wins.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/secondary"
)

// StateRepository persists WorkflowState documents as one JSON file per
// issue under <baseDir>/state/.
type StateRepository struct {
	baseDir string
}

// NewStateRepository creates a repository rooted at baseDir.
func NewStateRepository(baseDir string) *StateRepository {
	return &StateRepository{baseDir: baseDir}
}

func (r *StateRepository) path(issueNumber int) string {
	return filepath.Join(r.baseDir, "state", fmt.Sprintf("issue-%d.json", issueNumber))
}

// Load reads the state document for an issue. A never-persisted issue
// returns (nil, nil).
func (r *StateRepository) Load(ctx context.Context, issueNumber int) (*models.WorkflowState, error) {
	data, err := os.ReadFile(r.path(issueNumber))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state models.WorkflowState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	return &state, nil
}

// Save writes the full state document atomically.
func (r *StateRepository) Save(ctx context.Context, state *models.WorkflowState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	return writeFileAtomic(r.path(state.IssueNumber), data)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Ensure StateRepository implements the interface
var _ secondary.StateRepository = (*StateRepository)(nil)
