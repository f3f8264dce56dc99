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

// LedgerRepository persists the phase runner's completed-phase sidecar as
// one JSON file per issue under <baseDir>/runner/.
type LedgerRepository struct {
	baseDir string
}

// NewLedgerRepository creates a repository rooted at baseDir.
func NewLedgerRepository(baseDir string) *LedgerRepository {
	return &LedgerRepository{baseDir: baseDir}
}

func (r *LedgerRepository) path(issueNumber int) string {
	return filepath.Join(r.baseDir, "runner", fmt.Sprintf("issue-%d.json", issueNumber))
}

// Load reads the ledger, returning an empty one when none is persisted.
func (r *LedgerRepository) Load(ctx context.Context, issueNumber int) (*models.Ledger, error) {
	data, err := os.ReadFile(r.path(issueNumber))
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewLedger(issueNumber), nil
		}
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var ledger models.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file: %w", err)
	}
	return &ledger, nil
}

// Save writes the full ledger atomically.
func (r *LedgerRepository) Save(ctx context.Context, ledger *models.Ledger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	return writeFileAtomic(r.path(ledger.IssueNumber), data)
}

// Delete removes the ledger file; an absent file is not an error.
func (r *LedgerRepository) Delete(ctx context.Context, issueNumber int) error {
	if err := os.Remove(r.path(issueNumber)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove ledger file: %w", err)
	}
	return nil
}

// Ensure LedgerRepository implements the interface
var _ secondary.LedgerRepository = (*LedgerRepository)(nil)
