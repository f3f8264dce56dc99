// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application
// drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/example/warden/internal/models"
)

// StateRepository persists one WorkflowState document per issue. Documents
// are read fully and rewritten fully on save; there is no locking, so
// concurrent writers for the same issue number are last-writer-wins.
type StateRepository interface {
	// Load retrieves the state for an issue. A never-persisted issue
	// returns (nil, nil); the caller initializes a fresh document.
	Load(ctx context.Context, issueNumber int) (*models.WorkflowState, error)

	// Save persists the full state document.
	Save(ctx context.Context, state *models.WorkflowState) error
}

// LedgerRepository persists the phase runner's completed-phase sidecar.
type LedgerRepository interface {
	// Load retrieves the ledger for an issue, returning an empty ledger
	// when none has been persisted.
	Load(ctx context.Context, issueNumber int) (*models.Ledger, error)

	// Save persists the full ledger.
	Save(ctx context.Context, ledger *models.Ledger) error

	// Delete removes the ledger file. Deleting an absent ledger is not an
	// error.
	Delete(ctx context.Context, issueNumber int) error
}

// TransitionRecord is one audit entry for a phase status transition.
type TransitionRecord struct {
	IssueNumber int
	Phase       models.Phase
	FromStatus  models.PhaseStatus
	ToStatus    models.PhaseStatus
	AgentType   string
	Reason      string
	RecordedAt  time.Time
}

// TransitionLog appends audit records for successful phase transitions.
// The log is advisory: recording failures never block a transition.
type TransitionLog interface {
	Record(ctx context.Context, record *TransitionRecord) error
}
