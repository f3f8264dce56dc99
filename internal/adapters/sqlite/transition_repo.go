// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/warden/internal/ports/secondary"
)

// TransitionLogRepository implements secondary.TransitionLog with SQLite.
type TransitionLogRepository struct {
	db *sql.DB
}

// NewTransitionLogRepository creates a new SQLite transition log.
func NewTransitionLogRepository(db *sql.DB) *TransitionLogRepository {
	return &TransitionLogRepository{db: db}
}

// Record appends one transition audit entry.
func (r *TransitionLogRepository) Record(ctx context.Context, record *secondary.TransitionRecord) error {
	var agentType, reason sql.NullString
	if record.AgentType != "" {
		agentType = sql.NullString{String: record.AgentType, Valid: true}
	}
	if record.Reason != "" {
		reason = sql.NullString{String: record.Reason, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transitions (issue_number, phase, from_status, to_status, agent_type, reason, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.IssueNumber,
		string(record.Phase),
		string(record.FromStatus),
		string(record.ToStatus),
		agentType,
		reason,
		record.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record transition: %w", err)
	}
	return nil
}

// Ensure TransitionLogRepository implements the interface
var _ secondary.TransitionLog = (*TransitionLogRepository)(nil)
