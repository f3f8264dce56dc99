package models

import "time"

// PhaseStatus represents the lifecycle state of a single phase.
type PhaseStatus string

const (
	// StatusPending is the implicit status of a phase that has never been
	// entered. It is not persisted; an absent PhaseState means pending.
	StatusPending    PhaseStatus = "pending"
	StatusInProgress PhaseStatus = "in_progress"
	StatusCompleted  PhaseStatus = "completed"
	StatusFailed     PhaseStatus = "failed"
)

// PhaseState captures one phase's recorded progress for an issue.
// Legal transitions: in_progress -> completed, in_progress -> failed, and
// absent -> completed via the skip path.
type PhaseState struct {
	PhaseName   Phase          `json:"phase_name"`
	Status      PhaseStatus    `json:"status"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	FailedAt    *time.Time     `json:"failed_at,omitempty"`
	Outputs     map[string]any `json:"outputs,omitempty"`
	Errors      []string       `json:"errors,omitempty"`
	AgentType   string         `json:"agent_type,omitempty"`
}

// Skipped reports whether this phase was completed via the skip path.
func (ps *PhaseState) Skipped() bool {
	if ps == nil || ps.Outputs == nil {
		return false
	}
	skipped, ok := ps.Outputs["skipped"].(bool)
	return ok && skipped
}

// StateMetadata carries versioning info for the persisted document.
type StateMetadata struct {
	EnforcerVersion string `json:"enforcer_version"`
	WorkflowVersion string `json:"workflow_version"`
}

// WorkflowState is the persisted phase record for one issue. It is owned by
// one enforcer at a time but re-read from disk by every phase subprocess;
// writers are last-writer-wins, so callers must ensure a single active
// driver per issue number.
type WorkflowState struct {
	IssueNumber      int                   `json:"issue_number"`
	CreatedAt        time.Time             `json:"created_at"`
	CurrentPhase     Phase                 `json:"current_phase,omitempty"`
	Phases           map[Phase]*PhaseState `json:"phases"`
	ValidationErrors []string              `json:"validation_errors,omitempty"`
	Metadata         StateMetadata         `json:"metadata"`
}

// NewWorkflowState creates an empty state document for an issue.
func NewWorkflowState(issueNumber int, now time.Time, enforcerVersion string) *WorkflowState {
	return &WorkflowState{
		IssueNumber: issueNumber,
		CreatedAt:   now,
		Phases:      make(map[Phase]*PhaseState),
		Metadata: StateMetadata{
			EnforcerVersion: enforcerVersion,
			WorkflowVersion: "1",
		},
	}
}

// PhaseStatusOf returns the recorded status of a phase, treating an absent
// entry as pending.
func (s *WorkflowState) PhaseStatusOf(phase Phase) PhaseStatus {
	if ps, ok := s.Phases[phase]; ok && ps != nil {
		return ps.Status
	}
	return StatusPending
}

// EnsurePhase returns the PhaseState for a phase, creating it if absent.
func (s *WorkflowState) EnsurePhase(phase Phase) *PhaseState {
	if s.Phases == nil {
		s.Phases = make(map[Phase]*PhaseState)
	}
	if ps, ok := s.Phases[phase]; ok && ps != nil {
		return ps
	}
	ps := &PhaseState{PhaseName: phase, Status: StatusPending}
	s.Phases[phase] = ps
	return ps
}
