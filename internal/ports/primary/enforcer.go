// Package primary defines the primary ports (driving interfaces) for the
// application. These are the interfaces through which drivers (CLI, phase
// subprocesses, agent hooks) use the enforcement engine.
package primary

import (
	"context"

	"github.com/example/warden/internal/models"
)

// EntryRequest asks to enter a phase.
type EntryRequest struct {
	Phase     models.Phase
	AgentType string

	// SkipPhases names earlier phase indices to auto-mark completed before
	// the prerequisite check, letting a driver jump straight into Phase.
	SkipPhases []int
}

// EntryDecision is the outcome of a phase-entry check. A denied entry is a
// reported condition, not an error; infrastructure failures surface as
// errors on the method instead.
type EntryDecision struct {
	CanProceed bool
	Message    string

	// Context exposes phase-prefixed keys for downstream consumers, e.g.
	// "workflow.phase.planning.status".
	Context map[string]any
}

// CompletionResult is the outcome of a phase-completion attempt.
type CompletionResult struct {
	Success bool
	Message string
}

// SkipResult is the outcome of a skip attempt.
type SkipResult struct {
	Success bool
	Message string
}

// ValidationReport holds non-mutating cross-check diagnostics.
type ValidationReport struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// EnforcerService is the single source of truth for whether it is legal to
// enter a phase and whether a phase produced what it must to be complete.
type EnforcerService interface {
	// EnforcePhaseEntry checks prerequisites for entering a phase and, on
	// success, records it in_progress and persists.
	EnforcePhaseEntry(ctx context.Context, req EntryRequest) (*EntryDecision, error)

	// CompletePhase validates outputs against the phase's required keys and
	// files and, on success, marks the phase completed and persists. A
	// failed validation leaves the phase state untouched.
	CompletePhase(ctx context.Context, phase models.Phase, outputs map[string]any) (*CompletionResult, error)

	// SkipPhase marks a never-started phase completed with a skip payload.
	SkipPhase(ctx context.Context, phase models.Phase, reason string) (*SkipResult, error)

	// CanSkipPhase is the pure per-phase skip eligibility predicate.
	CanSkipPhase(phase models.Phase, context map[string]any) bool

	// ResumeWorkflow returns the phase the workflow should continue from.
	ResumeWorkflow(ctx context.Context) (models.Phase, error)

	// ValidateWorkflowState cross-checks recorded statuses against the
	// predecessor chain without mutating state.
	ValidateWorkflowState(ctx context.Context) (*ValidationReport, error)

	// GenerateComplianceReport renders a human-readable per-phase summary
	// with an overall COMPLIANT/NON-COMPLIANT verdict.
	GenerateComplianceReport(ctx context.Context) (string, error)

	// CheckCIStatus evaluates the CI marker freshness policy.
	CheckCIStatus() (bool, string)
}
