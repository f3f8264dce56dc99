package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/warden/internal/config"
	"github.com/example/warden/internal/core/workflow"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
)

// EnforcerVersion is recorded in the metadata of every state document this
// enforcer creates.
const EnforcerVersion = "2.0"

// EnforcerServiceImpl implements the EnforcerService interface. It is
// synchronous and single-threaded; the persisted state file is the only
// synchronization primitive between phase subprocesses.
type EnforcerServiceImpl struct {
	issueNumber int
	policy      *config.Policy
	stateRepo   secondary.StateRepository
	transitions secondary.TransitionLog
	git         secondary.GitPort
	pulls       secondary.PullRequestPort
	files       secondary.FileChecker

	now func() time.Time

	state *models.WorkflowState
}

// NewEnforcerService creates an enforcer for one issue with injected
// collaborators. transitions may be nil; the audit log is advisory.
func NewEnforcerService(
	issueNumber int,
	policy *config.Policy,
	stateRepo secondary.StateRepository,
	transitions secondary.TransitionLog,
	git secondary.GitPort,
	pulls secondary.PullRequestPort,
	files secondary.FileChecker,
) *EnforcerServiceImpl {
	return &EnforcerServiceImpl{
		issueNumber: issueNumber,
		policy:      policy,
		stateRepo:   stateRepo,
		transitions: transitions,
		git:         git,
		pulls:       pulls,
		files:       files,
		now:         time.Now,
	}
}

// EnforcePhaseEntry checks prerequisites for entering a phase.
func (s *EnforcerServiceImpl) EnforcePhaseEntry(ctx context.Context, req primary.EntryRequest) (*primary.EntryDecision, error) {
	if !req.Phase.Valid() {
		return nil, fmt.Errorf("unknown phase %q", req.Phase)
	}

	if !s.policy.Enforcement.Enabled {
		return &primary.EntryDecision{
			CanProceed: true,
			Message:    "Enforcement disabled",
			Context:    map[string]any{},
		}, nil
	}

	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	// Hard business rules before the generic prerequisite chain.
	switch req.Phase {
	case models.PhaseImplementation:
		branch, err := s.git.CurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to determine current branch: %w", err)
		}
		if s.policy.IsMainline(branch) {
			return &primary.EntryDecision{
				CanProceed: false,
				Message:    fmt.Sprintf("cannot implement on main branch (current branch: %s); switch to a feature branch first", branch),
			}, nil
		}
	case models.PhasePRCreation:
		branch, err := s.git.CurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to determine current branch: %w", err)
		}
		patterns := s.policy.BranchPatterns
		if !workflow.MatchesFeatureBranch(branch, patterns.Prefixes, patterns.CustomRegex) {
			return &primary.EntryDecision{
				CanProceed: false,
				Message:    fmt.Sprintf("branch '%s' does not match recognized feature branch patterns", branch),
			}, nil
		}
	case models.PhaseMonitoring:
		if s.policy.PullRequests.RequireOpenPR {
			branch, err := s.git.CurrentBranch(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to determine current branch: %w", err)
			}
			heads, err := s.pulls.OpenPRHeads(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list open pull requests: %w", err)
			}
			if !containsString(heads, branch) {
				return &primary.EntryDecision{
					CanProceed: false,
					Message:    fmt.Sprintf("no open pull request found for branch '%s'", branch),
				}, nil
			}
		}
	}

	// Auto-mark earlier skipped phases completed before the prerequisite
	// check. This is an intentional, idempotent, observable mutation.
	if err := s.applyAutoSkips(ctx, state, req.Phase, req.SkipPhases); err != nil {
		return nil, err
	}

	pred, _ := s.policy.PredecessorOf(req.Phase)
	guard := workflow.CanEnterPhase(pred, state.PhaseStatusOf(pred))
	if !guard.Allowed {
		return &primary.EntryDecision{
			CanProceed: false,
			Message:    guard.Reason,
		}, nil
	}

	ps := state.EnsurePhase(req.Phase)
	from := ps.Status
	now := s.now()
	ps.Status = models.StatusInProgress
	ps.StartedAt = &now
	ps.AgentType = req.AgentType
	state.CurrentPhase = req.Phase

	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}
	s.recordTransition(ctx, req.Phase, from, models.StatusInProgress, req.AgentType, "phase entered")

	return &primary.EntryDecision{
		CanProceed: true,
		Message:    fmt.Sprintf("Phase '%s' entered", req.Phase),
		Context:    s.phaseContext(state),
	}, nil
}

// CompletePhase validates outputs and marks the phase completed. A failed
// validation leaves the phase state exactly as it was.
func (s *EnforcerServiceImpl) CompletePhase(ctx context.Context, phase models.Phase, outputs map[string]any) (*primary.CompletionResult, error) {
	if !phase.Valid() {
		return nil, fmt.Errorf("unknown phase %q", phase)
	}

	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	rule := s.policy.Rule(phase)

	if missing := workflow.MissingOutputs(rule.RequiredOutputs, outputs); len(missing) > 0 {
		return &primary.CompletionResult{
			Success: false,
			Message: fmt.Sprintf("missing required outputs: %s", strings.Join(missing, ", ")),
		}, nil
	}

	for _, pattern := range rule.RequiredFiles {
		matches, err := s.files.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to check required files %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return &primary.CompletionResult{
				Success: false,
				Message: fmt.Sprintf("required file not found: %s", pattern),
			}, nil
		}
	}

	if phase == models.PhaseValidation {
		if ok, msg := s.CheckCIStatus(); !ok {
			return &primary.CompletionResult{Success: false, Message: msg}, nil
		}
	}

	ps := state.EnsurePhase(phase)
	from := ps.Status
	now := s.now()
	ps.Status = models.StatusCompleted
	ps.CompletedAt = &now
	ps.Outputs = outputs

	if err := s.stateRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}
	s.recordTransition(ctx, phase, from, models.StatusCompleted, ps.AgentType, "phase completed")

	return &primary.CompletionResult{
		Success: true,
		Message: fmt.Sprintf("Phase '%s' completed", phase),
	}, nil
}

// SkipPhase synthesizes a completed PhaseState with a skip payload.
func (s *EnforcerServiceImpl) SkipPhase(ctx context.Context, phase models.Phase, reason string) (*primary.SkipResult, error) {
	if !phase.Valid() {
		return nil, fmt.Errorf("unknown phase %q", phase)
	}

	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	guard := workflow.CanSkipPhase(phase, state.PhaseStatusOf(phase))
	if !guard.Allowed {
		return &primary.SkipResult{Success: false, Message: guard.Reason}, nil
	}

	if err := s.markSkipped(ctx, state, phase, reason); err != nil {
		return nil, err
	}

	return &primary.SkipResult{
		Success: true,
		Message: fmt.Sprintf("Phase '%s' skipped: %s", phase, reason),
	}, nil
}

// CanSkipPhase is the pure skip eligibility predicate, configuration-driven
// per phase.
func (s *EnforcerServiceImpl) CanSkipPhase(phase models.Phase, context map[string]any) bool {
	rule := s.policy.Rule(phase)
	return workflow.SkipEligible(rule.Skippable, rule.SkipWhen, context)
}

// ResumeWorkflow returns the phase to continue from after a restart.
func (s *EnforcerServiceImpl) ResumeWorkflow(ctx context.Context) (models.Phase, error) {
	state, err := s.loadState(ctx)
	if err != nil {
		return "", err
	}
	return workflow.ResumePhase(state.PhaseStatusOf, s.predecessorOf), nil
}

// ValidateWorkflowState cross-checks statuses against the predecessor chain.
func (s *EnforcerServiceImpl) ValidateWorkflowState(ctx context.Context) (*primary.ValidationReport, error) {
	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	errs, warnings := workflow.ValidateChain(
		state.PhaseStatusOf,
		s.predecessorOf,
		func(p models.Phase) bool { return s.policy.Rule(p).Skippable },
	)

	return &primary.ValidationReport{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}, nil
}

// GenerateComplianceReport renders all phase statuses and a verdict.
func (s *EnforcerServiceImpl) GenerateComplianceReport(ctx context.Context) (string, error) {
	state, err := s.loadState(ctx)
	if err != nil {
		return "", err
	}

	report, err := s.ValidateWorkflowState(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Workflow Compliance Report for issue #%d\n\n", s.issueNumber)

	for _, phase := range models.PhaseOrder {
		ps := state.Phases[phase]
		status := state.PhaseStatusOf(phase)
		switch status {
		case models.StatusCompleted:
			if ps.Skipped() {
				fmt.Fprintf(&b, "✅ %s: completed (skipped)\n", displayName(phase))
			} else {
				fmt.Fprintf(&b, "✅ %s: completed\n", displayName(phase))
			}
		case models.StatusInProgress:
			fmt.Fprintf(&b, "🔄 %s: in_progress\n", displayName(phase))
		case models.StatusFailed:
			fmt.Fprintf(&b, "❌ %s: failed\n", displayName(phase))
		default:
			fmt.Fprintf(&b, "⏳ %s: Not started\n", displayName(phase))
		}
	}

	b.WriteString("\n")
	if report.Valid {
		b.WriteString("Verdict: COMPLIANT\n")
	} else {
		b.WriteString("Verdict: NON-COMPLIANT\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(&b, "  ! %s\n", w)
	}

	return b.String(), nil
}

// CheckCIStatus searches the configured marker files for a freshness
// signal. The first existing marker decides; when none exists and the
// policy allows it, a test-run marker may substitute for CI.
func (s *EnforcerServiceImpl) CheckCIStatus() (bool, string) {
	cfg := s.policy.CIValidation

	for _, marker := range cfg.MarkerFiles {
		if !s.files.Exists(marker) {
			continue
		}
		if cfg.MaxAgeHours == 0 {
			return true, fmt.Sprintf("CI marker '%s' present (no age limit)", marker)
		}
		modTime, err := s.files.ModTime(marker)
		if err != nil {
			continue
		}
		if workflow.MarkerFresh(modTime, s.now(), cfg.MaxAgeHours) {
			return true, fmt.Sprintf("CI marker '%s' is fresh", marker)
		}
		return false, fmt.Sprintf("CI marker '%s' is older than %g hours", marker, cfg.MaxAgeHours)
	}

	if cfg.AllowTestOnly && !cfg.RequireCI {
		for _, marker := range cfg.TestMarkers {
			if s.files.Exists(marker) {
				return true, fmt.Sprintf("no CI marker found, but tests were executed ('%s' present)", marker)
			}
		}
	}

	return false, "no CI marker found"
}

// Helper methods

// loadState returns the cached state document, loading or initializing it
// on first access.
func (s *EnforcerServiceImpl) loadState(ctx context.Context) (*models.WorkflowState, error) {
	if s.state != nil {
		return s.state, nil
	}
	state, err := s.stateRepo.Load(ctx, s.issueNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow state: %w", err)
	}
	if state == nil {
		state = models.NewWorkflowState(s.issueNumber, s.now(), EnforcerVersion)
	}
	s.state = state
	return state, nil
}

// applyAutoSkips marks earlier, not-yet-recorded phases completed with a
// skip payload so a driver can jump straight into a later phase.
func (s *EnforcerServiceImpl) applyAutoSkips(ctx context.Context, state *models.WorkflowState, target models.Phase, skipPhases []int) error {
	mutated := false
	for _, idx := range skipPhases {
		if idx < 0 || idx >= models.PhaseCount || idx >= target.Index() {
			continue
		}
		phase := models.PhaseOrder[idx]
		if state.PhaseStatusOf(phase) != models.StatusPending {
			continue
		}
		ps := state.EnsurePhase(phase)
		now := s.now()
		ps.Status = models.StatusCompleted
		ps.CompletedAt = &now
		ps.Outputs = map[string]any{"skipped": true, "reason": "auto-skipped"}
		s.recordTransition(ctx, phase, models.StatusPending, models.StatusCompleted, "", "auto-skipped")
		mutated = true
	}
	if mutated {
		if err := s.stateRepo.Save(ctx, state); err != nil {
			return fmt.Errorf("failed to persist auto-skipped phases: %w", err)
		}
	}
	return nil
}

// markSkipped records a skip transition for a never-started phase.
func (s *EnforcerServiceImpl) markSkipped(ctx context.Context, state *models.WorkflowState, phase models.Phase, reason string) error {
	ps := state.EnsurePhase(phase)
	from := ps.Status
	now := s.now()
	ps.Status = models.StatusCompleted
	ps.CompletedAt = &now
	ps.Outputs = map[string]any{"skipped": true, "reason": reason}

	if err := s.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	s.recordTransition(ctx, phase, from, models.StatusCompleted, "", reason)
	return nil
}

// recordTransition appends to the audit log. Audit failures never block a
// transition.
func (s *EnforcerServiceImpl) recordTransition(ctx context.Context, phase models.Phase, from, to models.PhaseStatus, agentType, reason string) {
	if s.transitions == nil {
		return
	}
	_ = s.transitions.Record(ctx, &secondary.TransitionRecord{
		IssueNumber: s.issueNumber,
		Phase:       phase,
		FromStatus:  from,
		ToStatus:    to,
		AgentType:   agentType,
		Reason:      reason,
		RecordedAt:  s.now(),
	})
}

// phaseContext exposes phase-prefixed status keys for downstream consumers.
func (s *EnforcerServiceImpl) phaseContext(state *models.WorkflowState) map[string]any {
	context := map[string]any{
		"workflow.current_phase": string(state.CurrentPhase),
	}
	for name, ps := range state.Phases {
		context[fmt.Sprintf("workflow.phase.%s.status", name)] = string(ps.Status)
	}
	return context
}

func (s *EnforcerServiceImpl) predecessorOf(phase models.Phase) (models.Phase, bool) {
	return s.policy.PredecessorOf(phase)
}

// displayName renders a phase for human-readable reports.
func displayName(phase models.Phase) string {
	switch phase {
	case models.PhaseInvestigation:
		return "Investigation"
	case models.PhasePlanning:
		return "Planning"
	case models.PhaseImplementation:
		return "Implementation"
	case models.PhaseValidation:
		return "Validation"
	case models.PhasePRCreation:
		return "PR Creation"
	case models.PhaseMonitoring:
		return "Monitoring"
	}
	return string(phase)
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// Ensure EnforcerServiceImpl implements the interface
var _ primary.EnforcerService = (*EnforcerServiceImpl)(nil)
