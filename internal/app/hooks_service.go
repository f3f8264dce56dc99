package app

import (
	"context"
	"fmt"

	"github.com/example/warden/internal/core/workflow"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
)

// AgentHooksImpl implements the AgentHooks interface: a thin pre/post
// adapter over an internally owned enforcer, with a stricter contract for
// agent callers (PostHook escalates violations to an error).
type AgentHooksImpl struct {
	enforcer primary.EnforcerService
}

// NewAgentHooks creates hooks wrapping the given enforcer.
func NewAgentHooks(enforcer primary.EnforcerService) *AgentHooksImpl {
	return &AgentHooksImpl{enforcer: enforcer}
}

// PreHook checks phase entry. For investigation it implements the skip
// convenience: when the caller's context marks the scope as clear and the
// policy allows it, the phase is skipped here and the caller told so via
// ContextUpdates instead of having to skip it itself.
func (h *AgentHooksImpl) PreHook(ctx context.Context, req primary.HookRequest) (*primary.HookDecision, error) {
	if req.Phase == models.PhaseInvestigation && h.enforcer.CanSkipPhase(req.Phase, req.Context) {
		res, err := h.enforcer.SkipPhase(ctx, req.Phase, "scope is clear")
		if err != nil {
			return nil, err
		}
		if res.Success {
			return &primary.HookDecision{
				CanProceed: true,
				Message:    res.Message,
				ContextUpdates: map[string]any{
					"investigation_skipped": true,
				},
			}, nil
		}
		// Already completed or started; fall through to the entry check.
	}

	decision, err := h.enforcer.EnforcePhaseEntry(ctx, primary.EntryRequest{
		Phase:     req.Phase,
		AgentType: req.AgentType,
	})
	if err != nil {
		return nil, err
	}

	return &primary.HookDecision{
		CanProceed:     decision.CanProceed,
		Message:        decision.Message,
		ContextUpdates: decision.Context,
	}, nil
}

// PostHook validates phase completion. Outputs marked skipped are treated
// as an already-satisfied completion. A failed validation is escalated to a
// *workflow.ViolationError so the caller cannot silently continue.
func (h *AgentHooksImpl) PostHook(ctx context.Context, phase models.Phase, outputs map[string]any) error {
	if skipped, ok := outputs["skipped"].(bool); ok && skipped {
		return nil
	}

	res, err := h.enforcer.CompletePhase(ctx, phase, outputs)
	if err != nil {
		return fmt.Errorf("failed to complete phase '%s': %w", phase, err)
	}
	if !res.Success {
		return &workflow.ViolationError{Phase: phase, Message: res.Message}
	}
	return nil
}

// Ensure AgentHooksImpl implements the interface
var _ primary.AgentHooks = (*AgentHooksImpl)(nil)
