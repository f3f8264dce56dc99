package primary

import (
	"context"

	"github.com/example/warden/internal/models"
)

// HookRequest is the pre-phase hook input from an execution agent.
type HookRequest struct {
	Phase     models.Phase
	AgentType string
	Context   map[string]any
}

// HookDecision is the pre-phase hook outcome.
type HookDecision struct {
	CanProceed     bool
	Message        string
	ContextUpdates map[string]any
}

// AgentHooks is the thin pre/post wrapper agents call around each phase.
// Unlike EnforcerService, PostHook escalates rule violations to a
// *workflow.ViolationError so agent callers cannot silently continue.
type AgentHooks interface {
	PreHook(ctx context.Context, req HookRequest) (*HookDecision, error)
	PostHook(ctx context.Context, phase models.Phase, outputs map[string]any) error
}
