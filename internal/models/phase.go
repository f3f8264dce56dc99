package models

import "fmt"

// Phase identifies one stage of the fixed six-stage development workflow.
type Phase string

const (
	PhaseInvestigation  Phase = "investigation"
	PhasePlanning       Phase = "planning"
	PhaseImplementation Phase = "implementation"
	PhaseValidation     Phase = "validation"
	PhasePRCreation     Phase = "pr_creation"
	PhaseMonitoring     Phase = "monitoring"
)

// PhaseOrder is the canonical execution order. The index of a phase defines
// its default prerequisite chain: phase N requires phase N-1 completed.
var PhaseOrder = [6]Phase{
	PhaseInvestigation,
	PhasePlanning,
	PhaseImplementation,
	PhaseValidation,
	PhasePRCreation,
	PhaseMonitoring,
}

// PhaseCount is the number of workflow phases.
const PhaseCount = len(PhaseOrder)

// Index returns the canonical index of the phase, or -1 for unknown phases.
func (p Phase) Index() int {
	for i, candidate := range PhaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is one of the six workflow phases.
func (p Phase) Valid() bool {
	return p.Index() >= 0
}

// PhaseAt returns the phase at the given canonical index.
func PhaseAt(index int) (Phase, error) {
	if index < 0 || index >= PhaseCount {
		return "", fmt.Errorf("phase index %d out of range [0,%d)", index, PhaseCount)
	}
	return PhaseOrder[index], nil
}

// ParsePhase converts a phase name into a Phase.
func ParsePhase(name string) (Phase, error) {
	p := Phase(name)
	if !p.Valid() {
		return "", fmt.Errorf("unknown phase %q", name)
	}
	return p, nil
}

// DefaultPredecessor returns the phase immediately before p in canonical
// order. Investigation has no predecessor and returns ("", false).
func (p Phase) DefaultPredecessor() (Phase, bool) {
	idx := p.Index()
	if idx <= 0 {
		return "", false
	}
	return PhaseOrder[idx-1], true
}
