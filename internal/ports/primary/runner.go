package primary

import "context"

// PhaseRunner executes the six phases as isolated, timeout-bounded
// subprocesses, keeping its own completed-phase ledger for resume.
type PhaseRunner interface {
	// RunAllPhases runs the remaining phases in order. Phases named in
	// skipPhases are skipped without being recorded as completed; phases
	// already in the ledger are skipped idempotently. The first subprocess
	// failure or timeout halts the run and returns false. On full success
	// the ledger file is deleted (the enforcer's state file is not).
	RunAllPhases(ctx context.Context, skipPhases []int) (bool, error)
}
