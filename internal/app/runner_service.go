package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/warden/internal/config"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
)

// PhaseRunnerImpl implements the PhaseRunner interface: serial, fail-fast
// execution of the six phases as isolated subprocesses, each bounded by a
// wall-clock timeout, with a persisted completed-phase ledger for resume.
type PhaseRunnerImpl struct {
	issueNumber int
	policy      *config.Policy
	ledgerRepo  secondary.LedgerRepository
	runner      secondary.CommandRunner
	out         io.Writer

	// executable resolves the binary to re-exec when the policy configures
	// no driver command. Injected for testing.
	executable func() (string, error)
}

// NewPhaseRunner creates a runner for one issue.
func NewPhaseRunner(
	issueNumber int,
	policy *config.Policy,
	ledgerRepo secondary.LedgerRepository,
	runner secondary.CommandRunner,
	out io.Writer,
	executable func() (string, error),
) *PhaseRunnerImpl {
	return &PhaseRunnerImpl{
		issueNumber: issueNumber,
		policy:      policy,
		ledgerRepo:  ledgerRepo,
		runner:      runner,
		out:         out,
		executable:  executable,
	}
}

// RunAllPhases runs the remaining phases in order. The first failing or
// timed-out subprocess halts the run; already-completed phases are redone
// never, and the failing phase is left unrecorded so a later resume
// re-attempts exactly that phase.
func (s *PhaseRunnerImpl) RunAllPhases(ctx context.Context, skipPhases []int) (bool, error) {
	ledger, err := s.ledgerRepo.Load(ctx, s.issueNumber)
	if err != nil {
		return false, fmt.Errorf("failed to load runner ledger: %w", err)
	}

	skips := make(map[int]bool, len(skipPhases))
	for _, idx := range skipPhases {
		skips[idx] = true
	}

	for index, phase := range models.PhaseOrder {
		if skips[index] {
			// Explicit skip: not recorded as completed.
			fmt.Fprintf(s.out, "⏭  Phase %d (%s): skipped by request\n", index, phase)
			continue
		}
		if ledger.Contains(index) {
			fmt.Fprintf(s.out, "✓ Phase %d (%s): already completed, resuming past it\n", index, phase)
			continue
		}

		fmt.Fprintf(s.out, "▶ Phase %d (%s): starting (timeout %s)\n", index, phase, s.policy.TimeoutFor(phase))
		ok := s.runSinglePhase(ctx, index, phase)
		if !ok {
			fmt.Fprintf(s.out, "✗ Phase %d (%s): failed, halting run\n", index, phase)
			return false, nil
		}

		// Persist immediately so a crash after phase K only ever redoes
		// phase K, never earlier ones.
		ledger.MarkCompleted(index)
		if err := s.ledgerRepo.Save(ctx, ledger); err != nil {
			return false, fmt.Errorf("failed to persist runner ledger: %w", err)
		}
		fmt.Fprintf(s.out, "✓ Phase %d (%s): completed\n", index, phase)
	}

	// Clean terminal state for the resume cache. The enforcer's state file
	// remains the durable historical record and is never deleted here.
	if err := s.ledgerRepo.Delete(ctx, s.issueNumber); err != nil {
		return false, fmt.Errorf("failed to remove runner ledger: %w", err)
	}
	fmt.Fprintf(s.out, "All phases completed for issue #%d\n", s.issueNumber)
	return true, nil
}

// runSinglePhase spawns the driver subprocess for one phase index, passing
// every other index as that subprocess's skip list so it executes only this
// phase. Timeout, non-zero exit, and launch failure are all treated as a
// phase failure.
func (s *PhaseRunnerImpl) runSinglePhase(ctx context.Context, index int, phase models.Phase) bool {
	name, args, err := s.driverCommand(index)
	if err != nil {
		fmt.Fprintf(s.out, "  failed to build driver command: %v\n", err)
		return false
	}

	result, err := s.runner.Run(ctx, secondary.CommandRequest{
		Name:    name,
		Args:    args,
		Timeout: s.policy.TimeoutFor(phase),
	})
	if err != nil {
		fmt.Fprintf(s.out, "  failed to launch phase subprocess: %v\n", err)
		return false
	}
	if result.TimedOut {
		fmt.Fprintf(s.out, "  phase subprocess timed out after %s\n", s.policy.TimeoutFor(phase))
		return false
	}
	if result.ExitCode != 0 {
		fmt.Fprintf(s.out, "  phase subprocess exited with code %d\n", result.ExitCode)
		if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
			fmt.Fprintf(s.out, "  stderr: %s\n", stderr)
		}
		return false
	}
	return true
}

// driverCommand builds the subprocess invocation for one phase index: the
// configured driver command, or a re-exec of this binary's `phase exec`
// subcommand when none is configured.
func (s *PhaseRunnerImpl) driverCommand(index int) (string, []string, error) {
	phaseArgs := []string{
		"--issue", strconv.Itoa(s.issueNumber),
		"--index", strconv.Itoa(index),
		"--skip", otherIndices(index),
	}

	if driver := s.policy.Runner.Driver; len(driver) > 0 {
		return driver[0], append(append([]string{}, driver[1:]...), phaseArgs...), nil
	}

	exe, err := s.executable()
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve own executable: %w", err)
	}
	return exe, append([]string{"phase", "exec"}, phaseArgs...), nil
}

// otherIndices renders every phase index except the given one as a
// comma-separated skip list.
func otherIndices(index int) string {
	parts := make([]string, 0, models.PhaseCount-1)
	for i := 0; i < models.PhaseCount; i++ {
		if i != index {
			parts = append(parts, strconv.Itoa(i))
		}
	}
	return strings.Join(parts, ",")
}

// Ensure PhaseRunnerImpl implements the interface
var _ primary.PhaseRunner = (*PhaseRunnerImpl)(nil)
