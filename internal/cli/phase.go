package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/config"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
	"github.com/example/warden/internal/wire"
)

// PhaseCmd returns the phase command group
func PhaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Phase subprocess entry points",
	}
	cmd.AddCommand(phaseExecCmd())
	return cmd
}

// phaseExecCmd is the subprocess entry the runner spawns: it executes
// exactly one phase index, receiving every other index as its skip list.
func phaseExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Execute a single phase inside a runner subprocess",
		Long: `Enforce entry for one phase, run its configured work command (if any),
and validate completion. Invoked by 'warden run' with all other phase
indices passed as --skip so prerequisites weaker than the target phase are
satisfied programmatically. Exit code 0 means the phase completed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetInt("index")
			phase, err := models.PhaseAt(index)
			if err != nil {
				return err
			}

			skipList, _ := cmd.Flags().GetString("skip")
			skipPhases, err := parseIndexList(skipList)
			if err != nil {
				return err
			}

			issue, dir, policy, err := workspaceArgs(cmd)
			if err != nil {
				return err
			}

			enforcer := wire.Enforcer(issue, dir, policy)

			decision, err := enforcer.EnforcePhaseEntry(cmd.Context(), primary.EntryRequest{
				Phase:      phase,
				AgentType:  "phase-runner",
				SkipPhases: skipPhases,
			})
			if err != nil {
				return fmt.Errorf("failed to enforce phase entry: %w", err)
			}
			if !decision.CanProceed {
				return fmt.Errorf("phase entry denied: %s", decision.Message)
			}

			if err := runPhaseWork(cmd, policy, phase); err != nil {
				return err
			}

			outputs, err := readPhaseOutputs(dir, issue, phase)
			if err != nil {
				return err
			}

			result, err := enforcer.CompletePhase(cmd.Context(), phase, outputs)
			if err != nil {
				return fmt.Errorf("failed to complete phase: %w", err)
			}
			if !result.Success {
				return fmt.Errorf("phase completion rejected: %s", result.Message)
			}

			fmt.Printf("Phase %d (%s) completed\n", index, phase)
			return nil
		},
	}

	addWorkspaceFlags(cmd)
	cmd.Flags().Int("index", -1, "phase index to execute")
	_ = cmd.MarkFlagRequired("index")
	cmd.Flags().String("skip", "", "comma-separated phase indices to treat as skipped")
	return cmd
}

// runPhaseWork executes the phase's configured work command, if any. The
// subprocess is already bounded by the parent runner's timeout; the same
// bound is applied here for standalone invocations.
func runPhaseWork(cmd *cobra.Command, policy *config.Policy, phase models.Phase) error {
	command := policy.Rule(phase).Command
	if len(command) == 0 {
		return nil
	}

	result, err := wire.CommandRunner().Run(cmd.Context(), secondary.CommandRequest{
		Name:    command[0],
		Args:    command[1:],
		Timeout: policy.TimeoutFor(phase),
	})
	if err != nil {
		return fmt.Errorf("failed to launch phase work command: %w", err)
	}
	if result.TimedOut {
		return fmt.Errorf("phase work command timed out")
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("phase work command exited with code %d", result.ExitCode)
	}
	return nil
}

// readPhaseOutputs loads the outputs sidecar the phase's work left behind,
// if any. An absent sidecar yields an empty mapping, which the completion
// check will reject for phases with required output keys.
func readPhaseOutputs(dir string, issue int, phase models.Phase) (map[string]any, error) {
	path := filepath.Join(dir, "outputs", fmt.Sprintf("issue-%d-%s.json", issue, phase))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read phase outputs: %w", err)
	}

	outputs := map[string]any{}
	if err := json.Unmarshal(data, &outputs); err != nil {
		return nil, fmt.Errorf("failed to parse phase outputs: %w", err)
	}
	return outputs, nil
}
