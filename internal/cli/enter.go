package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/wire"
)

// EnterCmd returns the enter command
func EnterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enter [phase]",
		Short: "Check prerequisites and enter a workflow phase",
		Long: `Enforce phase entry for an issue: verifies the predecessor phase is
completed (auto-skipping any phases named with --skip), applies the branch
rules for implementation and pr_creation, and records the phase in_progress
on success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := parsePhaseArg(args[0])
			if err != nil {
				return err
			}
			agentType, _ := cmd.Flags().GetString("agent")
			skipList, _ := cmd.Flags().GetString("skip")
			skipPhases, err := parseIndexList(skipList)
			if err != nil {
				return err
			}

			issue, dir, policy, err := workspaceArgs(cmd)
			if err != nil {
				return err
			}

			decision, err := wire.Enforcer(issue, dir, policy).EnforcePhaseEntry(cmd.Context(), primary.EntryRequest{
				Phase:      phase,
				AgentType:  agentType,
				SkipPhases: skipPhases,
			})
			if err != nil {
				return fmt.Errorf("failed to enforce phase entry: %w", err)
			}

			if !decision.CanProceed {
				fmt.Printf("%s %s\n", color.New(color.FgRed).Sprint("✗"), decision.Message)
				return fmt.Errorf("phase entry denied")
			}

			fmt.Printf("%s %s\n", color.New(color.FgGreen).Sprint("✓"), decision.Message)
			return nil
		},
	}

	addWorkspaceFlags(cmd)
	cmd.Flags().String("agent", "", "agent type executing the phase")
	cmd.Flags().String("skip", "", "comma-separated earlier phase indices to auto-skip")
	return cmd
}
