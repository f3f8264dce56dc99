package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/wire"
)

// ResumeCmd returns the resume command
func ResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Show which phase the workflow should continue from",
		Long: `Scan the persisted workflow state and print the phase to continue from:
the first in_progress phase, or the natural next phase whose predecessor is
already satisfied. Used after a crash or restart to avoid blind replay.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			issue, dir, policy, err := workspaceArgs(cmd)
			if err != nil {
				return err
			}

			phase, err := wire.Enforcer(issue, dir, policy).ResumeWorkflow(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to compute resume phase: %w", err)
			}

			fmt.Printf("Resume from phase %d (%s)\n", phase.Index(), phase)
			return nil
		},
	}

	addWorkspaceFlags(cmd)
	return cmd
}
