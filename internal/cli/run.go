package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/warden/internal/wire"
)

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all workflow phases as isolated subprocesses",
		Long: `Execute the six phases in order, each in its own subprocess bounded by
the policy timeout. Completed phases are recorded in a resume ledger so an
interrupted run picks up at the failing phase. The first failure halts the
run; retries belong to the caller.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			skipList, _ := cmd.Flags().GetString("skip")
			skipPhases, err := parseIndexList(skipList)
			if err != nil {
				return err
			}

			issue, dir, policy, err := workspaceArgs(cmd)
			if err != nil {
				return err
			}

			ok, err := wire.Runner(issue, dir, policy).RunAllPhases(cmd.Context(), skipPhases)
			if err != nil {
				return fmt.Errorf("phase run failed: %w", err)
			}
			if !ok {
				fmt.Printf("%s run halted; state preserved for resume\n", color.New(color.FgRed).Sprint("✗"))
				return fmt.Errorf("phase run halted")
			}

			fmt.Printf("%s all phases completed\n", color.New(color.FgGreen).Sprint("✓"))
			return nil
		},
	}

	addWorkspaceFlags(cmd)
	cmd.Flags().String("skip", "", "comma-separated phase indices to skip (not recorded as completed)")
	return cmd
}
