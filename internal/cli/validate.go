package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/warden/internal/wire"
)

// ValidateCmd returns the validate command
func ValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Cross-check recorded phase statuses against the predecessor chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			issue, dir, policy, err := workspaceArgs(cmd)
			if err != nil {
				return err
			}

			report, err := wire.Enforcer(issue, dir, policy).ValidateWorkflowState(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to validate workflow state: %w", err)
			}

			for _, e := range report.Errors {
				fmt.Printf("%s %s\n", color.New(color.FgRed).Sprint("error:"), e)
			}
			for _, w := range report.Warnings {
				fmt.Printf("%s %s\n", color.New(color.FgYellow).Sprint("warning:"), w)
			}

			if !report.Valid {
				return fmt.Errorf("workflow state for issue #%d is inconsistent", issue)
			}
			fmt.Printf("%s workflow state for issue #%d is consistent\n", color.New(color.FgGreen).Sprint("✓"), issue)
			return nil
		},
	}

	addWorkspaceFlags(cmd)
	return cmd
}
