package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/wire"
)

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the compliance report for an issue",
		Long: `Render every phase's status with an icon plus an overall
COMPLIANT/NON-COMPLIANT verdict, so a human can diagnose the workflow
position at a glance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			issue, dir, policy, err := workspaceArgs(cmd)
			if err != nil {
				return err
			}

			report, err := wire.Enforcer(issue, dir, policy).GenerateComplianceReport(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to generate compliance report: %w", err)
			}

			fmt.Print(report)
			return nil
		},
	}

	addWorkspaceFlags(cmd)
	return cmd
}
