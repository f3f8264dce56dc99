package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/warden/internal/wire"
)

// SkipCmd returns the skip command
func SkipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skip [phase]",
		Short: "Mark a never-started phase completed without doing its work",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := parsePhaseArg(args[0])
			if err != nil {
				return err
			}
			reason, _ := cmd.Flags().GetString("reason")

			issue, dir, policy, err := workspaceArgs(cmd)
			if err != nil {
				return err
			}

			result, err := wire.Enforcer(issue, dir, policy).SkipPhase(cmd.Context(), phase, reason)
			if err != nil {
				return fmt.Errorf("failed to skip phase: %w", err)
			}

			if !result.Success {
				fmt.Printf("%s %s\n", color.New(color.FgRed).Sprint("✗"), result.Message)
				return fmt.Errorf("skip rejected")
			}

			fmt.Printf("%s %s\n", color.New(color.FgGreen).Sprint("✓"), result.Message)
			return nil
		},
	}

	addWorkspaceFlags(cmd)
	cmd.Flags().String("reason", "manual skip", "why the phase is being skipped")
	return cmd
}
