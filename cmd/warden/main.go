package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/cli"
	"github.com/example/warden/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "warden",
		Short:   "Warden - phase enforcement for issue-driven workflows",
		Version: version.String(),
		Long: `Warden governs the six-phase development workflow (investigation,
planning, implementation, validation, pr_creation, monitoring): it enforces
phase-ordering prerequisites, validates phase outputs, persists state per
issue, and runs each phase as an isolated, timeout-bounded subprocess.`,
	}

	// Enforcement commands
	rootCmd.AddCommand(cli.EnterCmd())
	rootCmd.AddCommand(cli.CompleteCmd())
	rootCmd.AddCommand(cli.SkipCmd())
	rootCmd.AddCommand(cli.ResumeCmd())
	rootCmd.AddCommand(cli.ValidateCmd())
	rootCmd.AddCommand(cli.ReportCmd())

	// Runner commands
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.PhaseCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
