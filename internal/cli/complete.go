package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/warden/internal/wire"
)

// CompleteCmd returns the complete command
func CompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete [phase]",
		Short: "Validate outputs and mark a phase completed",
		Long: `Validate that a phase produced every required output key and file, then
mark it completed. Outputs can be supplied as repeated --output key=value
flags, a JSON file via --outputs-file, or both (flags win on conflict).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := parsePhaseArg(args[0])
			if err != nil {
				return err
			}

			outputs, err := collectOutputs(cmd)
			if err != nil {
				return err
			}

			issue, dir, policy, err := workspaceArgs(cmd)
			if err != nil {
				return err
			}

			result, err := wire.Enforcer(issue, dir, policy).CompletePhase(cmd.Context(), phase, outputs)
			if err != nil {
				return fmt.Errorf("failed to complete phase: %w", err)
			}

			if !result.Success {
				fmt.Printf("%s %s\n", color.New(color.FgRed).Sprint("✗"), result.Message)
				return fmt.Errorf("phase completion rejected")
			}

			fmt.Printf("%s %s\n", color.New(color.FgGreen).Sprint("✓"), result.Message)
			return nil
		},
	}

	addWorkspaceFlags(cmd)
	cmd.Flags().StringArray("output", nil, "output entry as key=value (true/false parsed as booleans)")
	cmd.Flags().String("outputs-file", "", "JSON file with the phase outputs mapping")
	return cmd
}

// collectOutputs merges the outputs file and the key=value flags.
func collectOutputs(cmd *cobra.Command) (map[string]any, error) {
	outputs := map[string]any{}

	if path, _ := cmd.Flags().GetString("outputs-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read outputs file: %w", err)
		}
		if err := json.Unmarshal(data, &outputs); err != nil {
			return nil, fmt.Errorf("failed to parse outputs file: %w", err)
		}
	}

	pairs, _ := cmd.Flags().GetStringArray("output")
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --output %q, expected key=value", pair)
		}
		switch value {
		case "true":
			outputs[key] = true
		case "false":
			outputs[key] = false
		default:
			outputs[key] = value
		}
	}

	return outputs, nil
}
