package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/config"
	"github.com/example/warden/internal/models"
)

// addWorkspaceFlags registers the flags every command needs to locate the
// issue's state and policy.
func addWorkspaceFlags(cmd *cobra.Command) {
	cmd.Flags().Int("issue", 0, "issue number")
	cmd.Flags().String("dir", ".warden", "warden state directory")
	cmd.Flags().String("policy", ".warden/policy.yaml", "enforcement policy file")
	_ = cmd.MarkFlagRequired("issue")
}

// workspaceArgs resolves the common flags. A malformed policy file warns
// and falls back to defaults rather than failing the command.
func workspaceArgs(cmd *cobra.Command) (issue int, dir string, policy *config.Policy, err error) {
	issue, err = cmd.Flags().GetInt("issue")
	if err != nil {
		return 0, "", nil, err
	}
	if issue <= 0 {
		return 0, "", nil, fmt.Errorf("--issue must be a positive integer")
	}

	dir, err = cmd.Flags().GetString("dir")
	if err != nil {
		return 0, "", nil, err
	}

	policyPath, err := cmd.Flags().GetString("policy")
	if err != nil {
		return 0, "", nil, err
	}

	policy, loadErr := config.Load(policyPath)
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; using default policy\n", loadErr)
	}
	return issue, dir, policy, nil
}

// parsePhaseArg resolves a positional phase-name argument.
func parsePhaseArg(arg string) (models.Phase, error) {
	phase, err := models.ParsePhase(arg)
	if err != nil {
		names := make([]string, models.PhaseCount)
		for i, p := range models.PhaseOrder {
			names[i] = string(p)
		}
		return "", fmt.Errorf("%v (expected one of: %s)", err, strings.Join(names, ", "))
	}
	return phase, nil
}

// parseIndexList parses a comma-separated list of phase indices.
func parseIndexList(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid phase index %q", part)
		}
		if idx < 0 || idx >= models.PhaseCount {
			return nil, fmt.Errorf("phase index %d out of range [0,%d)", idx, models.PhaseCount)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}
