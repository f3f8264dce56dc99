// Package config defines the typed enforcement policy. Every recognized
// option has an explicit default so a missing or malformed policy file
// degrades to the legacy behavior instead of crashing the enforcer.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/warden/internal/models"
)

// EnforcementConfig controls whether checks run at all.
type EnforcementConfig struct {
	Enabled    bool `yaml:"enabled"`
	StrictMode bool `yaml:"strict_mode"`
}

// PhaseRule is the per-phase enforcement policy.
type PhaseRule struct {
	// Predecessor is the phase that must be completed before this one may
	// be entered. Empty means no prerequisite.
	Predecessor string `yaml:"predecessor"`

	// RequiredOutputs are the keys that must be present in the outputs
	// mapping for the phase to be marked complete.
	RequiredOutputs []string `yaml:"required_outputs"`

	// RequiredFiles are glob patterns that must each match at least one
	// file for the phase to be marked complete.
	RequiredFiles []string `yaml:"required_files"`

	// Skippable marks the phase as eligible for skipping.
	Skippable bool `yaml:"skippable"`

	// SkipWhen names a context key that must be true for the skip to be
	// eligible. Empty means skippable unconditionally (when Skippable).
	SkipWhen string `yaml:"skip_when"`

	// TimeoutSeconds bounds the phase's subprocess. Zero means the runner
	// default applies.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Command is the external work command the phase subprocess executes.
	// Empty means the phase's work happens out of band.
	Command []string `yaml:"command"`
}

// BranchPatterns configures feature-branch recognition for the pr_creation
// prerequisite and the mainline guard for implementation.
type BranchPatterns struct {
	Prefixes    []string `yaml:"prefixes"`
	CustomRegex string   `yaml:"custom_regex"`
	Mainline    []string `yaml:"mainline"`
}

// CIValidation is the freshness policy applied when completing the
// validation phase.
type CIValidation struct {
	RequireCI     bool     `yaml:"require_ci"`
	MaxAgeHours   float64  `yaml:"max_age_hours"` // 0 means no time limit
	MarkerFiles   []string `yaml:"marker_files"`
	AllowTestOnly bool     `yaml:"allow_test_only"`
	TestMarkers   []string `yaml:"test_markers"`
}

// PullRequests configures the monitoring-phase prerequisite.
type PullRequests struct {
	RequireOpenPR bool `yaml:"require_open_pr"`
}

// RunnerConfig configures the subprocess-per-phase runner.
type RunnerConfig struct {
	// DefaultTimeoutSeconds bounds phases without an explicit timeout.
	DefaultTimeoutSeconds int `yaml:"default_timeout_seconds"`

	// Driver is the command invoked for each phase subprocess. Empty means
	// re-exec the current binary's `phase exec` subcommand.
	Driver []string `yaml:"driver"`
}

// Policy is the complete enforcement policy for one workspace.
type Policy struct {
	Enforcement    EnforcementConfig    `yaml:"enforcement"`
	Phases         map[string]PhaseRule `yaml:"phases"`
	BranchPatterns BranchPatterns       `yaml:"branch_patterns"`
	CIValidation   CIValidation         `yaml:"ci_validation"`
	PullRequests   PullRequests         `yaml:"pull_requests"`
	Runner         RunnerConfig         `yaml:"runner"`
}

// Default returns the legacy policy: strict mode, a 1-hour-old .last-ci-run
// marker required for validation, standard feature branch prefixes, and the
// default prerequisite chain with investigation skippable on scope_is_clear.
func Default() *Policy {
	return &Policy{
		Enforcement: EnforcementConfig{
			Enabled:    true,
			StrictMode: true,
		},
		Phases: map[string]PhaseRule{
			string(models.PhaseInvestigation): {
				RequiredOutputs: []string{"findings_documented"},
				Skippable:       true,
				SkipWhen:        "scope_is_clear",
			},
			string(models.PhasePlanning): {
				Predecessor:     string(models.PhaseInvestigation),
				RequiredOutputs: []string{"task_template_created", "scratchpad_created", "documentation_committed"},
			},
			string(models.PhaseImplementation): {
				Predecessor:     string(models.PhasePlanning),
				RequiredOutputs: []string{"tests_written", "implementation_complete"},
			},
			string(models.PhaseValidation): {
				Predecessor:     string(models.PhaseImplementation),
				RequiredOutputs: []string{"ci_passed"},
				TimeoutSeconds:  900,
			},
			string(models.PhasePRCreation): {
				Predecessor:     string(models.PhaseValidation),
				RequiredOutputs: []string{"pr_url"},
			},
			string(models.PhaseMonitoring): {
				Predecessor:     string(models.PhasePRCreation),
				RequiredOutputs: []string{"pr_merged"},
			},
		},
		BranchPatterns: BranchPatterns{
			Prefixes: []string{"fix", "feature", "hotfix", "refactor", "chore", "docs", "style", "test"},
			Mainline: []string{"main", "master"},
		},
		CIValidation: CIValidation{
			RequireCI:   true,
			MaxAgeHours: 1,
			MarkerFiles: []string{".last-ci-run"},
			TestMarkers: []string{".pytest_cache", ".last-test-run"},
		},
		PullRequests: PullRequests{
			RequireOpenPR: true,
		},
		Runner: RunnerConfig{
			DefaultTimeoutSeconds: 90,
		},
	}
}

// Load reads the policy YAML at path, overlaying it onto the defaults.
// A missing or malformed file returns the default policy along with a
// non-nil error for diagnostics; the returned policy is always usable.
func Load(path string) (*Policy, error) {
	policy := Default()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return policy, nil
		}
		return Default(), fmt.Errorf("failed to read policy: %w", err)
	}

	if err := yaml.Unmarshal(data, policy); err != nil {
		return Default(), fmt.Errorf("failed to parse policy: %w", err)
	}

	return policy, nil
}

// Rule returns the rule for a phase, falling back to a zero rule for
// phases the policy does not mention.
func (p *Policy) Rule(phase models.Phase) PhaseRule {
	if rule, ok := p.Phases[string(phase)]; ok {
		return rule
	}
	return PhaseRule{}
}

// PredecessorOf resolves the configured predecessor for a phase. Phases
// absent from the policy fall back to the canonical order; phases present
// with an empty predecessor have none.
func (p *Policy) PredecessorOf(phase models.Phase) (models.Phase, bool) {
	rule, ok := p.Phases[string(phase)]
	if ok {
		if rule.Predecessor == "" {
			return "", false
		}
		return models.Phase(rule.Predecessor), true
	}
	return phase.DefaultPredecessor()
}

// TimeoutFor returns the subprocess bound for a phase.
func (p *Policy) TimeoutFor(phase models.Phase) time.Duration {
	seconds := p.Rule(phase).TimeoutSeconds
	if seconds <= 0 {
		seconds = p.Runner.DefaultTimeoutSeconds
	}
	if seconds <= 0 {
		seconds = 90
	}
	return time.Duration(seconds) * time.Second
}

// IsMainline reports whether the branch is a mainline branch.
func (p *Policy) IsMainline(branch string) bool {
	for _, name := range p.BranchPatterns.Mainline {
		if branch == name {
			return true
		}
	}
	return false
}
