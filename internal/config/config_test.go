package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/warden/internal/models"
)

func TestDefault_LegacyPolicy(t *testing.T) {
	policy := Default()

	if !policy.Enforcement.Enabled {
		t.Error("expected enforcement enabled by default")
	}
	if !policy.Enforcement.StrictMode {
		t.Error("expected strict mode by default")
	}

	ci := policy.CIValidation
	if !ci.RequireCI {
		t.Error("expected require_ci by default")
	}
	if ci.MaxAgeHours != 1 {
		t.Errorf("expected 1-hour CI freshness default, got %g", ci.MaxAgeHours)
	}
	if len(ci.MarkerFiles) != 1 || ci.MarkerFiles[0] != ".last-ci-run" {
		t.Errorf("expected legacy .last-ci-run marker, got %v", ci.MarkerFiles)
	}

	wantPrefixes := []string{"fix", "feature", "hotfix", "refactor", "chore", "docs", "style", "test"}
	if len(policy.BranchPatterns.Prefixes) != len(wantPrefixes) {
		t.Fatalf("expected %d branch prefixes, got %v", len(wantPrefixes), policy.BranchPatterns.Prefixes)
	}
	for i, prefix := range wantPrefixes {
		if policy.BranchPatterns.Prefixes[i] != prefix {
			t.Errorf("expected prefix %s at %d, got %s", prefix, i, policy.BranchPatterns.Prefixes[i])
		}
	}

	investigation := policy.Rule(models.PhaseInvestigation)
	if !investigation.Skippable || investigation.SkipWhen != "scope_is_clear" {
		t.Error("expected investigation skippable on scope_is_clear")
	}

	planning := policy.Rule(models.PhasePlanning)
	want := map[string]bool{"task_template_created": true, "scratchpad_created": true, "documentation_committed": true}
	if len(planning.RequiredOutputs) != len(want) {
		t.Fatalf("unexpected planning required outputs: %v", planning.RequiredOutputs)
	}
	for _, key := range planning.RequiredOutputs {
		if !want[key] {
			t.Errorf("unexpected planning required output %s", key)
		}
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	policy, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if !policy.Enforcement.Enabled {
		t.Error("expected default policy for missing file")
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	policy, err := Load("")
	if err != nil {
		t.Fatalf("expected no error for empty path, got %v", err)
	}
	if policy.CIValidation.MaxAgeHours != 1 {
		t.Error("expected default policy for empty path")
	}
}

func TestLoad_MalformedYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(":{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	policy, err := Load(path)
	if err == nil {
		t.Error("expected a diagnostic error for malformed YAML")
	}
	if policy == nil || !policy.Enforcement.Enabled {
		t.Error("expected usable default policy despite malformed YAML")
	}
}

func TestLoad_OverlaysOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := `
enforcement:
  enabled: false
ci_validation:
  max_age_hours: 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	policy, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if policy.Enforcement.Enabled {
		t.Error("expected enforcement disabled from file")
	}
	if policy.CIValidation.MaxAgeHours != 0 {
		t.Errorf("expected max_age_hours 0, got %g", policy.CIValidation.MaxAgeHours)
	}
	// Untouched sections keep their defaults.
	if len(policy.BranchPatterns.Prefixes) == 0 {
		t.Error("expected default branch prefixes to survive the overlay")
	}
	if policy.Rule(models.PhasePlanning).Predecessor != string(models.PhaseInvestigation) {
		t.Error("expected default phase rules to survive the overlay")
	}
}

func TestPredecessorOf(t *testing.T) {
	policy := Default()

	if pred, ok := policy.PredecessorOf(models.PhaseInvestigation); ok {
		t.Errorf("expected investigation to have no predecessor, got %s", pred)
	}
	pred, ok := policy.PredecessorOf(models.PhaseMonitoring)
	if !ok || pred != models.PhasePRCreation {
		t.Errorf("expected pr_creation, got %s (ok=%v)", pred, ok)
	}
}

func TestTimeoutFor(t *testing.T) {
	policy := Default()

	if got := policy.TimeoutFor(models.PhaseImplementation); got != 90*time.Second {
		t.Errorf("expected 90s default timeout, got %s", got)
	}
	if got := policy.TimeoutFor(models.PhaseValidation); got != 900*time.Second {
		t.Errorf("expected 900s validation timeout, got %s", got)
	}
}

func TestIsMainline(t *testing.T) {
	policy := Default()

	if !policy.IsMainline("main") || !policy.IsMainline("master") {
		t.Error("expected main and master to be mainline")
	}
	if policy.IsMainline("feature/x") {
		t.Error("expected feature/x not to be mainline")
	}
}
