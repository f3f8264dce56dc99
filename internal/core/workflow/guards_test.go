package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/example/warden/internal/models"
)

// ============================================================================
// CanEnterPhase Tests
// ============================================================================

func TestCanEnterPhase_NoPredecessor(t *testing.T) {
	result := CanEnterPhase("", models.StatusPending)
	if !result.Allowed {
		t.Errorf("expected entry allowed with no predecessor, got denied: %s", result.Reason)
	}
}

func TestCanEnterPhase_PredecessorNotCompleted(t *testing.T) {
	for _, status := range []models.PhaseStatus{models.StatusPending, models.StatusInProgress, models.StatusFailed} {
		result := CanEnterPhase(models.PhasePlanning, status)
		if result.Allowed {
			t.Errorf("expected entry denied with predecessor %s", status)
		}
		if !strings.Contains(result.Reason, "Previous phase 'planning' not completed") {
			t.Errorf("unexpected reason: %s", result.Reason)
		}
	}
}

func TestCanEnterPhase_PredecessorCompleted(t *testing.T) {
	result := CanEnterPhase(models.PhasePlanning, models.StatusCompleted)
	if !result.Allowed {
		t.Errorf("expected entry allowed, got denied: %s", result.Reason)
	}
}

// ============================================================================
// CanSkipPhase Tests
// ============================================================================

func TestCanSkipPhase_Completed(t *testing.T) {
	result := CanSkipPhase(models.PhaseInvestigation, models.StatusCompleted)
	if result.Allowed {
		t.Fatal("expected skip denied for completed phase")
	}
	if !strings.Contains(result.Reason, "already completed") {
		t.Errorf("expected reason to contain 'already completed', got %q", result.Reason)
	}
}

func TestCanSkipPhase_InProgress(t *testing.T) {
	result := CanSkipPhase(models.PhasePlanning, models.StatusInProgress)
	if result.Allowed {
		t.Fatal("expected skip denied for in_progress phase")
	}
	if !strings.Contains(result.Reason, "already in_progress") {
		t.Errorf("expected reason to contain 'already in_progress', got %q", result.Reason)
	}
}

func TestCanSkipPhase_Pending(t *testing.T) {
	result := CanSkipPhase(models.PhaseInvestigation, models.StatusPending)
	if !result.Allowed {
		t.Errorf("expected skip allowed for pending phase, got denied: %s", result.Reason)
	}
}

func TestCanSkipPhase_Failed(t *testing.T) {
	result := CanSkipPhase(models.PhaseInvestigation, models.StatusFailed)
	if !result.Allowed {
		t.Errorf("expected skip allowed for failed phase, got denied: %s", result.Reason)
	}
}

// ============================================================================
// SkipEligible Tests
// ============================================================================

func TestSkipEligible_NotSkippable(t *testing.T) {
	if SkipEligible(false, "", map[string]any{"scope_is_clear": true}) {
		t.Error("expected not eligible when phase is not skippable")
	}
}

func TestSkipEligible_ConditionTrue(t *testing.T) {
	if !SkipEligible(true, "scope_is_clear", map[string]any{"scope_is_clear": true}) {
		t.Error("expected eligible when condition key is true")
	}
}

func TestSkipEligible_ConditionFalseOrAbsent(t *testing.T) {
	if SkipEligible(true, "scope_is_clear", map[string]any{"scope_is_clear": false}) {
		t.Error("expected not eligible when condition key is false")
	}
	if SkipEligible(true, "scope_is_clear", map[string]any{}) {
		t.Error("expected not eligible when condition key is absent")
	}
	if SkipEligible(true, "scope_is_clear", map[string]any{"scope_is_clear": "yes"}) {
		t.Error("expected not eligible when condition key is not a bool")
	}
}

func TestSkipEligible_NoCondition(t *testing.T) {
	if !SkipEligible(true, "", nil) {
		t.Error("expected eligible when skippable with no condition")
	}
}

// ============================================================================
// MissingOutputs Tests
// ============================================================================

func TestMissingOutputs_AllPresent(t *testing.T) {
	missing := MissingOutputs(
		[]string{"task_template_created", "scratchpad_created"},
		map[string]any{"task_template_created": true, "scratchpad_created": true},
	)
	if len(missing) != 0 {
		t.Errorf("expected no missing outputs, got %v", missing)
	}
}

func TestMissingOutputs_SortedStable(t *testing.T) {
	missing := MissingOutputs(
		[]string{"scratchpad_created", "documentation_committed", "task_template_created"},
		map[string]any{},
	)
	want := []string{"documentation_committed", "scratchpad_created", "task_template_created"}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing outputs, got %v", len(want), missing)
	}
	for i, key := range want {
		if missing[i] != key {
			t.Errorf("expected missing[%d]=%s, got %s", i, key, missing[i])
		}
	}
}

func TestMissingOutputs_FalseValueStillPresent(t *testing.T) {
	// Presence is about the key, not its truthiness.
	missing := MissingOutputs([]string{"ci_passed"}, map[string]any{"ci_passed": false})
	if len(missing) != 0 {
		t.Errorf("expected no missing outputs, got %v", missing)
	}
}

// ============================================================================
// MatchesFeatureBranch Tests
// ============================================================================

func TestMatchesFeatureBranch_Prefixes(t *testing.T) {
	prefixes := []string{"fix", "feature", "hotfix"}
	for _, branch := range []string{"fix/issue-42", "feature/login", "hotfix-2024"} {
		if !MatchesFeatureBranch(branch, prefixes, "") {
			t.Errorf("expected %q to match", branch)
		}
	}
	for _, branch := range []string{"main", "master", "fixture/foo", "release/1.0"} {
		if MatchesFeatureBranch(branch, prefixes, "") {
			t.Errorf("expected %q not to match", branch)
		}
	}
}

func TestMatchesFeatureBranch_CustomRegex(t *testing.T) {
	if !MatchesFeatureBranch("jira/ABC-123", nil, `^jira/[A-Z]+-\d+$`) {
		t.Error("expected custom regex to match")
	}
}

func TestMatchesFeatureBranch_InvalidRegexIgnored(t *testing.T) {
	if MatchesFeatureBranch("anything", nil, `([`) {
		t.Error("expected invalid regex to be ignored, not match")
	}
}

// ============================================================================
// MarkerFresh Tests
// ============================================================================

func TestMarkerFresh_ZeroBoundAnyAge(t *testing.T) {
	now := time.Now()
	if !MarkerFresh(now.Add(-1000*time.Hour), now, 0) {
		t.Error("expected any age to pass with a zero bound")
	}
}

func TestMarkerFresh_OneHourBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if MarkerFresh(now.Add(-90*time.Minute), now, 1) {
		t.Error("expected 90-minute-old marker to be stale with a 1-hour bound")
	}
	if !MarkerFresh(now.Add(-30*time.Minute), now, 1) {
		t.Error("expected 30-minute-old marker to be fresh with a 1-hour bound")
	}
	if MarkerFresh(now.Add(-61*time.Minute), now, 1) {
		t.Error("expected 61-minute-old marker to be stale")
	}
	if !MarkerFresh(now.Add(-59*time.Minute), now, 1) {
		t.Error("expected 59-minute-old marker to be fresh")
	}
}

// ============================================================================
// ResumePhase Tests
// ============================================================================

func defaultPredecessor(phase models.Phase) (models.Phase, bool) {
	return phase.DefaultPredecessor()
}

func statusMap(statuses map[models.Phase]models.PhaseStatus) func(models.Phase) models.PhaseStatus {
	return func(phase models.Phase) models.PhaseStatus {
		if s, ok := statuses[phase]; ok {
			return s
		}
		return models.StatusPending
	}
}

func TestResumePhase_InProgress(t *testing.T) {
	statusOf := statusMap(map[models.Phase]models.PhaseStatus{
		models.PhaseInvestigation:  models.StatusCompleted,
		models.PhasePlanning:       models.StatusCompleted,
		models.PhaseImplementation: models.StatusInProgress,
	})
	got := ResumePhase(statusOf, defaultPredecessor)
	if got != models.PhaseImplementation {
		t.Errorf("expected implementation, got %s", got)
	}
}

func TestResumePhase_NaturalNext(t *testing.T) {
	// Same answer as the in-progress path, reached differently.
	statusOf := statusMap(map[models.Phase]models.PhaseStatus{
		models.PhaseInvestigation: models.StatusCompleted,
		models.PhasePlanning:      models.StatusCompleted,
	})
	got := ResumePhase(statusOf, defaultPredecessor)
	if got != models.PhaseImplementation {
		t.Errorf("expected implementation, got %s", got)
	}
}

func TestResumePhase_FreshWorkflow(t *testing.T) {
	got := ResumePhase(statusMap(nil), defaultPredecessor)
	if got != models.PhaseInvestigation {
		t.Errorf("expected investigation, got %s", got)
	}
}

func TestResumePhase_AllCompleted(t *testing.T) {
	statuses := map[models.Phase]models.PhaseStatus{}
	for _, phase := range models.PhaseOrder {
		statuses[phase] = models.StatusCompleted
	}
	got := ResumePhase(statusMap(statuses), defaultPredecessor)
	if got != models.PhaseMonitoring {
		t.Errorf("expected monitoring, got %s", got)
	}
}

// ============================================================================
// ValidateChain Tests
// ============================================================================

func TestValidateChain_CompletedWithoutPredecessor(t *testing.T) {
	statusOf := statusMap(map[models.Phase]models.PhaseStatus{
		models.PhaseImplementation: models.StatusCompleted,
	})
	errs, _ := ValidateChain(statusOf, defaultPredecessor, func(models.Phase) bool { return false })
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0], "implementation") || !strings.Contains(errs[0], "planning") {
		t.Errorf("unexpected error: %s", errs[0])
	}
}

func TestValidateChain_SkippablePredecessorWarns(t *testing.T) {
	statusOf := statusMap(map[models.Phase]models.PhaseStatus{
		models.PhasePlanning: models.StatusCompleted,
	})
	skippable := func(phase models.Phase) bool { return phase == models.PhaseInvestigation }
	errs, warnings := ValidateChain(statusOf, defaultPredecessor, skippable)
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "investigation") {
		t.Errorf("unexpected warning: %s", warnings[0])
	}
}

func TestValidateChain_ConsistentState(t *testing.T) {
	statusOf := statusMap(map[models.Phase]models.PhaseStatus{
		models.PhaseInvestigation: models.StatusCompleted,
		models.PhasePlanning:      models.StatusCompleted,
	})
	errs, warnings := ValidateChain(statusOf, defaultPredecessor, func(models.Phase) bool { return false })
	if len(errs) != 0 || len(warnings) != 0 {
		t.Errorf("expected clean validation, got errors=%v warnings=%v", errs, warnings)
	}
}
