// Package workflow contains the pure business logic for phase enforcement.
// Guards are pure functions that evaluate preconditions without side effects.
package workflow

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/example/warden/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanEnterPhase evaluates the prerequisite chain for entering a phase.
// Rules:
// - A phase with no predecessor may always be entered.
// - Otherwise the predecessor must be completed.
func CanEnterPhase(predecessor models.Phase, predecessorStatus models.PhaseStatus) GuardResult {
	if predecessor == "" {
		return GuardResult{Allowed: true}
	}
	if predecessorStatus != models.StatusCompleted {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Previous phase '%s' not completed", predecessor),
		}
	}
	return GuardResult{Allowed: true}
}

// CanSkipPhase evaluates whether a phase in the given status may be skipped.
// Rules:
// - A completed phase cannot be skipped again.
// - A phase that was started cannot be skipped.
func CanSkipPhase(phase models.Phase, status models.PhaseStatus) GuardResult {
	switch status {
	case models.StatusCompleted:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("phase '%s' already completed", phase),
		}
	case models.StatusInProgress:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("phase '%s' already in_progress", phase),
		}
	}
	return GuardResult{Allowed: true}
}

// SkipEligible evaluates the per-phase skip predicate: the phase must be
// marked skippable, and when a context key is configured that key must be
// true in the caller's context.
func SkipEligible(skippable bool, skipWhen string, context map[string]any) bool {
	if !skippable {
		return false
	}
	if skipWhen == "" {
		return true
	}
	value, ok := context[skipWhen].(bool)
	return ok && value
}

// MissingOutputs returns the required keys absent from outputs, sorted for
// stable messages.
func MissingOutputs(required []string, outputs map[string]any) []string {
	var missing []string
	for _, key := range required {
		if _, ok := outputs[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// MatchesFeatureBranch reports whether a branch name is recognized as a
// feature branch: either it starts with one of the allowed prefixes
// (prefix/...) or it matches the custom regex. An invalid custom regex is
// ignored rather than failing the check.
func MatchesFeatureBranch(branch string, prefixes []string, customRegex string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(branch, prefix+"/") || strings.HasPrefix(branch, prefix+"-") {
			return true
		}
	}
	if customRegex != "" {
		if re, err := regexp.Compile(customRegex); err == nil && re.MatchString(branch) {
			return true
		}
	}
	return false
}

// MarkerFresh reports whether a marker file modified at modTime satisfies a
// freshness bound of maxAgeHours relative to now. A zero bound means any
// age passes.
func MarkerFresh(modTime, now time.Time, maxAgeHours float64) bool {
	if maxAgeHours == 0 {
		return true
	}
	maxAge := time.Duration(maxAgeHours * float64(time.Hour))
	return now.Sub(modTime) <= maxAge
}

// ResumePhase computes the phase a workflow should continue from: the first
// phase in canonical order that is in_progress, or failing that the first
// phase whose predecessor is satisfied but which itself is not completed.
func ResumePhase(
	statusOf func(models.Phase) models.PhaseStatus,
	predecessorOf func(models.Phase) (models.Phase, bool),
) models.Phase {
	for _, phase := range models.PhaseOrder {
		if statusOf(phase) == models.StatusInProgress {
			return phase
		}
	}
	for _, phase := range models.PhaseOrder {
		if statusOf(phase) == models.StatusCompleted {
			continue
		}
		pred, ok := predecessorOf(phase)
		if !ok || statusOf(pred) == models.StatusCompleted {
			return phase
		}
	}
	// Every phase completed; the workflow rests at its final phase.
	return models.PhaseOrder[models.PhaseCount-1]
}

// ValidateChain cross-checks recorded phase statuses against the
// predecessor chain without mutating anything. A completed phase whose
// predecessor was never completed is an error, unless the predecessor is
// absent and skippable, which is only a warning.
func ValidateChain(
	statusOf func(models.Phase) models.PhaseStatus,
	predecessorOf func(models.Phase) (models.Phase, bool),
	skippable func(models.Phase) bool,
) (errors []string, warnings []string) {
	for _, phase := range models.PhaseOrder {
		if statusOf(phase) != models.StatusCompleted {
			continue
		}
		pred, ok := predecessorOf(phase)
		if !ok {
			continue
		}
		predStatus := statusOf(pred)
		if predStatus == models.StatusCompleted {
			continue
		}
		if predStatus == models.StatusPending && skippable(pred) {
			warnings = append(warnings,
				fmt.Sprintf("phase '%s' completed but skippable predecessor '%s' was never recorded", phase, pred))
			continue
		}
		errors = append(errors,
			fmt.Sprintf("phase '%s' completed but predecessor '%s' is %s", phase, pred, predStatus))
	}
	return errors, warnings
}
