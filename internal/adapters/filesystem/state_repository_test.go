package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/warden/internal/models"
)

func TestStateRepository_LoadAbsentReturnsNil(t *testing.T) {
	repo := NewStateRepository(t.TempDir())

	state, err := repo.Load(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state != nil {
		t.Errorf("expected nil state for an unknown issue, got %+v", state)
	}
}

func TestStateRepository_RoundTrip(t *testing.T) {
	baseDir := t.TempDir()
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	state := models.NewWorkflowState(42, now, "2.0")
	ps := state.EnsurePhase(models.PhaseInvestigation)
	ps.Status = models.StatusCompleted
	ps.StartedAt = &now
	ps.CompletedAt = &now
	ps.Outputs = map[string]any{"findings_documented": true}
	state.CurrentPhase = models.PhaseInvestigation

	if err := NewStateRepository(baseDir).Save(ctx, state); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	// A fresh repository instance must see the same document.
	loaded, err := NewStateRepository(baseDir).Load(ctx, 42)
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a state document")
	}
	if loaded.IssueNumber != 42 {
		t.Errorf("expected issue 42, got %d", loaded.IssueNumber)
	}
	if loaded.CurrentPhase != models.PhaseInvestigation {
		t.Errorf("expected current_phase investigation, got %s", loaded.CurrentPhase)
	}
	if loaded.Metadata.EnforcerVersion != "2.0" {
		t.Errorf("expected enforcer_version 2.0, got %s", loaded.Metadata.EnforcerVersion)
	}

	got := loaded.Phases[models.PhaseInvestigation]
	if got == nil || got.Status != models.StatusCompleted {
		t.Fatalf("expected completed investigation, got %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Error("expected completion timestamp to survive the round trip")
	}
	if documented, _ := got.Outputs["findings_documented"].(bool); !documented {
		t.Errorf("expected outputs to survive the round trip, got %v", got.Outputs)
	}
}

func TestStateRepository_FilePerIssue(t *testing.T) {
	baseDir := t.TempDir()
	repo := NewStateRepository(baseDir)
	ctx := context.Background()
	now := time.Now()

	for _, issue := range []int{1, 2} {
		if err := repo.Save(ctx, models.NewWorkflowState(issue, now, "2.0")); err != nil {
			t.Fatalf("expected save to succeed, got %v", err)
		}
	}

	for _, issue := range []string{"issue-1.json", "issue-2.json"} {
		if _, err := os.Stat(filepath.Join(baseDir, "state", issue)); err != nil {
			t.Errorf("expected %s to exist: %v", issue, err)
		}
	}
}

func TestStateRepository_CorruptFile(t *testing.T) {
	baseDir := t.TempDir()
	path := filepath.Join(baseDir, "state", "issue-42.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewStateRepository(baseDir).Load(context.Background(), 42)
	if err == nil {
		t.Fatal("expected an error for a corrupt state file")
	}
	if !strings.Contains(err.Error(), "failed to parse state file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStateRepository_SaveLeavesNoTempFiles(t *testing.T) {
	baseDir := t.TempDir()
	repo := NewStateRepository(baseDir)
	ctx := context.Background()

	state := models.NewWorkflowState(42, time.Now(), "2.0")
	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, state); err != nil {
			t.Fatalf("expected save to succeed, got %v", err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(baseDir, "state"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "issue-42.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only issue-42.json, got %v", names)
	}
}
