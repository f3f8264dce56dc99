// Package git shells out to the git and gh CLIs for the version-control
// queries the enforcer needs.
package git

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/example/warden/internal/ports/secondary"
)

// Adapter implements GitPort against a working directory.
type Adapter struct {
	dir string // empty means the process working directory
}

// NewAdapter creates a git adapter for the given directory.
func NewAdapter(dir string) *Adapter {
	return &Adapter{dir: dir}
}

// CurrentBranch returns the checked-out branch name.
func (a *Adapter) CurrentBranch(ctx context.Context) (string, error) {
	out, err := a.runGit(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// BranchExists reports whether any local branch matches the pattern.
func (a *Adapter) BranchExists(ctx context.Context, pattern string) (bool, error) {
	out, err := a.runGit(ctx, "branch", "--list", pattern)
	if err != nil {
		return false, fmt.Errorf("failed to list branches: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

func (a *Adapter) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = a.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w (%s)", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Ensure Adapter implements the interface
var _ secondary.GitPort = (*Adapter)(nil)

// PullRequestAdapter implements PullRequestPort via the gh CLI.
type PullRequestAdapter struct {
	dir string
}

// NewPullRequestAdapter creates a gh-backed PR adapter.
func NewPullRequestAdapter(dir string) *PullRequestAdapter {
	return &PullRequestAdapter{dir: dir}
}

// OpenPRHeads returns the head branch names of all open pull requests.
func (a *PullRequestAdapter) OpenPRHeads(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "gh", "pr", "list", "--state", "open", "--json", "headRefName")
	cmd.Dir = a.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("gh pr list: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	var prs []struct {
		HeadRefName string `json:"headRefName"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &prs); err != nil {
		return nil, fmt.Errorf("failed to parse gh pr list output: %w", err)
	}

	heads := make([]string, len(prs))
	for i, pr := range prs {
		heads[i] = pr.HeadRefName
	}
	return heads, nil
}

// Ensure PullRequestAdapter implements the interface
var _ secondary.PullRequestPort = (*PullRequestAdapter)(nil)
