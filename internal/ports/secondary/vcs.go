package secondary

import "context"

// GitPort exposes the two version-control queries the enforcer needs.
type GitPort interface {
	// CurrentBranch returns the checked-out branch name in the working
	// directory.
	CurrentBranch(ctx context.Context) (string, error)

	// BranchExists reports whether any branch matches the given pattern.
	BranchExists(ctx context.Context, pattern string) (bool, error)
}

// PullRequestPort exposes the open-PR query used by the monitoring-phase
// prerequisite.
type PullRequestPort interface {
	// OpenPRHeads returns the head branch names of all open pull requests.
	OpenPRHeads(ctx context.Context) ([]string, error)
}
