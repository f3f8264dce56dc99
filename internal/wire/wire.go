// Package wire provides dependency injection for the warden application.
// Services are constructed per issue; shared infrastructure (the audit
// database) is opened once.
package wire

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/example/warden/internal/adapters/exec"
	"github.com/example/warden/internal/adapters/filesystem"
	"github.com/example/warden/internal/adapters/git"
	"github.com/example/warden/internal/adapters/sqlite"
	"github.com/example/warden/internal/app"
	"github.com/example/warden/internal/config"
	"github.com/example/warden/internal/db"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
)

var (
	auditOnce sync.Once
	auditLog  secondary.TransitionLog
)

// transitionLog opens the audit database once per process. The audit log is
// advisory, so an open failure means running without it rather than failing.
func transitionLog(baseDir string) secondary.TransitionLog {
	auditOnce.Do(func() {
		database, err := db.Open(filepath.Join(baseDir, "warden.db"))
		if err != nil {
			return
		}
		auditLog = sqlite.NewTransitionLogRepository(database)
	})
	return auditLog
}

// Enforcer returns an enforcer service for one issue.
func Enforcer(issueNumber int, baseDir string, policy *config.Policy) primary.EnforcerService {
	return app.NewEnforcerService(
		issueNumber,
		policy,
		filesystem.NewStateRepository(baseDir),
		transitionLog(baseDir),
		git.NewAdapter(""),
		git.NewPullRequestAdapter(""),
		filesystem.NewFileChecker(),
	)
}

// Hooks returns agent hooks wrapping a fresh enforcer for one issue.
func Hooks(issueNumber int, baseDir string, policy *config.Policy) primary.AgentHooks {
	return app.NewAgentHooks(Enforcer(issueNumber, baseDir, policy))
}

// Runner returns a phase runner for one issue, writing progress to stdout.
func Runner(issueNumber int, baseDir string, policy *config.Policy) primary.PhaseRunner {
	return app.NewPhaseRunner(
		issueNumber,
		policy,
		filesystem.NewLedgerRepository(baseDir),
		exec.NewRunner(),
		os.Stdout,
		os.Executable,
	)
}

// CommandRunner returns the bounded subprocess executor.
func CommandRunner() secondary.CommandRunner {
	return exec.NewRunner()
}
