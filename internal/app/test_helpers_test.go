package app

import (
	"context"
	"time"

	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// Ensure mocks implement their interfaces
var (
	_ secondary.StateRepository  = (*mockStateRepository)(nil)
	_ secondary.LedgerRepository = (*mockLedgerRepository)(nil)
	_ secondary.TransitionLog    = (*mockTransitionLog)(nil)
	_ secondary.GitPort          = (*mockGitPort)(nil)
	_ secondary.PullRequestPort  = (*mockPullRequestPort)(nil)
	_ secondary.FileChecker      = (*mockFileChecker)(nil)
	_ secondary.CommandRunner    = (*mockCommandRunner)(nil)
)

// mockStateRepository implements secondary.StateRepository for testing.
type mockStateRepository struct {
	states    map[int]*models.WorkflowState
	loadErr   error
	saveErr   error
	saveCount int
}

func newMockStateRepository() *mockStateRepository {
	return &mockStateRepository{states: make(map[int]*models.WorkflowState)}
}

func (m *mockStateRepository) Load(ctx context.Context, issueNumber int) (*models.WorkflowState, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.states[issueNumber], nil
}

func (m *mockStateRepository) Save(ctx context.Context, state *models.WorkflowState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCount++
	m.states[state.IssueNumber] = state
	return nil
}

// mockLedgerRepository implements secondary.LedgerRepository for testing.
type mockLedgerRepository struct {
	ledgers map[int]*models.Ledger
	deleted map[int]bool
	loadErr error
	saveErr error
}

func newMockLedgerRepository() *mockLedgerRepository {
	return &mockLedgerRepository{
		ledgers: make(map[int]*models.Ledger),
		deleted: make(map[int]bool),
	}
}

func (m *mockLedgerRepository) Load(ctx context.Context, issueNumber int) (*models.Ledger, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if ledger, ok := m.ledgers[issueNumber]; ok {
		return ledger, nil
	}
	return models.NewLedger(issueNumber), nil
}

func (m *mockLedgerRepository) Save(ctx context.Context, ledger *models.Ledger) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.ledgers[ledger.IssueNumber] = ledger
	return nil
}

func (m *mockLedgerRepository) Delete(ctx context.Context, issueNumber int) error {
	delete(m.ledgers, issueNumber)
	m.deleted[issueNumber] = true
	return nil
}

// mockTransitionLog implements secondary.TransitionLog for testing.
type mockTransitionLog struct {
	records   []*secondary.TransitionRecord
	recordErr error
}

func (m *mockTransitionLog) Record(ctx context.Context, record *secondary.TransitionRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.records = append(m.records, record)
	return nil
}

// mockGitPort implements secondary.GitPort for testing.
type mockGitPort struct {
	branch       string
	branchErr    error
	branchExists bool
}

func (m *mockGitPort) CurrentBranch(ctx context.Context) (string, error) {
	if m.branchErr != nil {
		return "", m.branchErr
	}
	return m.branch, nil
}

func (m *mockGitPort) BranchExists(ctx context.Context, pattern string) (bool, error) {
	return m.branchExists, nil
}

// mockPullRequestPort implements secondary.PullRequestPort for testing.
type mockPullRequestPort struct {
	heads    []string
	headsErr error
}

func (m *mockPullRequestPort) OpenPRHeads(ctx context.Context) ([]string, error) {
	if m.headsErr != nil {
		return nil, m.headsErr
	}
	return m.heads, nil
}

// mockFileChecker implements secondary.FileChecker for testing. Files maps
// a path to its modification time; globs maps a pattern to its matches.
type mockFileChecker struct {
	files map[string]time.Time
	globs map[string][]string
}

func newMockFileChecker() *mockFileChecker {
	return &mockFileChecker{
		files: make(map[string]time.Time),
		globs: make(map[string][]string),
	}
}

func (m *mockFileChecker) Glob(pattern string) ([]string, error) {
	return m.globs[pattern], nil
}

func (m *mockFileChecker) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *mockFileChecker) ModTime(path string) (time.Time, error) {
	return m.files[path], nil
}

// mockCommandRunner implements secondary.CommandRunner for testing. Results
// are consumed per call in order; calls beyond the script succeed.
type mockCommandRunner struct {
	script    []*secondary.CommandResult
	launchErr map[int]error // call index -> error
	calls     []secondary.CommandRequest
}

func newMockCommandRunner() *mockCommandRunner {
	return &mockCommandRunner{launchErr: make(map[int]error)}
}

func (m *mockCommandRunner) Run(ctx context.Context, req secondary.CommandRequest) (*secondary.CommandResult, error) {
	call := len(m.calls)
	m.calls = append(m.calls, req)
	if err, ok := m.launchErr[call]; ok {
		return nil, err
	}
	if call < len(m.script) {
		return m.script[call], nil
	}
	return &secondary.CommandResult{ExitCode: 0}, nil
}
