package models

// Ledger is the phase runner's lightweight resume cache: the indices of
// phases whose subprocess exited cleanly. It is persisted separately from
// WorkflowState and deleted on full success; it may lag the richer state
// file but never lead it, since an index is only appended after that
// phase's subprocess (which re-checks prerequisites against the state file)
// has exited 0.
type Ledger struct {
	IssueNumber     int   `json:"issue_number"`
	CompletedPhases []int `json:"completed_phases"`
}

// NewLedger creates an empty ledger for an issue.
func NewLedger(issueNumber int) *Ledger {
	return &Ledger{IssueNumber: issueNumber, CompletedPhases: []int{}}
}

// Contains reports whether the phase index is recorded as completed.
func (l *Ledger) Contains(index int) bool {
	for _, idx := range l.CompletedPhases {
		if idx == index {
			return true
		}
	}
	return false
}

// MarkCompleted appends the phase index if not already recorded.
func (l *Ledger) MarkCompleted(index int) {
	if !l.Contains(index) {
		l.CompletedPhases = append(l.CompletedPhases, index)
	}
}
