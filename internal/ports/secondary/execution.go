package secondary

import (
	"context"
	"time"
)

// CommandRequest describes one bounded external command execution.
type CommandRequest struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration // zero means no bound
}

// CommandResult captures the observable outcome of a finished command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// CommandRunner spawns an external command, waits for it with a hard
// wall-clock bound, and collects its exit code and output. Launch failures
// return an error; a non-zero exit or timeout is reported in the result.
type CommandRunner interface {
	Run(ctx context.Context, req CommandRequest) (*CommandResult, error)
}
