// Package exec implements bounded external command execution: spawn, wait
// with a hard wall-clock timeout, collect the exit code and output. The
// timeout kills the subprocess; there is no cooperative cancellation into a
// running phase beyond that.
package exec

import (
	"bytes"
	"context"
	"errors"
	osexec "os/exec"

	"github.com/example/warden/internal/ports/secondary"
)

// Runner implements the CommandRunner port with os/exec.
type Runner struct{}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the command and waits for it to exit or hit its bound.
// Launch failures return an error; non-zero exits and timeouts are reported
// in the result.
func (r *Runner) Run(ctx context.Context, req secondary.CommandRequest) (*secondary.CommandResult, error) {
	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(runCtx, req.Name, req.Args...)
	cmd.Dir = req.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &secondary.CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		TimedOut: errors.Is(runCtx.Err(), context.DeadlineExceeded),
	}

	if err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if result.TimedOut {
			// The kill on deadline surfaces as a non-ExitError on some
			// platforms; report it as a timeout, not a launch failure.
			result.ExitCode = -1
			return result, nil
		}
		return nil, err
	}

	return result, nil
}

// Ensure Runner implements the interface
var _ secondary.CommandRunner = (*Runner)(nil)
