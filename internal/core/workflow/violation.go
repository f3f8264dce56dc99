package workflow

import (
	"fmt"

	"github.com/example/warden/internal/models"
)

// ViolationError is raised by the hook layer when an agent caller must not
// proceed past a rules violation. It is deliberately a distinct type so
// programmatic callers can branch on it with errors.As, in contrast to the
// enforcer's softer boolean-return contract.
type ViolationError struct {
	Phase   models.Phase
	Message string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("workflow violation in phase '%s': %s", e.Phase, e.Message)
}
