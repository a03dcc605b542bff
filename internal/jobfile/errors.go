package jobfile

import (
	"fmt"

	"collator/internal/services"
)

// ViolationError reports a job file that breaks an expected convention.
type ViolationError struct {
	JobID     string
	Parameter string
	Reason    string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("job %s: parameter %s: %s", e.JobID, e.Parameter, e.Reason)
}

// Unwrap classifies the violation as a configuration invariant failure.
func (e *ViolationError) Unwrap() error {
	return services.ErrConfigInvariant
}
