package orchestrator

import (
	"fmt"
	"time"
)

// TransitionTimeoutError means a start or stop command was issued but the
// service did not settle within its bound. Recorded per service; never
// aborts the batch.
type TransitionTimeoutError struct {
	Service string
	Op      string
	Timeout time.Duration
}

func (e *TransitionTimeoutError) Error() string {
	return fmt.Sprintf("%s of %s did not settle within %s", e.Op, e.Service, e.Timeout)
}
