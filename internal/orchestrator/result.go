package orchestrator

import (
	"time"

	"collabctl/internal/topology"
)

// OutcomeStatus classifies what happened to one service during a batch
// operation.
type OutcomeStatus string

const (
	OutcomeStarted        OutcomeStatus = "started"
	OutcomeAlreadyRunning OutcomeStatus = "already-running"
	OutcomeRecreated      OutcomeStatus = "recreated"
	OutcomeStopped        OutcomeStatus = "stopped"
	OutcomeNotRunning     OutcomeStatus = "not-running"
	OutcomeRemoved        OutcomeStatus = "removed"
	OutcomeFailed         OutcomeStatus = "failed"
)

// TransitionState is the per-service lifecycle state the engine walks a
// service through during start and stop.
type TransitionState string

const (
	StateUnknown    TransitionState = "unknown"
	StateNotRunning TransitionState = "not-running"
	StateStarting   TransitionState = "starting"
	StateRunning    TransitionState = "running"
	StateStopping   TransitionState = "stopping"
	StateFailed     TransitionState = "failed"
)

// Outcome is the result of one service's transition within a batch. A
// failed transition carries its error; it never aborts the batch.
type Outcome struct {
	Service  topology.Service
	Status   OutcomeStatus
	Err      error
	Duration time.Duration
}

// OK reports whether the transition succeeded (including no-ops). An
// outcome carrying an error is a failure regardless of its status.
func (o Outcome) OK() bool {
	return o.Status != OutcomeFailed && o.Err == nil
}

// BatchResult aggregates per-service outcomes of one start/stop/restart
// invocation. Best-effort semantics: every selected service gets an
// outcome, failures included.
type BatchResult struct {
	Operation string
	Outcomes  []Outcome
}

func (r *BatchResult) record(svc topology.Service, status OutcomeStatus, err error, started time.Time) {
	r.Outcomes = append(r.Outcomes, Outcome{
		Service:  svc,
		Status:   status,
		Err:      err,
		Duration: time.Since(started),
	})
}

// Failed returns the outcomes that did not succeed.
func (r *BatchResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Succeeded reports whether every service in the batch succeeded.
func (r *BatchResult) Succeeded() bool {
	return len(r.Failed()) == 0
}

// Merge appends another batch's outcomes, keeping this batch's operation
// name. Restart uses it to combine its stop and start phases.
func (r *BatchResult) Merge(other *BatchResult) {
	if other == nil {
		return
	}
	r.Outcomes = append(r.Outcomes, other.Outcomes...)
}
