package health

import (
	"context"

	"collabctl/internal/runtime"
	"collabctl/pkg/logging"
)

// RemediationAction is one attempted auto-fix and its outcome.
type RemediationAction struct {
	Name   string
	Target string
	Err    error
}

// OK reports whether the action succeeded.
func (a RemediationAction) OK() bool { return a.Err == nil }

// Remediate runs the bounded list of safe auto-fixes for the given
// report: restart services whose runtime health check is failing, create
// the shared network if it is absent, and remove stopped containers that
// carry the deployment prefix but back no registered service. Each action
// is independent; one failing never blocks the others. It runs once and
// reports what it did. Storage capacity is deliberately not on this list:
// freeing disk space is an operator decision.
func (e *Evaluator) Remediate(ctx context.Context, report *Report) []RemediationAction {
	var actions []RemediationAction

	if !report.NetworkPresent {
		_, err := e.rt.EnsureNetwork(ctx, e.cfg.Deployment.Network)
		actions = append(actions, RemediationAction{
			Name:   "create-network",
			Target: e.cfg.Deployment.Network,
			Err:    err,
		})
	}

	for _, svc := range report.UnhealthyServices() {
		err := e.restartService(ctx, svc.Container)
		actions = append(actions, RemediationAction{
			Name:   "restart-service",
			Target: svc.Name,
			Err:    err,
		})
	}

	for _, action := range e.removeOrphans(ctx) {
		actions = append(actions, action)
	}

	for _, a := range actions {
		if a.Err != nil {
			logging.Warn("Health", "Remediation %s on %s failed: %v", a.Name, a.Target, a.Err)
		} else {
			logging.Info("Health", "Remediation %s on %s succeeded", a.Name, a.Target)
		}
	}
	return actions
}

func (e *Evaluator) restartService(ctx context.Context, container string) error {
	if err := e.rt.Stop(ctx, container, runtime.StopOptions{Timeout: e.cfg.Timing.StopTimeout}); err != nil {
		return err
	}
	return e.rt.Start(ctx, container)
}

// removeOrphans removes exited containers that carry the deployment
// prefix but are not part of the topology, leftovers of removed or
// renamed services. Registered services are never removed here: a stopped
// service is the orchestrator's business, not a health defect.
func (e *Evaluator) removeOrphans(ctx context.Context) []RemediationAction {
	var actions []RemediationAction

	list, err := e.rt.List(ctx, runtime.ListFilter{NamePrefix: e.cfg.Deployment.ContainerPrefix})
	if err != nil {
		return []RemediationAction{{Name: "remove-orphans", Target: "list", Err: err}}
	}

	registered := make(map[string]bool)
	for _, svc := range e.registry.All() {
		registered[svc.Container] = true
	}

	for _, c := range list {
		if registered[c.Name] || c.Status == runtime.StatusRunning {
			continue
		}
		err := e.rt.Remove(ctx, c.Name, runtime.RemoveOptions{})
		actions = append(actions, RemediationAction{
			Name:   "remove-orphan",
			Target: c.Name,
			Err:    err,
		})
	}
	return actions
}
