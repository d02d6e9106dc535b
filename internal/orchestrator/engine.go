// Package orchestrator drives service lifecycle transitions in dependency
// order against the container runtime. Batches are best-effort: a failed
// transition is recorded and the batch moves on; only an unknown selection
// or an unreachable runtime aborts the whole invocation.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"collabctl/internal/config"
	"collabctl/internal/runtime"
	"collabctl/internal/topology"
	"collabctl/pkg/logging"
)

// StartOptions controls a start batch.
type StartOptions struct {
	// SSL selects the HTTPS proxy profile. Certificate provisioning is
	// handled outside this tool; the flag only records which profile the
	// batch expects to come up. It does not change ordering.
	SSL bool
	// ForceRecreate tears each container down and rebuilds it from its
	// recorded configuration before starting.
	ForceRecreate bool
}

// StopOptions controls a stop batch.
type StopOptions struct {
	// Force kills instead of gracefully stopping.
	Force bool
	// Remove deletes the container after it has stopped.
	Remove bool
	// RemoveVolumes also deletes the container's anonymous volumes.
	// Ignored unless Remove is set.
	RemoveVolumes bool
	// Timeout bounds each graceful stop. Zero means the configured
	// default.
	Timeout time.Duration
}

// RestartOptions controls a restart batch.
type RestartOptions struct {
	// Hard forces the stop and recreates containers on start.
	Hard bool
	// Wait overrides the pause between the stop and start phases.
	Wait time.Duration
	SSL  bool
}

// Engine computes dependency order from the topology registry and issues
// lifecycle commands to the runtime client.
type Engine struct {
	registry *topology.Registry
	rt       runtime.Client
	cfg      config.Config
	// sleep is swapped out in tests so settle intervals don't slow them.
	sleep func(ctx context.Context, d time.Duration)
}

// NewEngine wires an engine from its collaborators.
func NewEngine(registry *topology.Registry, rt runtime.Client, cfg config.Config) *Engine {
	return &Engine{
		registry: registry,
		rt:       rt,
		cfg:      cfg,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Plan resolves a selection and returns the order the engine would walk
// it in, without touching the runtime. Used by --dry-run.
func (e *Engine) Plan(selection string, reverse bool) ([]topology.Service, error) {
	services, err := e.registry.Resolve(selection)
	if err != nil {
		return nil, err
	}
	if reverse {
		return e.registry.ReverseDependencyOrder(services)
	}
	return e.registry.DependencyOrder(services)
}

// Start brings the selected services up in dependency order. The shared
// network is ensured once per batch before any service starts.
func (e *Engine) Start(ctx context.Context, selection string, opts StartOptions) (*BatchResult, error) {
	ordered, err := e.Plan(selection, false)
	if err != nil {
		return nil, err
	}

	if err := e.rt.Ping(ctx); err != nil {
		return nil, err
	}
	if _, err := e.rt.EnsureNetwork(ctx, e.cfg.Deployment.Network); err != nil {
		return nil, err
	}

	if opts.SSL {
		logging.Info("Orchestrator", "Starting with the SSL proxy profile")
	}

	result := &BatchResult{Operation: "start"}
	for i, svc := range ordered {
		began := time.Now()
		status, err := e.startOne(ctx, svc, opts)
		result.record(svc, status, err, began)

		if err != nil {
			logging.Error("Orchestrator", err, "Failed to start %s", svc.Name)
			continue
		}
		logging.Info("Orchestrator", "Service %s: %s", svc.Name, status)

		// Let each freshly started service settle before its dependents
		// start; no pause after the last one or after no-ops.
		if status != OutcomeAlreadyRunning && i < len(ordered)-1 {
			e.sleep(ctx, e.cfg.Timing.SettleInterval)
		}
	}
	return result, nil
}

func (e *Engine) startOne(ctx context.Context, svc topology.Service, opts StartOptions) (OutcomeStatus, error) {
	if opts.ForceRecreate {
		if err := e.rt.Recreate(ctx, svc.Container); err != nil {
			return OutcomeFailed, err
		}
		// Starting -> Failed if the recreated container never settles.
		if err := e.confirmRunning(ctx, svc, "start"); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeRecreated, nil
	}

	state, err := e.rt.Inspect(ctx, svc.Container)
	if err != nil {
		return OutcomeFailed, err
	}

	switch {
	case state.Status == runtime.StatusRunning:
		return OutcomeAlreadyRunning, nil
	case !state.Exists():
		return OutcomeFailed, &runtime.PrerequisiteError{
			Reason: "container " + svc.Container + " does not exist; run the deployment installer first",
		}
	}

	// NotRunning -> Starting
	if err := e.rt.Start(ctx, svc.Container); err != nil {
		return OutcomeFailed, err
	}

	// Starting -> Running, or Failed if the runtime reports otherwise.
	if err := e.confirmRunning(ctx, svc, "start"); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeStarted, nil
}

// confirmRunning re-inspects a service after a start command and fails
// the transition if the runtime does not report it running.
func (e *Engine) confirmRunning(ctx context.Context, svc topology.Service, op string) error {
	state, err := e.rt.Inspect(ctx, svc.Container)
	if err != nil {
		return err
	}
	if state.Status != runtime.StatusRunning {
		return &TransitionTimeoutError{Service: svc.Name, Op: op, Timeout: e.cfg.Timing.CallTimeout}
	}
	return nil
}

// Stop brings the selected services down in reverse dependency order.
// Stopping a service that is not running is a no-op success.
func (e *Engine) Stop(ctx context.Context, selection string, opts StopOptions) (*BatchResult, error) {
	ordered, err := e.Plan(selection, true)
	if err != nil {
		return nil, err
	}

	if err := e.rt.Ping(ctx); err != nil {
		return nil, err
	}

	if opts.Timeout <= 0 {
		opts.Timeout = e.cfg.Timing.StopTimeout
	}

	result := &BatchResult{Operation: "stop"}
	for _, svc := range ordered {
		began := time.Now()
		status, err := e.stopOne(ctx, svc, opts)
		result.record(svc, status, err, began)
		if err != nil {
			logging.Error("Orchestrator", err, "Failed to stop %s", svc.Name)
			continue
		}
		logging.Info("Orchestrator", "Service %s: %s", svc.Name, status)
	}
	return result, nil
}

func (e *Engine) stopOne(ctx context.Context, svc topology.Service, opts StopOptions) (OutcomeStatus, error) {
	state, err := e.rt.Inspect(ctx, svc.Container)
	if err != nil {
		return OutcomeFailed, err
	}

	if state.Status != runtime.StatusRunning && state.Status != runtime.StatusRestarting && state.Status != runtime.StatusPaused {
		// Already down. Remove still applies when requested.
		if opts.Remove && state.Exists() {
			if err := e.rt.Remove(ctx, svc.Container, runtime.RemoveOptions{Force: opts.Force, RemoveVolumes: opts.RemoveVolumes}); err != nil {
				return OutcomeFailed, err
			}
			return OutcomeRemoved, nil
		}
		return OutcomeNotRunning, nil
	}

	// Running -> Stopping
	if opts.Force {
		if err := e.rt.Kill(ctx, svc.Container); err != nil {
			return OutcomeFailed, err
		}
	} else {
		if err := e.rt.Stop(ctx, svc.Container, runtime.StopOptions{Timeout: opts.Timeout}); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return OutcomeFailed, &TransitionTimeoutError{Service: svc.Name, Op: "stop", Timeout: opts.Timeout}
			}
			return OutcomeFailed, err
		}
	}

	// Stopping -> NotRunning, confirmed by a fresh inspect.
	state, err = e.rt.Inspect(ctx, svc.Container)
	if err != nil {
		return OutcomeFailed, err
	}
	if state.Status == runtime.StatusRunning {
		return OutcomeFailed, &TransitionTimeoutError{Service: svc.Name, Op: "stop", Timeout: opts.Timeout}
	}

	if opts.Remove {
		if err := e.rt.Remove(ctx, svc.Container, runtime.RemoveOptions{Force: opts.Force, RemoveVolumes: opts.RemoveVolumes}); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeRemoved, nil
	}
	return OutcomeStopped, nil
}

// Restart composes Stop then Start with an interposed wait. It never
// reimplements ordering: both phases delegate to the same Stop and Start
// used directly, so the ordering invariants hold by construction.
func (e *Engine) Restart(ctx context.Context, selection string, opts RestartOptions) (*BatchResult, error) {
	stopResult, err := e.Stop(ctx, selection, StopOptions{Force: opts.Hard})
	if err != nil {
		return nil, err
	}

	wait := opts.Wait
	if wait <= 0 {
		wait = e.cfg.Timing.RestartWait
	}
	e.sleep(ctx, wait)

	startResult, err := e.Start(ctx, selection, StartOptions{
		SSL: opts.SSL,
		// A hard restart rebuilds containers from their recorded
		// configuration, which covers the remove half of stop+remove.
		ForceRecreate: opts.Hard,
	})
	if err != nil {
		return stopResult, err
	}

	result := &BatchResult{Operation: "restart"}
	result.Merge(stopResult)
	result.Merge(startResult)
	return result, nil
}
