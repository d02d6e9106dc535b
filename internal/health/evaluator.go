package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"collabctl/internal/config"
	"collabctl/internal/runtime"
	"collabctl/internal/topology"
	"collabctl/pkg/logging"
)

// Evaluator produces health reports for services by combining runtime
// state with protocol, filesystem, and host probes.
type Evaluator struct {
	registry   *topology.Registry
	rt         runtime.Client
	cfg        config.Config
	httpClient *http.Client
	host       hostStats
	fs         fsProber
}

// NewEvaluator wires an evaluator from its collaborators.
func NewEvaluator(registry *topology.Registry, rt runtime.Client, cfg config.Config) *Evaluator {
	timeout := cfg.Probes.HTTPTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Evaluator{
		registry:   registry,
		rt:         rt,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		host:       gopsutilStats{},
		fs:         osFSProber{},
	}
}

// Evaluate probes the selected services plus the shared storage mount and
// host resources, and reduces everything to a report. Unknown selections
// abort; everything else is fail-soft.
func (e *Evaluator) Evaluate(ctx context.Context, selection string) (*Report, error) {
	services, err := e.registry.Resolve(selection)
	if err != nil {
		return nil, err
	}
	if err := e.rt.Ping(ctx); err != nil {
		return nil, err
	}

	report := &Report{GeneratedAt: time.Now()}

	for _, svc := range services {
		report.Services = append(report.Services, e.evaluateService(ctx, svc))
	}

	if e.cfg.Probes.FSProbeEnabled() {
		report.Storage = e.storageProbes(e.cfg.Deployment.DataPath)
	}
	if e.cfg.Probes.HostProbeEnabled() {
		report.Host = e.hostProbes(ctx)
	}

	present, err := e.rt.NetworkExists(ctx, e.cfg.Deployment.Network)
	if err != nil {
		logging.Debug("Health", "network check failed: %v", err)
	}
	report.NetworkPresent = err == nil && present

	report.reduce()
	return report, nil
}

// evaluateService runs every applicable probe for one service.
func (e *Evaluator) evaluateService(ctx context.Context, svc topology.Service) ServiceHealth {
	sh := ServiceHealth{Service: svc}

	state, err := e.rt.Inspect(ctx, svc.Container)
	if err != nil {
		sh.Probes = append(sh.Probes, ProbeResult{
			Name:    "runtime",
			Verdict: VerdictUnhealthy,
			Detail:  "could not inspect container",
			Err:     err,
		})
		return sh
	}
	sh.State = state
	sh.Probes = append(sh.Probes, runtimeProbe(state))

	// Protocol probes only make sense against a running container.
	if state.Status == runtime.StatusRunning {
		if svc.Name == "mysql-server" && e.cfg.Probes.DBPingProbeEnabled() {
			sh.Probes = append(sh.Probes, e.dbPingProbe(ctx, svc))
		} else if svc.HTTPPort > 0 && e.cfg.Probes.HTTPProbeEnabled() {
			sh.Probes = append(sh.Probes, e.httpProbe(ctx, svc, state))
		}
	}

	return sh
}

// runtimeProbe maps engine status and built-in health checks to a verdict.
func runtimeProbe(state runtime.ContainerState) ProbeResult {
	p := ProbeResult{Name: "runtime"}

	switch state.Status {
	case runtime.StatusNotCreated:
		p.Verdict = VerdictUnhealthy
		p.Detail = "container not created"
	case runtime.StatusExited, runtime.StatusDead, runtime.StatusCreated:
		p.Verdict = VerdictUnhealthy
		p.Detail = fmt.Sprintf("container %s", state.Status)
	case runtime.StatusRestarting:
		p.Verdict = VerdictStarting
		p.Detail = "container restarting"
	case runtime.StatusPaused:
		p.Verdict = VerdictWarning
		p.Detail = "container paused"
	case runtime.StatusRunning:
		switch state.Health {
		case runtime.HealthStarting:
			p.Verdict = VerdictStarting
			p.Detail = "health check starting"
		case runtime.HealthUnhealthy:
			p.Verdict = VerdictUnhealthy
			p.Detail = "health check failing"
		default:
			p.Verdict = VerdictHealthy
			p.Detail = "running"
		}
	default:
		p.Verdict = VerdictWarning
		p.Detail = fmt.Sprintf("unrecognized status %q", state.Status)
	}

	return p
}

// httpProbe issues a GET against the service's published port. No
// published port means the probe is skipped, not failed: an internal-only
// service is not reachable from the host by design.
func (e *Evaluator) httpProbe(ctx context.Context, svc topology.Service, state runtime.ContainerState) ProbeResult {
	p := ProbeResult{Name: "http"}

	hostPort := 0
	for _, pm := range state.Ports {
		if pm.ContainerPort == svc.HTTPPort {
			hostPort = pm.HostPort
			break
		}
	}
	if hostPort == 0 {
		p.Verdict = VerdictSkipped
		p.Detail = "no published port"
		return p
	}

	url := fmt.Sprintf("http://localhost:%d/", hostPort)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		p.Verdict = VerdictUnhealthy
		p.Err = err
		return p
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		p.Verdict = VerdictUnhealthy
		p.Detail = "unreachable"
		p.Err = err
		return p
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		p.Verdict = VerdictUnhealthy
		p.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return p
	}

	p.Verdict = VerdictHealthy
	p.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
	return p
}

// dbPingProbe asks the database for a native ping from inside its own
// container, since the database is only reachable on the deployment
// network.
func (e *Evaluator) dbPingProbe(ctx context.Context, svc topology.Service) ProbeResult {
	p := ProbeResult{Name: "db-ping"}

	result, err := e.rt.Exec(ctx, svc.Container, runtime.ExecOptions{
		Cmd: []string{"mysqladmin", "ping", "--silent"},
	})
	if err != nil {
		// The probe itself could not run; distinct from a negative ping.
		p.Verdict = VerdictUnhealthy
		p.Detail = "ping could not be executed"
		p.Err = err
		return p
	}
	if result.ExitCode != 0 {
		p.Verdict = VerdictUnhealthy
		p.Detail = "database not answering ping"
		return p
	}

	p.Verdict = VerdictHealthy
	p.Detail = "database answering"
	return p
}

// storageProbes checks the shared data mount: present, actually mounted,
// writable, and under the usage thresholds.
func (e *Evaluator) storageProbes(path string) []ProbeResult {
	var out []ProbeResult

	exists, mounted, err := e.fs.CheckMount(path)
	mountProbe := ProbeResult{Name: "storage-mount"}
	switch {
	case err != nil:
		mountProbe.Verdict = VerdictCritical
		mountProbe.Detail = "mount check failed"
		mountProbe.Err = err
	case !exists:
		mountProbe.Verdict = VerdictCritical
		mountProbe.Detail = path + " does not exist"
	case !mounted:
		mountProbe.Verdict = VerdictWarning
		mountProbe.Detail = path + " is not a mount point"
	default:
		mountProbe.Verdict = VerdictHealthy
		mountProbe.Detail = path + " mounted"
	}
	out = append(out, mountProbe)
	if !exists || err != nil {
		return out
	}

	writeProbe := ProbeResult{Name: "storage-write"}
	if err := e.fs.WriteTest(path); err != nil {
		writeProbe.Verdict = VerdictCritical
		writeProbe.Detail = "write test failed"
		writeProbe.Err = err
	} else {
		writeProbe.Verdict = VerdictHealthy
		writeProbe.Detail = "writable"
	}
	out = append(out, writeProbe)

	usage, err := e.fs.UsagePercent(path)
	out = append(out, e.usageProbe("storage-usage", usage, err))

	return out
}

// hostProbes checks memory and disk against the threshold bands; load
// average is reported informationally and never degrades the verdict.
func (e *Evaluator) hostProbes(ctx context.Context) []ProbeResult {
	var out []ProbeResult

	memPct, err := e.host.MemoryUsedPercent(ctx)
	out = append(out, e.usageProbe("host-memory", memPct, err))

	diskPct, err := e.host.DiskUsedPercent(ctx, "/")
	out = append(out, e.usageProbe("host-disk", diskPct, err))

	load1, load5, load15, err := e.host.LoadAverage(ctx)
	loadProbe := ProbeResult{Name: "host-load", Verdict: VerdictHealthy}
	if err != nil {
		loadProbe.Verdict = VerdictSkipped
		loadProbe.Detail = "load average unavailable"
		loadProbe.Err = err
	} else {
		loadProbe.Detail = fmt.Sprintf("load average %.2f %.2f %.2f", load1, load5, load15)
	}
	out = append(out, loadProbe)

	return out
}

// usageProbe classifies a usage percentage against the configured bands.
func (e *Evaluator) usageProbe(name string, pct float64, err error) ProbeResult {
	p := ProbeResult{Name: name}
	if err != nil {
		p.Verdict = VerdictWarning
		p.Detail = "usage unavailable"
		p.Err = err
		return p
	}

	p.Detail = fmt.Sprintf("%.0f%% used", pct)
	switch {
	case pct >= e.cfg.Thresholds.CriticalPercent:
		p.Verdict = VerdictCritical
	case pct >= e.cfg.Thresholds.WarnPercent:
		p.Verdict = VerdictWarning
	default:
		p.Verdict = VerdictHealthy
	}
	return p
}
