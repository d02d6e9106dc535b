package health

import (
	"time"

	"collabctl/internal/runtime"
	"collabctl/internal/topology"
)

// ProbeResult is the outcome of one probe. Err is set when the probe
// could not complete at all (probe failure); a probe that ran and found
// something wrong reports that through its verdict (probe negative) with
// a nil Err.
type ProbeResult struct {
	Name    string
	Verdict Verdict
	Detail  string
	Err     error
}

// ServiceHealth is one service's probes and reduced verdict.
type ServiceHealth struct {
	Service topology.Service
	State   runtime.ContainerState
	Probes  []ProbeResult
	Verdict Verdict
}

// Report is the ephemeral result of one evaluation. Never persisted.
type Report struct {
	GeneratedAt time.Time
	Services    []ServiceHealth
	// Storage holds the filesystem probes for the shared data mount.
	Storage []ProbeResult
	// Host holds memory, disk, and load probes for the host itself.
	Host []ProbeResult
	// NetworkPresent reports whether the shared deployment network
	// exists. Informs remediation.
	NetworkPresent bool
	Overall        Verdict
}

// reduce computes every aggregate verdict in the report from the probes
// actually executed.
func (r *Report) reduce() {
	all := make([]Verdict, 0, len(r.Services)+len(r.Storage)+len(r.Host))

	for i := range r.Services {
		verdicts := make([]Verdict, 0, len(r.Services[i].Probes))
		for _, p := range r.Services[i].Probes {
			verdicts = append(verdicts, p.Verdict)
		}
		r.Services[i].Verdict = Worst(verdicts...)
		all = append(all, r.Services[i].Verdict)
	}
	for _, p := range r.Storage {
		all = append(all, p.Verdict)
	}
	for _, p := range r.Host {
		all = append(all, p.Verdict)
	}

	r.Overall = Overall(Worst(all...))
}

// UnhealthyServices lists services whose runtime health check reports
// unhealthy. These are the restart candidates for remediation.
func (r *Report) UnhealthyServices() []topology.Service {
	var out []topology.Service
	for _, sh := range r.Services {
		if sh.State.Health == runtime.HealthUnhealthy {
			out = append(out, sh.Service)
		}
	}
	return out
}
