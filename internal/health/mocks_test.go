package health

import (
	"context"
	"io"
	"strings"
	"sync"

	"collabctl/internal/runtime"
)

// fakeRuntime is a minimal in-memory runtime.Client for evaluator tests.
type fakeRuntime struct {
	mu         sync.Mutex
	states     map[string]runtime.ContainerState
	execExit   map[string]int
	execErr    map[string]error
	networks   map[string]bool
	calls      []string
	failOn     map[string]error
	listResult []runtime.ContainerSummary
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		states:   make(map[string]runtime.ContainerState),
		execExit: make(map[string]int),
		execErr:  make(map[string]error),
		networks: make(map[string]bool),
		failOn:   make(map[string]error),
	}
}

func (f *fakeRuntime) setRunning(container string, health runtime.Health) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[container] = runtime.ContainerState{
		Name:   container,
		Status: runtime.StatusRunning,
		Health: health,
	}
}

func (f *fakeRuntime) record(verb, target string) error {
	key := verb + " " + target
	f.calls = append(f.calls, key)
	return f.failOn[key]
}

func (f *fakeRuntime) callsMatching(verb string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, verb+" ") {
			out = append(out, strings.TrimPrefix(c, verb+" "))
		}
	}
	return out
}

func (f *fakeRuntime) Ping(ctx context.Context) error { return nil }

func (f *fakeRuntime) List(ctx context.Context, filter runtime.ListFilter) ([]runtime.ContainerSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list", filter.NamePrefix); err != nil {
		return nil, err
	}
	return f.listResult, nil
}

func (f *fakeRuntime) Inspect(ctx context.Context, name string) (runtime.ContainerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("inspect", name); err != nil {
		return runtime.ContainerState{}, err
	}
	st, ok := f.states[name]
	if !ok {
		return runtime.ContainerState{Name: name, Status: runtime.StatusNotCreated, Health: runtime.HealthNone}, nil
	}
	return st, nil
}

func (f *fakeRuntime) Start(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("start", name)
}

func (f *fakeRuntime) Stop(ctx context.Context, name string, opts runtime.StopOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("stop", name)
}

func (f *fakeRuntime) Kill(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("kill", name)
}

func (f *fakeRuntime) Remove(ctx context.Context, name string, opts runtime.RemoveOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("remove", name)
}

func (f *fakeRuntime) Recreate(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("recreate", name)
}

func (f *fakeRuntime) Exec(ctx context.Context, name string, opts runtime.ExecOptions) (runtime.ExecResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("exec", name); err != nil {
		return runtime.ExecResult{}, err
	}
	if err, ok := f.execErr[name]; ok && err != nil {
		return runtime.ExecResult{}, err
	}
	return runtime.ExecResult{ExitCode: f.execExit[name]}, nil
}

func (f *fakeRuntime) Logs(ctx context.Context, name string, opts runtime.LogOptions) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeRuntime) NetworkExists(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.networks[name], nil
}

func (f *fakeRuntime) EnsureNetwork(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ensure-network", name); err != nil {
		return false, err
	}
	created := !f.networks[name]
	f.networks[name] = true
	return created, nil
}

// fixedHostStats returns canned host readings.
type fixedHostStats struct {
	memPct  float64
	diskPct float64
	loadErr error
}

func (s fixedHostStats) MemoryUsedPercent(ctx context.Context) (float64, error) {
	return s.memPct, nil
}

func (s fixedHostStats) DiskUsedPercent(ctx context.Context, path string) (float64, error) {
	return s.diskPct, nil
}

func (s fixedHostStats) LoadAverage(ctx context.Context) (float64, float64, float64, error) {
	if s.loadErr != nil {
		return 0, 0, 0, s.loadErr
	}
	return 0.4, 0.3, 0.2, nil
}

// fixedFSProber returns canned filesystem readings.
type fixedFSProber struct {
	exists   bool
	mounted  bool
	writeErr error
	usagePct float64
}

func (p fixedFSProber) CheckMount(path string) (bool, bool, error) {
	return p.exists, p.mounted, nil
}

func (p fixedFSProber) WriteTest(path string) error {
	return p.writeErr
}

func (p fixedFSProber) UsagePercent(path string) (float64, error) {
	return p.usagePct, nil
}
