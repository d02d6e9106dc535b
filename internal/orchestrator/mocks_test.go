package orchestrator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"collabctl/internal/runtime"
)

// fakeRuntime is an in-memory runtime.Client that records every call so
// tests can assert ordering and best-effort semantics.
type fakeRuntime struct {
	mu     sync.Mutex
	states map[string]runtime.ContainerState
	// calls records calls in issue order, formatted as "verb container".
	calls []string
	// failOn maps "verb container" to an error to inject.
	failOn map[string]error
	// networks holds the networks that already exist.
	networks map[string]bool
	pingErr  error
	// recreateEndsIn, when set, is the status a container lands in after
	// a recreate instead of running.
	recreateEndsIn runtime.Status
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		states:   make(map[string]runtime.ContainerState),
		failOn:   make(map[string]error),
		networks: make(map[string]bool),
	}
}

func (f *fakeRuntime) setState(container string, status runtime.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[container] = runtime.ContainerState{Name: container, Status: status, Health: runtime.HealthNone}
}

func (f *fakeRuntime) record(verb, container string) error {
	key := verb + " " + container
	f.calls = append(f.calls, key)
	if err, ok := f.failOn[key]; ok {
		return err
	}
	return nil
}

// callsMatching returns the containers of recorded calls with the verb.
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

func (f *fakeRuntime) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeRuntime) List(ctx context.Context, filter runtime.ListFilter) ([]runtime.ContainerSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []runtime.ContainerSummary
	for name, st := range f.states {
		if filter.NamePrefix != "" && !strings.HasPrefix(name, filter.NamePrefix) {
			continue
		}
		if filter.RunningOnly && st.Status != runtime.StatusRunning {
			continue
		}
		out = append(out, runtime.ContainerSummary{Name: name, Status: st.Status})
	}
	return out, nil
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
	if err := f.record("start", name); err != nil {
		return err
	}
	st := f.states[name]
	st.Name = name
	st.Status = runtime.StatusRunning
	f.states[name] = st
	return nil
}

func (f *fakeRuntime) Stop(ctx context.Context, name string, opts runtime.StopOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("stop", name); err != nil {
		return err
	}
	st := f.states[name]
	st.Name = name
	st.Status = runtime.StatusExited
	f.states[name] = st
	return nil
}

func (f *fakeRuntime) Kill(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("kill", name); err != nil {
		return err
	}
	st := f.states[name]
	st.Name = name
	st.Status = runtime.StatusExited
	f.states[name] = st
	return nil
}

func (f *fakeRuntime) Remove(ctx context.Context, name string, opts runtime.RemoveOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("remove", name); err != nil {
		return err
	}
	delete(f.states, name)
	return nil
}

func (f *fakeRuntime) Recreate(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("recreate", name); err != nil {
		return err
	}
	if _, ok := f.states[name]; !ok {
		return &runtime.PrerequisiteError{Reason: fmt.Sprintf("container %s does not exist", name)}
	}
	st := f.states[name]
	st.Status = runtime.StatusRunning
	if f.recreateEndsIn != "" {
		st.Status = f.recreateEndsIn
	}
	f.states[name] = st
	return nil
}

func (f *fakeRuntime) Exec(ctx context.Context, name string, opts runtime.ExecOptions) (runtime.ExecResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("exec", name); err != nil {
		return runtime.ExecResult{}, err
	}
	return runtime.ExecResult{ExitCode: 0}, nil
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
	if f.networks[name] {
		return false, nil
	}
	f.networks[name] = true
	return true, nil
}
