// Package runtime wraps the Docker Engine API behind a narrow interface.
// The orchestrator and health evaluator consume this interface and never
// import Docker types directly, which keeps them testable against fakes.
//
// Every call is synchronous and bounded by a per-call timeout; the one
// exception is log streaming in follow mode, which blocks until the
// caller's context is cancelled.
package runtime

import (
	"context"
	"io"
	"time"
)

// Status is a container's lifecycle status as reported by the engine.
type Status string

const (
	StatusNotCreated Status = "not-created"
	StatusCreated    Status = "created"
	StatusRunning    Status = "running"
	StatusPaused     Status = "paused"
	StatusRestarting Status = "restarting"
	StatusExited     Status = "exited"
	StatusDead       Status = "dead"
)

// Health is the engine's built-in health-check verdict for a container.
type Health string

const (
	HealthNone      Health = "none"
	HealthStarting  Health = "starting"
	HealthHealthy   Health = "healthy"
	HealthUnhealthy Health = "unhealthy"
)

// ContainerState is a point-in-time snapshot of one container. It is
// queried fresh on every read; the engine owns the authoritative state.
type ContainerState struct {
	Name      string
	ID        string
	Status    Status
	Health    Health
	StartedAt time.Time
	ExitCode  int
	Ports     []PortMapping
	Mounts    []MountPoint
}

// Exists reports whether the container has been created at all.
func (s ContainerState) Exists() bool {
	return s.Status != StatusNotCreated
}

// PortMapping is one published port.
type PortMapping struct {
	ContainerPort int
	HostPort      int
	Protocol      string
}

// MountPoint is one mounted volume or bind.
type MountPoint struct {
	Source      string
	Destination string
}

// ContainerSummary is one row of a container listing.
type ContainerSummary struct {
	Name   string
	ID     string
	Image  string
	Status Status
}

// ListFilter narrows a container listing.
type ListFilter struct {
	// NamePrefix keeps only containers whose name starts with the prefix.
	NamePrefix string
	// RunningOnly keeps only running containers.
	RunningOnly bool
}

// ExecOptions controls command execution inside a running container.
type ExecOptions struct {
	Cmd         []string
	User        string
	WorkingDir  string
	Env         []string
	Interactive bool
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

// ExecResult is the outcome of a completed exec.
type ExecResult struct {
	ExitCode int
}

// LogOptions bounds a log fetch.
type LogOptions struct {
	Tail   int
	Since  string
	Until  string
	Follow bool
}

// StopOptions bounds a container stop.
type StopOptions struct {
	Timeout time.Duration
}

// RemoveOptions controls container removal.
type RemoveOptions struct {
	Force         bool
	RemoveVolumes bool
}

// Client is the runtime interface the rest of the tool consumes.
type Client interface {
	// Ping verifies the engine is reachable.
	Ping(ctx context.Context) error

	// List returns containers matching the filter.
	List(ctx context.Context, filter ListFilter) ([]ContainerSummary, error)

	// Inspect returns the current state of a container. A container that
	// does not exist yields StatusNotCreated, not an error.
	Inspect(ctx context.Context, name string) (ContainerState, error)

	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string, opts StopOptions) error
	Kill(ctx context.Context, name string) error
	Remove(ctx context.Context, name string, opts RemoveOptions) error

	// Recreate tears a container down and builds it again from its own
	// recorded configuration: stop, remove, create with the same config,
	// start. Volumes are preserved.
	Recreate(ctx context.Context, name string) error

	// Exec runs a command inside a running container and waits for it.
	Exec(ctx context.Context, name string, opts ExecOptions) (ExecResult, error)

	// Logs returns a reader over the container's log stream. The caller
	// must close it. With Follow set the stream ends only when ctx is
	// cancelled.
	Logs(ctx context.Context, name string, opts LogOptions) (io.ReadCloser, error)

	// NetworkExists reports whether the named network is present.
	NetworkExists(ctx context.Context, name string) (bool, error)

	// EnsureNetwork creates the named bridge network if it is absent.
	// Returns true when the network was created by this call.
	EnsureNetwork(ctx context.Context, name string) (bool, error)
}
