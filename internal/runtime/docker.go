package runtime

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	"collabctl/pkg/logging"
)

// DockerClient implements Client against the Docker Engine API.
type DockerClient struct {
	api         *client.Client
	callTimeout time.Duration
}

// NewDockerClient connects to the engine using the standard environment
// (DOCKER_HOST et al.). callTimeout bounds every individual API call
// except follow-mode log streams.
func NewDockerClient(callTimeout time.Duration) (*DockerClient, error) {
	api, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, &RuntimeUnavailableError{Cause: err}
	}
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &DockerClient{api: api, callTimeout: callTimeout}, nil
}

// Close releases the underlying HTTP client.
func (d *DockerClient) Close() error {
	return d.api.Close()
}

func (d *DockerClient) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.callTimeout)
}

func (d *DockerClient) Ping(ctx context.Context) error {
	ctx, cancel := d.bounded(ctx)
	defer cancel()

	if _, err := d.api.Ping(ctx); err != nil {
		return &RuntimeUnavailableError{Cause: err}
	}
	return nil
}

func (d *DockerClient) List(ctx context.Context, filter ListFilter) ([]ContainerSummary, error) {
	ctx, cancel := d.bounded(ctx)
	defer cancel()

	opts := container.ListOptions{All: !filter.RunningOnly}
	if filter.NamePrefix != "" {
		opts.Filters = filters.NewArgs(filters.Arg("name", filter.NamePrefix))
	}

	list, err := d.api.ContainerList(ctx, opts)
	if err != nil {
		return nil, wrapEngineErr(err)
	}

	out := make([]ContainerSummary, 0, len(list))
	for _, c := range list {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		// The name filter matches substrings; enforce the prefix here.
		if filter.NamePrefix != "" && !strings.HasPrefix(name, filter.NamePrefix) {
			continue
		}
		out = append(out, ContainerSummary{
			Name:   name,
			ID:     c.ID,
			Image:  c.Image,
			Status: Status(c.State),
		})
	}
	return out, nil
}

func (d *DockerClient) Inspect(ctx context.Context, name string) (ContainerState, error) {
	ctx, cancel := d.bounded(ctx)
	defer cancel()

	info, err := d.api.ContainerInspect(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return ContainerState{Name: name, Status: StatusNotCreated, Health: HealthNone}, nil
		}
		return ContainerState{}, wrapEngineErr(err)
	}

	state := ContainerState{
		Name:   strings.TrimPrefix(info.Name, "/"),
		ID:     info.ID,
		Status: StatusCreated,
		Health: HealthNone,
	}

	if info.State != nil {
		state.Status = Status(info.State.Status)
		state.ExitCode = info.State.ExitCode
		if t, err := time.Parse(time.RFC3339Nano, info.State.StartedAt); err == nil {
			state.StartedAt = t
		}
		if info.State.Health != nil {
			state.Health = Health(info.State.Health.Status)
		}
	}

	if info.NetworkSettings != nil {
		state.Ports = portMappings(info.NetworkSettings.Ports)
	}

	for _, m := range info.Mounts {
		state.Mounts = append(state.Mounts, MountPoint{
			Source:      m.Source,
			Destination: m.Destination,
		})
	}

	return state, nil
}

func (d *DockerClient) Start(ctx context.Context, name string) error {
	ctx, cancel := d.bounded(ctx)
	defer cancel()

	if err := d.api.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		return wrapEngineErr(err)
	}
	return nil
}

func (d *DockerClient) Stop(ctx context.Context, name string, opts StopOptions) error {
	// The engine enforces its own stop timeout; bound the API call a
	// little beyond it so a graceful stop is not cut short by us.
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout+d.callTimeout)
	defer cancel()

	secs := int(timeout.Seconds())
	if err := d.api.ContainerStop(ctx, name, container.StopOptions{Timeout: &secs}); err != nil {
		return wrapEngineErr(err)
	}
	return nil
}

func (d *DockerClient) Kill(ctx context.Context, name string) error {
	ctx, cancel := d.bounded(ctx)
	defer cancel()

	if err := d.api.ContainerKill(ctx, name, "SIGKILL"); err != nil {
		return wrapEngineErr(err)
	}
	return nil
}

func (d *DockerClient) Remove(ctx context.Context, name string, opts RemoveOptions) error {
	ctx, cancel := d.bounded(ctx)
	defer cancel()

	err := d.api.ContainerRemove(ctx, name, container.RemoveOptions{
		Force:         opts.Force,
		RemoveVolumes: opts.RemoveVolumes,
	})
	if err != nil && !client.IsErrNotFound(err) {
		return wrapEngineErr(err)
	}
	return nil
}

func (d *DockerClient) Recreate(ctx context.Context, name string) error {
	inspectCtx, cancel := d.bounded(ctx)
	info, err := d.api.ContainerInspect(inspectCtx, name)
	cancel()
	if err != nil {
		if client.IsErrNotFound(err) {
			return &PrerequisiteError{Reason: fmt.Sprintf("container %s does not exist; run the deployment installer first", name)}
		}
		return wrapEngineErr(err)
	}

	// Replay the container's own recorded configuration so the recreated
	// container keeps its image, mounts, ports and networks.
	containerName := strings.TrimPrefix(info.Name, "/")
	netConfig := &network.NetworkingConfig{}
	if info.NetworkSettings != nil && len(info.NetworkSettings.Networks) > 0 {
		netConfig.EndpointsConfig = info.NetworkSettings.Networks
	}

	if err := d.Remove(ctx, name, RemoveOptions{Force: true}); err != nil {
		return err
	}

	createCtx, cancel := d.bounded(ctx)
	defer cancel()
	created, err := d.api.ContainerCreate(createCtx, info.Config, info.HostConfig, netConfig, nil, containerName)
	if err != nil {
		return wrapEngineErr(err)
	}

	if err := d.api.ContainerStart(createCtx, created.ID, container.StartOptions{}); err != nil {
		return wrapEngineErr(err)
	}
	logging.Info("Runtime", "Recreated container %s", containerName)
	return nil
}

func (d *DockerClient) Exec(ctx context.Context, name string, opts ExecOptions) (ExecResult, error) {
	// Interactive execs run until the user exits the shell; only bound
	// the non-interactive case.
	if !opts.Interactive {
		var cancel context.CancelFunc
		ctx, cancel = d.bounded(ctx)
		defer cancel()
	}

	createResp, err := d.api.ContainerExecCreate(ctx, name, container.ExecOptions{
		Cmd:          opts.Cmd,
		User:         opts.User,
		WorkingDir:   opts.WorkingDir,
		Env:          opts.Env,
		Tty:          opts.Interactive,
		AttachStdin:  opts.Interactive,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return ExecResult{}, wrapEngineErr(err)
	}

	attach, err := d.api.ContainerExecAttach(ctx, createResp.ID, container.ExecStartOptions{
		Tty: opts.Interactive,
	})
	if err != nil {
		return ExecResult{}, wrapEngineErr(err)
	}
	defer attach.Close()

	if opts.Interactive && opts.Stdin != nil {
		go func() {
			_, _ = io.Copy(attach.Conn, opts.Stdin)
			_ = attach.CloseWrite()
		}()
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	if opts.Interactive {
		// TTY mode multiplexes nothing; the raw stream is stdout.
		_, err = io.Copy(stdout, attach.Reader)
	} else {
		_, err = stdcopy.StdCopy(stdout, stderr, attach.Reader)
	}
	if err != nil && ctx.Err() == nil {
		logging.Debug("Runtime", "exec stream for %s ended: %v", name, err)
	}
	if ctx.Err() != nil {
		return ExecResult{}, wrapEngineErr(ctx.Err())
	}

	inspect, err := d.api.ContainerExecInspect(ctx, createResp.ID)
	if err != nil {
		return ExecResult{}, wrapEngineErr(err)
	}
	return ExecResult{ExitCode: inspect.ExitCode}, nil
}

func (d *DockerClient) Logs(ctx context.Context, name string, opts LogOptions) (io.ReadCloser, error) {
	// Follow mode blocks by design and is terminated by ctx; bounded
	// fetches get the usual per-call timeout via a cancel tied to the
	// returned reader.
	apiOpts := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     opts.Follow,
		Since:      opts.Since,
		Until:      opts.Until,
		Timestamps: false,
	}
	if opts.Tail > 0 {
		apiOpts.Tail = strconv.Itoa(opts.Tail)
	}

	rc, err := d.api.ContainerLogs(ctx, name, apiOpts)
	if err != nil {
		return nil, wrapEngineErr(err)
	}
	return demuxReader(rc), nil
}

func (d *DockerClient) NetworkExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := d.bounded(ctx)
	defer cancel()

	list, err := d.api.NetworkList(ctx, network.ListOptions{
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return false, wrapEngineErr(err)
	}
	for _, n := range list {
		if n.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (d *DockerClient) EnsureNetwork(ctx context.Context, name string) (bool, error) {
	exists, err := d.NetworkExists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	ctx, cancel := d.bounded(ctx)
	defer cancel()

	if _, err := d.api.NetworkCreate(ctx, name, network.CreateOptions{Driver: "bridge"}); err != nil {
		// A concurrent create is fine; the network exists either way.
		if exists, checkErr := d.NetworkExists(ctx, name); checkErr == nil && exists {
			return false, nil
		}
		return false, wrapEngineErr(err)
	}
	logging.Info("Runtime", "Created network %s", name)
	return true, nil
}

// portMappings flattens the engine's port map into host-visible bindings.
func portMappings(ports nat.PortMap) []PortMapping {
	var out []PortMapping
	for port, bindings := range ports {
		for _, b := range bindings {
			hostPort, _ := strconv.Atoi(b.HostPort)
			out = append(out, PortMapping{
				ContainerPort: port.Int(),
				HostPort:      hostPort,
				Protocol:      port.Proto(),
			})
		}
	}
	return out
}

// demuxReader strips the engine's stream multiplexing so callers see
// plain log lines.
func demuxReader(rc io.ReadCloser) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(pw, pw, rc)
		_ = rc.Close()
		_ = pw.CloseWithError(err)
	}()
	return &pipeCloser{PipeReader: pr, src: rc}
}

type pipeCloser struct {
	*io.PipeReader
	src io.Closer
}

func (p *pipeCloser) Close() error {
	_ = p.src.Close()
	return p.PipeReader.Close()
}

func wrapEngineErr(err error) error {
	if err == nil {
		return nil
	}
	if client.IsErrConnectionFailed(err) || err == context.DeadlineExceeded {
		return &RuntimeUnavailableError{Cause: err}
	}
	return fmt.Errorf("engine: %w", err)
}
