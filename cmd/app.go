package cmd

import (
	"fmt"

	"collabctl/internal/config"
	"collabctl/internal/health"
	"collabctl/internal/orchestrator"
	"collabctl/internal/runtime"
	"collabctl/internal/topology"
)

// app bundles the wired components every command needs: configuration,
// topology registry, runtime client, engine, and evaluator.
type app struct {
	cfg       config.Config
	registry  *topology.Registry
	rt        *runtime.DockerClient
	engine    *orchestrator.Engine
	evaluator *health.Evaluator
}

// newApp loads configuration and wires the components. The runtime
// connection is lazy; an unreachable engine surfaces on first use.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return nil, err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	rt, err := runtime.NewDockerClient(cfg.Timing.CallTimeout)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		registry:  registry,
		rt:        rt,
		engine:    orchestrator.NewEngine(registry, rt, cfg),
		evaluator: health.NewEvaluator(registry, rt, cfg),
	}, nil
}

func (a *app) Close() {
	_ = a.rt.Close()
}

// buildRegistry converts config extras into topology services and builds
// the immutable registry.
func buildRegistry(cfg config.Config) (*topology.Registry, error) {
	prefix := cfg.Deployment.ContainerPrefix

	extras := make([]topology.Service, 0, len(cfg.Deployment.ExtraServices))
	for _, def := range cfg.Deployment.ExtraServices {
		svc := topology.Service{
			Name:      def.Name,
			Container: def.Container,
			Group:     topology.Group(def.Group),
			DependsOn: def.DependsOn,
			HTTPPort:  def.HTTPPort,
		}
		if svc.Container == "" {
			svc.Container = prefix + def.Name
		}
		if svc.Group == "" {
			svc.Group = topology.GroupBackend
		}
		extras = append(extras, svc)
	}

	registry, err := topology.NewRegistry(topology.DefaultDefinition(prefix, extras))
	if err != nil {
		return nil, fmt.Errorf("invalid topology: %w", err)
	}
	return registry, nil
}

// selectionArg extracts the optional service-or-group argument.
func selectionArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
