package config

import "time"

// Config is the top-level configuration structure for collabctl.
type Config struct {
	Deployment DeploymentConfig `yaml:"deployment"`
	Timing     TimingConfig     `yaml:"timing"`
	Probes     ProbesConfig     `yaml:"probes"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

// DeploymentConfig describes the deployment's identity on the host: how
// containers are named, which network they share, and where data lives.
type DeploymentConfig struct {
	// ContainerPrefix is prepended to every service name to form the
	// container name, e.g. "collab_" + "proxy" = "collab_proxy".
	ContainerPrefix string `yaml:"containerPrefix,omitempty"`
	// Network is the shared bridge network all services join.
	Network string `yaml:"network,omitempty"`
	// DataPath is the mounted storage path the filesystem probe checks.
	DataPath string `yaml:"dataPath,omitempty"`
	// LogPath is where services write their logs on the host.
	LogPath string `yaml:"logPath,omitempty"`
	// ExtraServices appends deployment-specific services to the built-in
	// topology. Each entry may depend on built-in services.
	ExtraServices []ExtraServiceDefinition `yaml:"extraServices,omitempty"`
}

// ExtraServiceDefinition defines an additional service in config.
type ExtraServiceDefinition struct {
	Name      string   `yaml:"name"`
	Container string   `yaml:"container,omitempty"` // defaults to prefix+name
	Group     string   `yaml:"group,omitempty"`     // defaults to "backend"
	DependsOn []string `yaml:"dependsOn,omitempty"`
	HTTPPort  int      `yaml:"httpPort,omitempty"`
}

// TimingConfig holds the intervals and timeouts for lifecycle operations.
type TimingConfig struct {
	// SettleInterval is the pause between ordered service starts.
	SettleInterval time.Duration `yaml:"settleInterval,omitempty"`
	// StopTimeout bounds a graceful stop before it counts as timed out.
	StopTimeout time.Duration `yaml:"stopTimeout,omitempty"`
	// RestartWait is the pause between stop and start during a restart.
	RestartWait time.Duration `yaml:"restartWait,omitempty"`
	// CallTimeout bounds every individual engine API call.
	CallTimeout time.Duration `yaml:"callTimeout,omitempty"`
}

// ProbesConfig enables or disables individual health probes and bounds
// their execution.
type ProbesConfig struct {
	HTTPTimeout   time.Duration `yaml:"httpTimeout,omitempty"`
	HTTPEnabled   *bool         `yaml:"httpEnabled,omitempty"`
	DBPingEnabled *bool         `yaml:"dbPingEnabled,omitempty"`
	FSEnabled     *bool         `yaml:"fsEnabled,omitempty"`
	HostEnabled   *bool         `yaml:"hostEnabled,omitempty"`
}

// ThresholdsConfig holds usage percentage bands for storage and host
// resource probes. The defaults mirror common operational practice but
// carry no special meaning; tune them to the host.
type ThresholdsConfig struct {
	WarnPercent     float64 `yaml:"warnPercent,omitempty"`
	CriticalPercent float64 `yaml:"criticalPercent,omitempty"`
}

// HTTPProbeEnabled reports whether the HTTP reachability probe runs.
func (p ProbesConfig) HTTPProbeEnabled() bool { return p.HTTPEnabled == nil || *p.HTTPEnabled }

// DBPingProbeEnabled reports whether the database ping probe runs.
func (p ProbesConfig) DBPingProbeEnabled() bool { return p.DBPingEnabled == nil || *p.DBPingEnabled }

// FSProbeEnabled reports whether the filesystem probe runs.
func (p ProbesConfig) FSProbeEnabled() bool { return p.FSEnabled == nil || *p.FSEnabled }

// HostProbeEnabled reports whether the host resource probe runs.
func (p ProbesConfig) HostProbeEnabled() bool { return p.HostEnabled == nil || *p.HostEnabled }
