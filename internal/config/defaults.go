package config

import "time"

// GetDefaultConfig returns the built-in configuration. It works against a
// stock deployment out of the box; user and project config files override
// individual fields.
func GetDefaultConfig() Config {
	return Config{
		Deployment: DeploymentConfig{
			ContainerPrefix: "collab_",
			Network:         "collab-net",
			DataPath:        "/app/collab/data",
			LogPath:         "/app/collab/logs",
		},
		Timing: TimingConfig{
			SettleInterval: 5 * time.Second,
			StopTimeout:    30 * time.Second,
			RestartWait:    10 * time.Second,
			CallTimeout:    30 * time.Second,
		},
		Probes: ProbesConfig{
			HTTPTimeout: 5 * time.Second,
		},
		Thresholds: ThresholdsConfig{
			WarnPercent:     80,
			CriticalPercent: 90,
		},
	}
}
