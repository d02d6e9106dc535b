package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/collabctl"
	projectConfigDir = ".collabctl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the configuration by layering default, user, and
// project settings in that order. An explicit path, when non-empty,
// replaces the user and project layers entirely.
func LoadConfig(explicitPath string) (Config, error) {
	config := GetDefaultConfig()

	if explicitPath != "" {
		overlay, err := loadConfigFromFile(explicitPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", explicitPath, err)
		}
		return mergeConfigs(config, overlay), nil
	}

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; warn and continue.
		fmt.Fprintf(os.Stderr, "Warning: could not determine user config path: %v\n", err)
	} else if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not determine project config path: %v\n", err)
	} else if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
		projectConfig, err := loadConfigFromFile(projectConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
		config = mergeConfigs(config, projectConfig)
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' into 'base'. Zero values in the overlay
// leave the base value in place; extra services are merged by name with
// the overlay winning.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Deployment.ContainerPrefix != "" {
		merged.Deployment.ContainerPrefix = overlay.Deployment.ContainerPrefix
	}
	if overlay.Deployment.Network != "" {
		merged.Deployment.Network = overlay.Deployment.Network
	}
	if overlay.Deployment.DataPath != "" {
		merged.Deployment.DataPath = overlay.Deployment.DataPath
	}
	if overlay.Deployment.LogPath != "" {
		merged.Deployment.LogPath = overlay.Deployment.LogPath
	}

	if len(overlay.Deployment.ExtraServices) > 0 {
		byName := make(map[string]int, len(merged.Deployment.ExtraServices))
		for i, svc := range merged.Deployment.ExtraServices {
			byName[svc.Name] = i
		}
		for _, svc := range overlay.Deployment.ExtraServices {
			if i, ok := byName[svc.Name]; ok {
				merged.Deployment.ExtraServices[i] = svc
			} else {
				merged.Deployment.ExtraServices = append(merged.Deployment.ExtraServices, svc)
			}
		}
	}

	if overlay.Timing.SettleInterval != 0 {
		merged.Timing.SettleInterval = overlay.Timing.SettleInterval
	}
	if overlay.Timing.StopTimeout != 0 {
		merged.Timing.StopTimeout = overlay.Timing.StopTimeout
	}
	if overlay.Timing.RestartWait != 0 {
		merged.Timing.RestartWait = overlay.Timing.RestartWait
	}
	if overlay.Timing.CallTimeout != 0 {
		merged.Timing.CallTimeout = overlay.Timing.CallTimeout
	}

	if overlay.Probes.HTTPTimeout != 0 {
		merged.Probes.HTTPTimeout = overlay.Probes.HTTPTimeout
	}
	if overlay.Probes.HTTPEnabled != nil {
		merged.Probes.HTTPEnabled = overlay.Probes.HTTPEnabled
	}
	if overlay.Probes.DBPingEnabled != nil {
		merged.Probes.DBPingEnabled = overlay.Probes.DBPingEnabled
	}
	if overlay.Probes.FSEnabled != nil {
		merged.Probes.FSEnabled = overlay.Probes.FSEnabled
	}
	if overlay.Probes.HostEnabled != nil {
		merged.Probes.HostEnabled = overlay.Probes.HostEnabled
	}

	if overlay.Thresholds.WarnPercent != 0 {
		merged.Thresholds.WarnPercent = overlay.Thresholds.WarnPercent
	}
	if overlay.Thresholds.CriticalPercent != 0 {
		merged.Thresholds.CriticalPercent = overlay.Thresholds.CriticalPercent
	}

	return merged
}
