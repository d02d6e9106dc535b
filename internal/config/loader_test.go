package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Helper to write a config file under dir and return its path.
func writeConfigFile(t *testing.T, dir, filename string, content Config) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	data, err := yaml.Marshal(&content)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func pointPathsAway(t *testing.T) {
	t.Helper()
	tempDir := t.TempDir()

	originalUser := getUserConfigPath
	originalProject := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalUser
		getProjectConfigPath = originalProject
	})

	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "no-user-config.yaml"), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "no-project-config.yaml"), nil
	}
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	pointPathsAway(t)

	loaded, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, GetDefaultConfig(), loaded)
	assert.Equal(t, "collab_", loaded.Deployment.ContainerPrefix)
	assert.Equal(t, 30*time.Second, loaded.Timing.StopTimeout)
	assert.Equal(t, float64(80), loaded.Thresholds.WarnPercent)
	assert.Equal(t, float64(90), loaded.Thresholds.CriticalPercent)
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()

	originalUser := getUserConfigPath
	originalProject := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalUser
		getProjectConfigPath = originalProject
	})

	userPath := writeConfigFile(t, tempDir, "user.yaml", Config{
		Deployment: DeploymentConfig{Network: "office-net"},
		Timing:     TimingConfig{StopTimeout: 60 * time.Second},
	})
	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "no-project.yaml"), nil
	}

	loaded, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "office-net", loaded.Deployment.Network)
	assert.Equal(t, 60*time.Second, loaded.Timing.StopTimeout)
	// Untouched fields keep their defaults.
	assert.Equal(t, "collab_", loaded.Deployment.ContainerPrefix)
	assert.Equal(t, 5*time.Second, loaded.Timing.SettleInterval)
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()

	originalUser := getUserConfigPath
	originalProject := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalUser
		getProjectConfigPath = originalProject
	})

	userPath := writeConfigFile(t, tempDir, "user.yaml", Config{
		Thresholds: ThresholdsConfig{WarnPercent: 70},
	})
	projectPath := writeConfigFile(t, tempDir, "project.yaml", Config{
		Thresholds: ThresholdsConfig{WarnPercent: 85},
	})
	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }

	loaded, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, float64(85), loaded.Thresholds.WarnPercent)
	assert.Equal(t, float64(90), loaded.Thresholds.CriticalPercent)
}

func TestLoadConfig_ExplicitPathSkipsLayers(t *testing.T) {
	tempDir := t.TempDir()

	explicitPath := writeConfigFile(t, tempDir, "explicit.yaml", Config{
		Deployment: DeploymentConfig{ContainerPrefix: "office_"},
	})

	loaded, err := LoadConfig(explicitPath)
	require.NoError(t, err)
	assert.Equal(t, "office_", loaded.Deployment.ContainerPrefix)
	assert.Equal(t, "collab-net", loaded.Deployment.Network)
}

func TestLoadConfig_ExtraServicesMergeByName(t *testing.T) {
	tempDir := t.TempDir()

	originalUser := getUserConfigPath
	originalProject := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalUser
		getProjectConfigPath = originalProject
	})

	userPath := writeConfigFile(t, tempDir, "user.yaml", Config{
		Deployment: DeploymentConfig{
			ExtraServices: []ExtraServiceDefinition{
				{Name: "indexer", HTTPPort: 9200},
				{Name: "cache"},
			},
		},
	})
	projectPath := writeConfigFile(t, tempDir, "project.yaml", Config{
		Deployment: DeploymentConfig{
			ExtraServices: []ExtraServiceDefinition{
				{Name: "indexer", HTTPPort: 9300},
			},
		},
	})
	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }

	loaded, err := LoadConfig("")
	require.NoError(t, err)

	require.Len(t, loaded.Deployment.ExtraServices, 2)
	byName := map[string]ExtraServiceDefinition{}
	for _, svc := range loaded.Deployment.ExtraServices {
		byName[svc.Name] = svc
	}
	assert.Equal(t, 9300, byName["indexer"].HTTPPort)
	assert.Contains(t, byName, "cache")
}

func TestLoadConfig_MalformedFileFails(t *testing.T) {
	tempDir := t.TempDir()
	badPath := filepath.Join(tempDir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("deployment: ["), 0o644))

	_, err := LoadConfig(badPath)
	assert.Error(t, err)
}

func TestProbeToggles_DefaultEnabled(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.True(t, cfg.Probes.HTTPProbeEnabled())
	assert.True(t, cfg.Probes.DBPingProbeEnabled())
	assert.True(t, cfg.Probes.FSProbeEnabled())
	assert.True(t, cfg.Probes.HostProbeEnabled())

	off := false
	cfg.Probes.FSEnabled = &off
	assert.False(t, cfg.Probes.FSProbeEnabled())
}
