package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"collabctl/internal/health"
)

func TestHealthExitCode(t *testing.T) {
	assert.Equal(t, exitHealthy, healthExitCode(health.VerdictHealthy))
	assert.Equal(t, exitStarting, healthExitCode(health.VerdictStarting))
	assert.Equal(t, exitIssues, healthExitCode(health.VerdictWarning))
	assert.Equal(t, exitIssues, healthExitCode(health.VerdictCritical))
	assert.Equal(t, exitIssues, healthExitCode(health.VerdictUnhealthy))
}

func TestHealthCommandFlags(t *testing.T) {
	healthCmd := newHealthCmd()
	assert.NotNil(t, healthCmd.Flags().Lookup("fix"))
	assert.Contains(t, healthCmd.Long, "Exit codes: 0 healthy, 2 issues found")
}
