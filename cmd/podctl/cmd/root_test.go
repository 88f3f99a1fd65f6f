package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efortin/podctl/pkg/lifecycle"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("PODCTL_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", getEnvOrDefault("PODCTL_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("PODCTL_TEST_MISSING", "fallback"))
}

func TestCommandsRegistered(t *testing.T) {
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range []string{"deploy", "start", "stop", "restart", "status", "terminate", "gpus", "serve"} {
		assert.True(t, registered[name], "command %s should be registered", name)
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3", "abc1234", "2026-01-02")
	assert.Contains(t, rootCmd.Version, "1.2.3")
	assert.Contains(t, rootCmd.Version, "abc1234")
}

func TestNewManagerRequiresProject(t *testing.T) {
	old := projectName
	projectName = ""
	defer func() { projectName = old }()

	_, _, err := newManager()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project name is required")
}

func TestReportFailure(t *testing.T) {
	res := lifecycle.Result{Kind: lifecycle.ErrNotFound, Message: "no main pod found"}
	err := report(res)
	require.Error(t, err)
	assert.Equal(t, "no main pod found", err.Error())
}
