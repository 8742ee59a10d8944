package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "application.yaml")
	content := `
server:
  port: 9090
  shutdowntimeout: 3s
calendar:
  weekstartday: monday
planner:
  historylimit: 5
  defaultcategory: Outros
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("EVENTPRO_PLANNER_HISTORYLIMIT", "7")
	t.Setenv("EVENTPRO_IMAGEEDITOR_ENABLED", "true")
	t.Setenv("EVENTPRO_IMAGEEDITOR_ENDPOINT", "http://localhost:9999/edit")

	// when
	cfg, err := Load(path)

	// then
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "monday", cfg.Calendar.WeekStartDay)
	assert.Equal(t, 7, cfg.Planner.HistoryLimit)
	assert.Equal(t, "Outros", cfg.Planner.DefaultCategory)
	assert.Equal(t, 5, cfg.Planner.UpcomingLimit)
	assert.True(t, cfg.ImageEditor.Enabled)
	assert.Equal(t, "http://localhost:9999/edit", cfg.ImageEditor.Endpoint)
}

func TestLoad_InvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)

	assert.Error(t, err)
}
