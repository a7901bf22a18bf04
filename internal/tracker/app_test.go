package tracker

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tasktracker/internal/core/config"
)

func TestNewApp(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TasksFile = filepath.Join(t.TempDir(), "tasks.json")

	app, err := NewApp(&cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, cfg.TasksFile, app.Tasks.Path())
	assert.Same(t, &cfg, app.Config)
	assert.NotNil(t, app.Doctor)
}

func TestNewApp_BadPolicy(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DecodePolicy = "sloppy"

	_, err := NewApp(&cfg, zerolog.Nop())
	require.Error(t, err)
}
