package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/hisoka/internal/config"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hisoka.log")

	log, closer, err := New(config.LogConfig{Level: "debug", File: path})
	require.NoError(t, err)

	Component(log, "engine").WithField("geometry", "80x24").Debug("step")
	log.Trace("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "level=debug")
	assert.Contains(t, out, "component=engine")
	assert.Contains(t, out, "geometry=80x24")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\x1b[", "colours must be disabled")
}

func TestNew_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hisoka.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o600))

	log, closer, err := New(config.LogConfig{Level: "info", File: path})
	require.NoError(t, err)
	log.Info("next run")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "previous run\n"))
	assert.Contains(t, string(data), "next run")
}

func TestNew_Disabled(t *testing.T) {
	log, closer, err := New(config.LogConfig{Level: "info", File: config.LogDisabled})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())

	log.Info("dropped")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "loud", File: config.LogDisabled})
	assert.Error(t, err)
}

func TestNew_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "hisoka.log")
	_, _, err := New(config.LogConfig{Level: "info", File: path})
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "hisoka.log", filepath.Base(path))
	assert.Equal(t, "hisoka", filepath.Base(filepath.Dir(path)))
}
