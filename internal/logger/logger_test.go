package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netorg/internal/config"
)

func TestNew_SplitsStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log, err := New(config.LogConfig{Level: "info"}, Options{Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("Saved 3 known devices")
	log.Warn("reservation for aa:bb is stale")
	log.Error("network is out of space")

	assert.Equal(t, "Saved 3 known devices\n", stdout.String())
	assert.Equal(t, "reservation for aa:bb is stale\nnetwork is out of space\n", stderr.String())
}

func TestNew_Verbose(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log, err := New(config.LogConfig{Level: "warn"}, Options{Verbose: true, Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	log.Debug("allocated 192.168.128.3")

	out := stdout.String()
	assert.Contains(t, out, "level=debug")
	assert.Contains(t, out, "allocated 192.168.128.3")
	assert.Contains(t, out, "time=")
	assert.Empty(t, stderr.String())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty"}, Options{})
	assert.Error(t, err)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "netorg.log")
	var stdout, stderr bytes.Buffer
	log, err := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, Options{Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	log.Info("to both")
	log.Warn("also to both")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, string(data), "level=warning")
}
