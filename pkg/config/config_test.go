package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cuemby/modcluster/pkg/log"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", s.Log.Level)
	assert.False(t, s.Log.JSON)
	assert.Equal(t, "    ", s.Output.Indent)
	assert.Equal(t, 300*time.Millisecond, s.Debounce())

	v, err := s.TargetVersion()
	require.NoError(t, err)
	assert.Equal(t, schema.Version1_0, v)
}

func TestFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modcluster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  json: true
transform:
  target: 1.1.0
watch:
  debounce_ms: 50
`), 0o600))

	t.Setenv("MODCLUSTER_LOG_LEVEL", "warn")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", s.Log.Level)
	assert.True(t, s.Log.JSON)
	assert.Equal(t, 50*time.Millisecond, s.Debounce())
	assert.Equal(t, log.Config{Level: log.WarnLevel, JSONOutput: true}, s.LogConfig())

	v, err := s.TargetVersion()
	require.NoError(t, err)
	assert.Equal(t, schema.Version1_1, v)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown target", env: map[string]string{"MODCLUSTER_TRANSFORM_TARGET": "0.9.0"}},
		{name: "negative debounce", env: map[string]string{"MODCLUSTER_WATCH_DEBOUNCE_MS": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
