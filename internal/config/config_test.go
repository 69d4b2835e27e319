package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dinit.yaml")
	data := `serviceDir: /etc/dinit.d
target: graphical
concurrency: 4
startDelay: 250ms
readyTimeout: 30s
pidDir: /run/dinit
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/dinit.d", cfg.ServiceDir)
	assert.Equal(t, "graphical", cfg.Target)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.StartDelay.Std())
	assert.Equal(t, 30*time.Second, cfg.ReadyTimeout.Std())
	assert.Equal(t, "/run/dinit", cfg.PIDDir)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dinit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: custom\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Target)
	assert.Equal(t, Default().ServiceDir, cfg.ServiceDir)
	assert.Equal(t, Default().Concurrency, cfg.Concurrency)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad yaml", data: ":\n  - broken"},
		{name: "bad duration", data: "startDelay: soon\n"},
		{name: "zero concurrency", data: "concurrency: 0\n"},
		{name: "empty target", data: "target: \"\"\n"},
		{name: "zero readyTimeout", data: "readyTimeout: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dinit.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestDurationMarshal(t *testing.T) {
	out, err := Duration(1500 * time.Millisecond).MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", out)
}
