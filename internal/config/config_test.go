package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattletale/internal/lineio"
	"tattletale/internal/report"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, lineio.DefaultMmapThreshold, cfg.IO.MmapThresholdBytes)
	assert.Equal(t, report.DefaultTopPasswords, cfg.Report.TopPasswords)
	assert.False(t, cfg.Engine.Parallel)
	assert.Positive(t, cfg.Engine.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tattletale.yaml")
	contents := `
io:
  mmap_threshold_bytes: 1048576
engine:
  parallel: true
  workers: 2
report:
  top_passwords: 25
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1048576), cfg.IO.MmapThresholdBytes)
	assert.True(t, cfg.Engine.Parallel)
	assert.Equal(t, 2, cfg.Engine.Workers)
	assert.Equal(t, 25, cfg.Report.TopPasswords)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("io: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
