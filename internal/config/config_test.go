package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg, err := Load(filepath.Join(dir, "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, ": ", cfg.Prompt)
	assert.Equal(t, 100, cfg.MaxJobs)
	assert.Equal(t, 1000, cfg.HistorySize)
	assert.Equal(t, dir, cfg.HomeDir)
	assert.Equal(t, filepath.Join(dir, ".smallsh_history"), cfg.HistoryFile)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "smallsh.yml")
	data := []byte("prompt: \"> \"\nmax_jobs: 4\nhome_dir: " + dir + "\nlog_format: json\n")
	require.NoError(t, os.WriteFile(file, data, 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "> ", cfg.Prompt)
	assert.Equal(t, 4, cfg.MaxJobs)
	assert.Equal(t, dir, cfg.HomeDir)
	assert.Equal(t, filepath.Join(dir, ".smallsh_history"), cfg.HistoryFile)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"zero jobs", "max_jobs: 0\n"},
		{"bad level", "log_level: loud\n"},
		{"bad format", "log_format: xml\n"},
		{"bad yaml", "prompt: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(dir, tt.name+".yml")
			require.NoError(t, os.WriteFile(file, []byte(tt.body), 0o644))

			_, err := Load(file)
			assert.Error(t, err)
		})
	}
}

func TestPathHonoursEnv(t *testing.T) {
	t.Setenv(EnvFile, "/tmp/custom.yml")

	assert.Equal(t, "/tmp/custom.yml", Path())
}

func TestLoadWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")
	t.Setenv(EnvFile, "")

	assert.Equal(t, "", Path())

	cfg, err := Load(Path())
	require.NoError(t, err)
	assert.Equal(t, "", cfg.HomeDir)
	assert.Equal(t, "", cfg.HistoryFile)
	assert.Equal(t, ": ", cfg.Prompt)
}
