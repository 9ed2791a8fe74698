package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at fresh temp dirs so no
// real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Chdir(t.TempDir())

	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultTopN, cfg.TopN)
	assert.Equal(t, DefaultPath, cfg.DefaultPath)
	assert.Equal(t, DefaultPrimaryColor, cfg.Colors.Primary)
	assert.Equal(t, DefaultExportFilename, cfg.Export.Filename)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultExclusions, cfg.Exclude)
	assert.False(t, cfg.Delete.UseTrash)
	assert.True(t, cfg.Manifest.Enabled)
	assert.Equal(t, DefaultRetentionDays, cfg.Manifest.RetentionDays)
	assert.Equal(t, filepath.Join(home, ".config", "minibot", ".manifest"), cfg.Manifest.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "10MB", cfg.Logging.Rotation.MaxSize)
	assert.Empty(t, cfg.File)
}

func TestLoad_HomeConfigYAML(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "minibot", "config.yaml"), `
top_n: 5
default_path: ~/Downloads
colors:
  primary: cyan
workers: 3
manifest:
  path: ~/history
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "~/Downloads", cfg.DefaultPath)
	assert.Equal(t, "cyan", cfg.Colors.Primary)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, filepath.Join(home, "history"), cfg.Manifest.Path)
	assert.Equal(t, filepath.Join(home, ".config", "minibot", "config.yaml"), cfg.File)
}

func TestLoad_XDGConfigHomeWins(t *testing.T) {
	home := isolate(t)
	xdgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdgHome)

	writeFile(t, filepath.Join(home, ".config", "minibot", "config.yaml"), "top_n: 5\n")
	writeFile(t, filepath.Join(xdgHome, "minibot", "config.yaml"), "top_n: 7\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.TopN)
}

func TestLoad_LegacyConfigJSON(t *testing.T) {
	isolate(t)
	writeFile(t, LegacyConfigFile, `{"top_n": 10, "default_path": "/tmp", "colors": {"primary": "magenta"}}`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, "/tmp", cfg.DefaultPath)
	assert.Equal(t, "magenta", cfg.Colors.Primary)
	assert.Equal(t, DefaultExportFilename, cfg.Export.Filename)
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "custom.json")
	writeFile(t, file, `{"top_n": 3}`)

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, file, cfg.File)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "minibot", "config.yaml"), "top_n: [unclosed\n")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("MINIBOT_TOP_N", "42")
	t.Setenv("MINIBOT_COLORS_PRIMARY", "blue")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.TopN)
	assert.Equal(t, "blue", cfg.Colors.Primary)
}

func TestLoad_NonPositiveTopNFallsBack(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "minibot", "config.yaml"), "top_n: 0\nworkers: -2\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTopN, cfg.TopN)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}

func TestWriteDefault(t *testing.T) {
	home := isolate(t)

	path, err := WriteDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "minibot", "config.yaml"), path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTopN, cfg.TopN)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "info", cfg.Logging.Components["scanner"])

	// A second call keeps the existing file.
	require.NoError(t, os.WriteFile(path, []byte("top_n: 9\n"), 0o644))
	_, err = WriteDefault()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "top_n: 9\n", string(data))
}

func TestConfigDir(t *testing.T) {
	home := isolate(t)

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "minibot"), dir)

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err = ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "minibot"), dir)
}
