package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/minibot/pkg/minibot/manifest"
)

// isolateHome points HOME and the working directory at temp dirs.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Chdir(t.TempDir())
	cfgFile = ""
	return home
}

// resetRoot undoes what a test run left on the shared command tree.
func resetRoot() {
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	rootCmd.SetArgs(nil)
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(resetRoot)

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")

	assert.Contains(t, out, "minibot dev")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestConfigPath_Default(t *testing.T) {
	home := isolateHome(t)

	out := execute(t, "config", "path")

	assert.Equal(t, filepath.Join(home, ".config", "minibot", "config.yaml")+"\n", out)
}

func TestConfigInit_ThenShow(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, ".config", "minibot", "config.yaml")

	out := execute(t, "config", "init")
	assert.Contains(t, out, "Created default config file: "+path)
	assert.FileExists(t, path)

	out = execute(t, "config", "init")
	assert.Contains(t, out, "Config file already exists")

	out = execute(t, "config", "show")
	assert.Contains(t, out, "# Config file: "+path)
	assert.Contains(t, out, "top_n: 20")
	assert.Contains(t, out, "primary: green")
}

func TestConfigShow_FlagOverrides(t *testing.T) {
	isolateHome(t)

	out := execute(t, "config", "show", "--workers", "3", "--exclude", "/mnt/backup")

	assert.Contains(t, out, "(using defaults, no file found)")
	assert.Contains(t, out, "workers: 3")
	assert.Contains(t, out, "/mnt/backup")
	assert.Contains(t, out, "/proc")
}

func TestHistory_Empty(t *testing.T) {
	isolateHome(t)

	out := execute(t, "history")

	assert.Contains(t, out, "No history entries found.")
}

func TestHistory_ListShowClean(t *testing.T) {
	home := isolateHome(t)
	m, err := manifest.New(filepath.Join(home, ".config", "minibot", ".manifest"))
	require.NoError(t, err)

	entry, err := m.Record("/data", []manifest.FileRecord{
		{Path: "/data/big.iso", Size: 3_000_000, DeletedAt: time.Now()},
		{Path: "/data/old.log", Size: 500, Trashed: true, DeletedAt: time.Now()},
	})
	require.NoError(t, err)

	out := execute(t, "history")
	assert.Contains(t, out, entry.ID)
	assert.Contains(t, out, "/data")
	assert.Contains(t, out, "3.0 MB")

	out = execute(t, "history", "show", entry.ID[:8])
	assert.Contains(t, out, "Root:       /data")
	assert.Contains(t, out, "/data/big.iso")
	assert.Contains(t, out, "/data/old.log")
	lines := strings.Split(out, "\n")
	var trashedLine string
	for _, l := range lines {
		if strings.HasSuffix(l, "/data/old.log") {
			trashedLine = l
		}
	}
	assert.Contains(t, trashedLine, "yes")

	out = execute(t, "history", "clean")
	assert.Contains(t, out, "Removed 0 history entries older than 30 days.")

	entries, err := m.List(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistoryShow_Unknown(t *testing.T) {
	isolateHome(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"history", "show", "nope"})
	t.Cleanup(resetRoot)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrNotFound)
}

func TestIsTerminal_File(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tty")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(f))
}
