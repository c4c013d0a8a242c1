package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BobdaProgrammer/grout/appwindow"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
gap: 8
ignore_classes:
  - Chrome_WidgetWin_1
autostart:
  - notepad.exe "C:\notes\todo.txt"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Gap)
	assert.Equal(t, appwindow.DefaultClassName, cfg.ClassName, "unset keys keep their default")
	assert.Equal(t, appwindow.DefaultTitle, cfg.WindowTitle)
	assert.Equal(t, []string{"Chrome_WidgetWin_1"}, cfg.IgnoreClasses)
	assert.Equal(t, []string{`notepad.exe "C:\notes\todo.txt"`}, cfg.Autostart)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative gap", "gap: -1\n"},
		{"unknown level", "log_level: chatty\n"},
		{"malformed yaml", "gap: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/grout.yaml")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/grout.yaml", path)
}

func TestIgnoredClasses_AppendsToBuiltins(t *testing.T) {
	cfg := Default()
	cfg.IgnoreClasses = []string{"Foo"}

	got := cfg.IgnoredClasses()
	assert.Contains(t, got, "Progman")
	assert.Equal(t, "Foo", got[len(got)-1])
}
