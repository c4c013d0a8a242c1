// Package config loads grout's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/BobdaProgrammer/grout/appwindow"
)

// EnvPath names the environment variable that overrides the config location.
const EnvPath = "GROUT_CONFIG"

// builtinIgnoreClasses are shell windows that look tileable but never are.
var builtinIgnoreClasses = []string{
	"Progman",
	"WorkerW",
	"Shell_TrayWnd",
	"Shell_SecondaryTrayWnd",
	"Windows.UI.Core.CoreWindow",
}

type Config struct {
	LogLevel    string `koanf:"log_level"`
	ClassName   string `koanf:"class_name"`
	WindowTitle string `koanf:"window_title"`
	Gap         int    `koanf:"gap"`
	// IgnoreClasses adds to the built-in list of window classes never tiled.
	IgnoreClasses []string `koanf:"ignore_classes"`
	// Autostart holds command lines run once the window manager is up.
	Autostart []string `koanf:"autostart"`
}

func Default() Config {
	return Config{
		LogLevel:    "info",
		ClassName:   appwindow.DefaultClassName,
		WindowTitle: appwindow.DefaultTitle,
		Gap:         0,
	}
}

// DefaultPath returns $GROUT_CONFIG, or config.yaml under the user's config
// directory (%AppData%\grout on Windows).
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("couldn't find config directory: %w", err)
	}
	return filepath.Join(dir, "grout", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return cfg, fmt.Errorf("couldn't load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("couldn't decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %d", c.Gap)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// IgnoredClasses returns the built-in ignore list followed by the configured one.
func (c Config) IgnoredClasses() []string {
	out := make([]string, 0, len(builtinIgnoreClasses)+len(c.IgnoreClasses))
	out = append(out, builtinIgnoreClasses...)
	return append(out, c.IgnoreClasses...)
}
