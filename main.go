//go:build windows

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/BobdaProgrammer/grout/appwindow"
	"github.com/BobdaProgrammer/grout/internal/autostart"
	"github.com/BobdaProgrammer/grout/internal/config"
	"github.com/BobdaProgrammer/grout/internal/win32"
	"github.com/BobdaProgrammer/grout/wm"
)

// The management window, its queue and the cloak hook belong to the thread
// that creates them, so main stays on one OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		slog.Error("grout stopped", "error", err)
		os.Exit(1)
	}
}

func run() (err error) {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	slog.Debug("loaded config", "path", path)

	sys := win32.NewSystem()
	engine := wm.New(sys, wm.Options{
		Gap:           cfg.Gap,
		IgnoreClasses: cfg.IgnoredClasses(),
	})

	window, err := appwindow.Create(sys, engine,
		appwindow.WithClassName(cfg.ClassName),
		appwindow.WithTitle(cfg.WindowTitle),
	)
	if err != nil {
		return fmt.Errorf("couldn't initialise window manager: %w", err)
	}
	defer func() {
		if cerr := window.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("couldn't release window manager: %w", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cancelStop := context.AfterFunc(ctx, func() {
		slog.Info("shutting down")
		if err := window.Stop(); err != nil {
			slog.Error("couldn't stop window manager", "error", err)
		}
	})
	defer cancelStop()

	autostart.Start(cfg.Autostart)

	return window.Run()
}
