//go:build !windows

package main

import (
	"log/slog"
	"os"
	"runtime"
)

func main() {
	slog.Error("grout only runs on Windows", "os", runtime.GOOS)
	os.Exit(1)
}
