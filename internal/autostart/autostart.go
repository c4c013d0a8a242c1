// Package autostart launches the commands listed under autostart in the
// config once the window manager is running.
package autostart

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Parse splits a command line into argv. Quoting follows the shell, but a
// backslash is always a literal character so Windows paths survive as typed.
func Parse(line string) ([]string, error) {
	args, err := shellwords.NewParser().Parse(literalBackslashes(line))
	if err != nil {
		return nil, fmt.Errorf("couldn't parse %q: %w", line, err)
	}
	return args, nil
}

// literalBackslashes escapes every backslash the parser would otherwise
// consume. Inside single quotes it already keeps them.
func literalBackslashes(line string) string {
	var b strings.Builder
	var single, double bool
	for _, r := range line {
		switch {
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case r == '\\' && !single:
			b.WriteRune(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Start launches each command without waiting for it. Failures are logged and
// skipped. It returns how many commands were started.
func Start(lines []string) int {
	started := 0
	for _, line := range lines {
		args, err := Parse(line)
		if err != nil {
			slog.Error("couldn't parse autostart command", "error", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		cmd := exec.Command(args[0], args[1:]...)
		if err := cmd.Start(); err != nil {
			slog.Error("couldn't run autostart command", "command", line, "error", err)
			continue
		}
		go func() {
			_ = cmd.Wait()
		}()
		slog.Info("started", "command", line, "pid", cmd.Process.Pid)
		started++
	}
	return started
}
