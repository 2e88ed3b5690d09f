package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Desktop shows a native banner: osascript on macOS, notify-send on Linux.
type Desktop struct {
	goos  string
	sound string
	run   func(ctx context.Context, name string, args ...string) error
}

func NewDesktop() *Desktop {
	return &Desktop{goos: runtime.GOOS, sound: "Glass", run: runCommand}
}

func (d *Desktop) Notify(ctx context.Context, title, message string) error {
	switch d.goos {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "%s"`,
			escapeAppleScript(message), escapeAppleScript(title), d.sound)
		return d.run(ctx, "osascript", "-e", script)
	case "linux":
		return d.run(ctx, "notify-send", title, message)
	default:
		return fmt.Errorf("desktop notifications not supported on %s", d.goos)
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
