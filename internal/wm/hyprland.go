package wm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"hypr-windowlist/pkg/core"
)

// Hyprctl runs the hyprctl binary.
type Hyprctl struct {
	log  core.Logger
	path string
}

func NewHyprctl(log core.Logger) (*Hyprctl, error) {
	// Check if hyprctl is available
	path, err := exec.LookPath("hyprctl")
	if err != nil {
		log.Error("hyprctl not found in PATH", err)
		return nil, fmt.Errorf("hyprctl not found in PATH: %w", err)
	}
	log.Debug("Found hyprctl", "path", path)

	return &Hyprctl{log: log, path: path}, nil
}

func (h *Hyprctl) Query(ctx context.Context, target string, v any) error {
	cmd := exec.CommandContext(ctx, h.path, "-j", target)
	output, err := cmd.Output()
	if err != nil {
		h.log.Error("Failed to execute hyprctl", err, "target", target)
		return fmt.Errorf("hyprctl -j %s: %w", target, err)
	}

	if len(bytes.TrimSpace(output)) == 0 {
		return nil
	}

	if err := json.Unmarshal(output, v); err != nil {
		h.log.Error("Failed to parse hyprctl output", err, "target", target, "output", string(output))
		return fmt.Errorf("failed to parse hyprctl output: %w", err)
	}
	return nil
}

func (h *Hyprctl) Dispatch(ctx context.Context, args ...string) error {
	h.log.Debug("Dispatching", "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, h.path, append([]string{"dispatch"}, args...)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		h.log.Error("Failed to dispatch", err, "output", string(output))
		return fmt.Errorf("hyprctl dispatch %s: %w", args[0], err)
	}

	// hyprctl exits 0 even when the dispatcher rejects its arguments.
	if reply := strings.TrimSpace(string(output)); reply != "ok" {
		return fmt.Errorf("hyprctl dispatch %s: %s", args[0], reply)
	}
	return nil
}

// Keyword sets a config keyword at runtime, as `hyprctl keyword`.
func (h *Hyprctl) Keyword(ctx context.Context, name, value string) error {
	h.log.Debug("Setting keyword", "name", name, "value", value)

	cmd := exec.CommandContext(ctx, h.path, "keyword", name, value)
	output, err := cmd.CombinedOutput()
	if err != nil {
		h.log.Error("Failed to set keyword", err, "output", string(output))
		return fmt.Errorf("hyprctl keyword %s: %w", name, err)
	}
	if reply := strings.TrimSpace(string(output)); reply != "ok" {
		return fmt.Errorf("hyprctl keyword %s: %s", name, reply)
	}
	return nil
}

// BindExec builds the value of a `bind` keyword running command on
// mods+key, e.g. "SUPER,Tab,exec,hypr-windowlist pick".
func BindExec(mods, key, command string) (string, error) {
	if key == "" || command == "" {
		return "", fmt.Errorf("a binding needs a key and a command")
	}
	if strings.Contains(key, ",") || strings.Contains(mods, ",") {
		return "", fmt.Errorf("invalid key %q+%q", mods, key)
	}
	return fmt.Sprintf("%s,%s,exec,%s", mods, key, command), nil
}
