package display

import (
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"

	"hypr-windowlist/internal/ipc"
	"hypr-windowlist/internal/windowlist"
	"hypr-windowlist/pkg/core"
)

var baseArgs = []string{
	"-dmenu",
	"-i",
	"-markup-rows",
	"-format", "i",
	"-no-custom",
	"-p", "Windows",
	"-kb-custom-1", "Alt+m",
	"-kb-custom-2", "Alt+c",
	"-mesg", "Return (activate) | Alt+M (minimize) | Alt+C (close)",
}

// ErrNoSelection is returned when the picker is dismissed.
var ErrNoSelection = errors.New("no window selected")

// Choice is a picked window and what to do with it.
type Choice struct {
	Command string
	Window  string
}

// runner feeds input to rofi and returns its output and exit code.
type runner func(args []string, input string) (string, int, error)

// RofiPicker lists the windows of the displayed workspace.
type RofiPicker struct {
	args []string
	run  runner
	log  core.Logger
}

func NewRofiPicker(themePath string, log core.Logger) (*RofiPicker, error) {
	// Check for rofi
	if _, err := exec.LookPath("rofi"); err != nil {
		return nil, fmt.Errorf("rofi not found: %w", err)
	}

	args := append([]string{}, baseArgs...)
	if themePath != "" {
		args = append(args, "-theme", themePath)
	}
	return &RofiPicker{args: args, run: runRofi, log: log}, nil
}

func runRofi(args []string, input string) (string, int, error) {
	cmd := exec.Command("rofi", args...)
	cmd.Stdin = strings.NewReader(input)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(output), exitErr.ExitCode(), nil
		}
		return "", 0, fmt.Errorf("failed to run rofi: %w", err)
	}
	return string(output), 0, nil
}

type row struct {
	window string
	text   string
}

// rows flattens the groups into one row per window, in display order.
func rows(state windowlist.State) []row {
	var out []row
	for _, g := range state.Groups {
		for _, w := range g.Windows {
			text := html.EscapeString(fmt.Sprintf("%s: %s", g.Name, w.Title))
			if w.Focused {
				text = "<b>" + text + "</b>"
			}
			if w.Attention {
				text = "<span foreground=\"orange\">!</span> " + text
			}
			out = append(out, row{window: w.ID, text: text})
		}
	}
	return out
}

// Pick shows the windows of state and returns the user's choice.
func (p *RofiPicker) Pick(state windowlist.State) (Choice, error) {
	entries := rows(state)
	if len(entries) == 0 {
		p.log.Warn("No windows to display", "workspace", state.Workspace)
		return Choice{}, fmt.Errorf("no windows on workspace %d", state.Workspace)
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.text
	}

	p.log.Debug("Executing Rofi", "entries", len(entries))
	output, code, err := p.run(p.args, strings.Join(lines, "\n"))
	if err != nil {
		p.log.Error("Failed to run Rofi", err)
		return Choice{}, err
	}

	selected := strings.TrimSpace(output)
	if selected == "" {
		p.log.Debug("No selection made in Rofi")
		return Choice{}, ErrNoSelection
	}

	idx, err := strconv.Atoi(selected)
	if err != nil || idx < 0 || idx >= len(entries) {
		return Choice{}, fmt.Errorf("unexpected rofi output %q", selected)
	}

	choice := Choice{Window: entries[idx].window}
	switch code {
	case 0:
		choice.Command = ipc.CmdActivate
	case 10: // Alt+M
		choice.Command = ipc.CmdMinimize
	case 11: // Alt+C
		choice.Command = ipc.CmdClose
	default:
		p.log.Warn("Unhandled Rofi exit code", "exit_code", code)
		return Choice{}, ErrNoSelection
	}
	p.log.Info("Window picked", "command", choice.Command, "window", choice.Window)
	return choice, nil
}
