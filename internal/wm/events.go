package wm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"hypr-windowlist/internal/windowlist"
	"hypr-windowlist/pkg/core"
)

// ErrMalformedEvent is returned for event lines that cannot be parsed.
var ErrMalformedEvent = fmt.Errorf("malformed hyprland event: %w", windowlist.ErrHostNotification)

// Event is one line of the Hyprland event socket.
type Event struct {
	Name string
	Args []string
}

// Number of comma separated fields per event. The last field keeps any
// further commas, since titles and workspace names may contain them.
var eventFields = map[string]int{
	"openwindow":         4,
	"closewindow":        1,
	"movewindowv2":       3,
	"windowtitlev2":      2,
	"activewindowv2":     1,
	"urgent":             1,
	"workspacev2":        2,
	"createworkspacev2":  2,
	"destroyworkspacev2": 2,
	"activespecial":      2,
}

// ParseEvent splits an `EVENT>>DATA` line. Events the window list does not
// use come back with their raw data as the only argument.
func ParseEvent(line string) (Event, error) {
	name, data, ok := strings.Cut(strings.TrimRight(line, "\r\n"), ">>")
	if !ok || name == "" {
		return Event{}, fmt.Errorf("%q: %w", line, ErrMalformedEvent)
	}

	n, known := eventFields[name]
	if !known {
		return Event{Name: name, Args: []string{data}}, nil
	}

	args := strings.SplitN(data, ",", n)
	if len(args) < n {
		return Event{}, fmt.Errorf("%s wants %d fields, got %d: %w", name, n, len(args), ErrMalformedEvent)
	}
	return Event{Name: name, Args: args}, nil
}

// EventSocketPath locates the event socket of the running Hyprland instance.
func EventSocketPath() (string, error) {
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if sig == "" {
		return "", errors.New("HYPRLAND_INSTANCE_SIGNATURE is not set, is Hyprland running?")
	}

	var candidates []string
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "hypr", sig, ".socket2.sock"))
	}
	// Hyprland before 0.40 kept its sockets in /tmp.
	candidates = append(candidates, filepath.Join("/tmp/hypr", sig, ".socket2.sock"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no hyprland event socket found (tried %s)", strings.Join(candidates, ", "))
}

// DialEvents connects to the event socket at path. Hyprland queues events
// from the moment of connection, so dial before reading the initial state.
func DialEvents(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to event socket: %w", err)
	}
	return conn, nil
}

// ReadEvents sends parsed events from conn to out until ctx is done or the
// connection drops, then closes conn. Malformed lines are logged and
// skipped.
func ReadEvents(ctx context.Context, conn net.Conn, out chan<- Event, log core.Logger) error {
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Info("Listening for Hyprland events", "remote", conn.RemoteAddr().String())

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		ev, err := ParseEvent(scanner.Text())
		if err != nil {
			log.Warn("Dropping event", "error", err.Error())
			continue
		}
		if _, known := eventFields[ev.Name]; !known {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event socket: %w", err)
	}
	return errors.New("event socket closed by Hyprland")
}
