package notify

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypr-windowlist/pkg/logger"
)

type recorder struct {
	available map[string]bool
	fail      map[string]bool
	ran       [][]string
}

func (r *recorder) lookPath(name string) (string, error) {
	if r.available[name] {
		return "/usr/bin/" + name, nil
	}
	return "", exec.ErrNotFound
}

func (r *recorder) run(cmd *exec.Cmd) error {
	r.ran = append(r.ran, cmd.Args)
	if r.fail[filepath.Base(cmd.Args[0])] {
		return errors.New("exit status 1")
	}
	return nil
}

func newService(command string, r *recorder) *NotifyService {
	n := NewNotifyService(command, logger.Nop())
	n.lookPath = r.lookPath
	n.run = r.run
	return n
}

func TestShowPrefersNotifyCommand(t *testing.T) {
	r := &recorder{available: map[string]bool{"notify-send": true}}
	n := newService("my-notify", r)

	require.NoError(t, n.Show("Firefox", "Inbox (1)", Urgent))
	require.Len(t, r.ran, 1)
	assert.Equal(t, []string{"sh", "-c", `my-notify "$@"`, "sh", "URGENT", "Firefox", "Inbox (1)"}, r.ran[0])
}

func TestShowFallsBackToSystemTools(t *testing.T) {
	r := &recorder{
		available: map[string]bool{"dunstify": true, "notify-send": true},
		fail:      map[string]bool{"sh": true, "dunstify": true},
	}
	n := newService("broken", r)

	require.NoError(t, n.Show("hypr-windowlist", "daemon stopped", Error))
	require.Len(t, r.ran, 3)
	assert.Equal(t, "dunstify", r.ran[1][0])
	assert.Equal(t, []string{"notify-send", "-a", "hypr-windowlist", "-u", "critical", "hypr-windowlist", "daemon stopped"}, r.ran[2])
}

func TestUrgentDunstNotificationsReplaceEachOther(t *testing.T) {
	r := &recorder{available: map[string]bool{"dunstify": true}}
	n := newService("", r)

	require.NoError(t, n.Show("kitty", "build done", Urgent))
	require.Len(t, r.ran, 1)
	assert.Contains(t, r.ran[0], "string:x-dunst-stack-tag:hypr-windowlist-urgent")
	assert.Contains(t, r.ran[0], "normal")
}

func TestWriteToLogFileAppends(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	n := newService("", &recorder{})

	require.NoError(t, n.writeToLogFile("a", "first", Info))
	require.NoError(t, n.writeToLogFile("b", "second", Urgent))

	data, err := os.ReadFile(filepath.Join(home, notificationLog))
	require.NoError(t, err)
	assert.Contains(t, string(data), "a - INFO: first")
	assert.Contains(t, string(data), "b - URGENT: second")
}
