package wm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypr-windowlist/internal/host"
	"hypr-windowlist/internal/windowlist"
	"hypr-windowlist/pkg/logger"
)

type fakeCtl struct {
	replies    map[string]string
	dispatched [][]string
	err        error
}

func (f *fakeCtl) Query(_ context.Context, target string, v any) error {
	reply, ok := f.replies[target]
	if !ok {
		return fmt.Errorf("no reply for %s", target)
	}
	return json.Unmarshal([]byte(reply), v)
}

func (f *fakeCtl) Dispatch(_ context.Context, args ...string) error {
	if f.err != nil {
		return f.err
	}
	f.dispatched = append(f.dispatched, args)
	return nil
}

const clientsJSON = `[
  {"address": "0xb", "mapped": true, "hidden": false, "workspace": {"id": 1, "name": "1"}, "class": "firefox", "title": "Inbox", "focusHistoryID": 0},
  {"address": "0xa", "mapped": true, "hidden": false, "workspace": {"id": 1, "name": "1"}, "class": "kitty", "title": "zsh", "focusHistoryID": 1},
  {"address": "0xc", "mapped": true, "hidden": false, "workspace": {"id": 2, "name": "2"}, "class": "firefox", "title": "Docs", "focusHistoryID": -1},
  {"address": "0xd", "mapped": true, "hidden": false, "workspace": {"id": -98, "name": "special:minimized"}, "class": "kitty", "title": "stash", "focusHistoryID": 2}
]`

func newFakeCtl() *fakeCtl {
	return &fakeCtl{replies: map[string]string{
		"workspaces": `[{"id": 1, "name": "1", "windows": 2}, {"id": 2, "name": "2", "windows": 1},
			{"id": -98, "name": "special:minimized", "windows": 1}]`,
		"activeworkspace": `{"id": 1, "name": "1", "windows": 2}`,
		"clients":         clientsJSON,
		"activewindow":    `{"address": "0xb"}`,
	}}
}

func syncedHost(t *testing.T) (*Host, *fakeCtl) {
	t.Helper()
	ctl := newFakeCtl()
	h := NewHost(ctl, logger.Nop(), "minimized")
	require.NoError(t, h.Sync(context.Background()))
	return h, ctl
}

func apply(t *testing.T, h *Host, line string) {
	t.Helper()
	ev, err := ParseEvent(line)
	require.NoError(t, err)
	require.NoError(t, h.Apply(context.Background(), ev))
}

func TestSync(t *testing.T) {
	h, _ := syncedHost(t)

	require.NotNil(t, h.ActiveWorkspace())
	assert.Equal(t, 1, h.ActiveWorkspace().Index())
	assert.Len(t, h.Workspaces(), 3)
	assert.Equal(t, -98, h.Workspaces()[0].Index(), "ordered by id")

	a, b, c, d := h.windows["0xa"], h.windows["0xb"], h.windows["0xc"], h.windows["0xd"]
	assert.Equal(t, []uint64{1, 2, 3, 4}, []uint64{a.seq, b.seq, c.seq, d.seq}, "sequence follows address order")
	assert.Equal(t, uint64(3), b.UserTime(), "most recent focus has the largest stamp")
	assert.Equal(t, uint64(2), a.UserTime())
	assert.Equal(t, uint64(1), d.UserTime())
	assert.Equal(t, uint64(0), c.UserTime(), "never focused")

	assert.True(t, b.AppearsFocused())
	assert.True(t, h.IsInteresting(a))
	assert.False(t, h.IsInteresting(d), "windows on special workspaces are hidden")

	app, ok := h.WindowApp(a)
	require.True(t, ok)
	assert.Equal(t, "kitty", app.ID())
	assert.Equal(t, host.AppRunning, app.State())
}

func TestElectsLeastRecentlyUsedWindow(t *testing.T) {
	ctl := newFakeCtl()
	ctl.replies["clients"] = `[
  {"address": "0xa", "mapped": true, "workspace": {"id": 1, "name": "1"}, "class": "firefox", "title": "Recent", "focusHistoryID": 1},
  {"address": "0xb", "mapped": true, "workspace": {"id": 1, "name": "1"}, "class": "firefox", "title": "Stale", "focusHistoryID": 2},
  {"address": "0xc", "mapped": true, "workspace": {"id": 1, "name": "1"}, "class": "kitty", "title": "zsh", "focusHistoryID": 0}
]`
	ctl.replies["activewindow"] = `{"address": "0xc"}`
	h := NewHost(ctl, logger.Nop(), "minimized")
	require.NoError(t, h.Sync(context.Background()))

	assert.Less(t, h.windows["0xb"].UserTime(), h.windows["0xa"].UserTime())

	m, err := windowlist.New(windowlist.Context{Host: h, Logger: logger.Nop(), Options: windowlist.DefaultOptions()})
	require.NoError(t, err)
	defer m.Destroy()

	firefox, _ := h.WindowApp(h.windows["0xa"])
	g, ok := m.Current().Group(firefox)
	require.True(t, ok)
	assert.Equal(t, "0xb", g.LastFocused().ID())
	assert.Equal(t, "Stale", g.Label())
}

func TestSyncFailsWithoutHyprctl(t *testing.T) {
	ctl := newFakeCtl()
	delete(ctl.replies, "clients")
	h := NewHost(ctl, logger.Nop(), "minimized")

	assert.Error(t, h.Sync(context.Background()))
}

func TestApplyDrivesWindowList(t *testing.T) {
	h, _ := syncedHost(t)
	m, err := windowlist.New(windowlist.Context{Host: h, Logger: logger.Nop(), Options: windowlist.DefaultOptions()})
	require.NoError(t, err)
	defer m.Destroy()

	firefox, _ := h.WindowApp(h.windows["0xb"])
	kitty, _ := h.WindowApp(h.windows["0xa"])

	l := m.Current()
	require.Len(t, l.Groups(), 2)
	ff, ok := l.Group(firefox)
	require.True(t, ok)
	assert.Equal(t, "0xb", ff.LastFocused().ID())

	apply(t, h, "openwindow>>e,1,firefox,New tab")
	apply(t, h, "activewindowv2>>e")
	assert.Equal(t, []string{"0xb", "0xe"}, ids(ff.Windows()))
	assert.Equal(t, "0xe", ff.LastFocused().ID())
	assert.Equal(t, uint64(4), h.windows["0xe"].UserTime())
	assert.Equal(t, uint64(3), h.windows["0xb"].UserTime())

	apply(t, h, "windowtitlev2>>e,Hello, world")
	assert.Equal(t, "Hello, world", ff.Label())

	apply(t, h, "urgent>>a")
	kt, ok := l.Group(kitty)
	require.True(t, ok)
	assert.True(t, kt.Attention())

	apply(t, h, "closewindow>>a")
	_, ok = l.Group(kitty)
	assert.False(t, ok, "kitty still runs on a special workspace but has nothing here")
	assert.Equal(t, host.AppRunning, kitty.State())

	apply(t, h, "movewindowv2>>e,2,2")
	assert.Equal(t, []string{"0xb"}, ids(ff.Windows()))

	apply(t, h, "workspacev2>>2,2")
	require.Equal(t, 2, m.Current().Workspace().Index())
	ff2, ok := m.Current().Group(firefox)
	require.True(t, ok)
	assert.Equal(t, []string{"0xc", "0xe"}, ids(ff2.Windows()))

	apply(t, h, "activespecial>>special:minimized,DP-1")
	assert.False(t, m.Visible())
	apply(t, h, "activespecial>>,DP-1")
	assert.True(t, m.Visible())
}

func TestAttentionComesFromUrgentEvent(t *testing.T) {
	h, _ := syncedHost(t)
	m, err := windowlist.New(windowlist.Context{Host: h, Logger: logger.Nop(), Options: windowlist.DefaultOptions()})
	require.NoError(t, err)
	defer m.Destroy()

	w := h.windows["0xa"]
	kitty, _ := h.WindowApp(w)
	g, ok := m.Current().Group(kitty)
	require.True(t, ok)

	apply(t, h, "urgent>>a")
	assert.False(t, w.DemandsAttention())
	assert.True(t, w.Urgent())
	assert.True(t, g.Attention())

	apply(t, h, "activewindowv2>>a")
	assert.False(t, w.Urgent())
	assert.False(t, g.Attention(), "focusing clears the hint")
}

func TestCloseLastWindowStopsApp(t *testing.T) {
	h, _ := syncedHost(t)
	firefox, _ := h.WindowApp(h.windows["0xb"])

	var events []string
	h.Connect(host.WindowUnmanaged, func(n host.Notification) { events = append(events, "unmanaged:"+n.Window.ID()) })
	firefox.Connect(host.AppStateChanged, func(n host.Notification) { events = append(events, "state:"+n.App.State().String()) })

	apply(t, h, "closewindow>>b")
	apply(t, h, "closewindow>>c")

	assert.Equal(t, []string{"unmanaged:0xb", "state:stopped", "unmanaged:0xc"}, events)
}

func TestClassResolvedOnTitleChange(t *testing.T) {
	h, ctl := syncedHost(t)
	m, err := windowlist.New(windowlist.Context{Host: h, Logger: logger.Nop(), Options: windowlist.DefaultOptions()})
	require.NoError(t, err)
	defer m.Destroy()

	apply(t, h, "openwindow>>f,1,,Loading")
	assert.Len(t, m.Current().Groups(), 2)
	assert.Equal(t, 1, m.Current().Pending())

	ctl.replies["clients"] = `[{"address": "0xf", "mapped": true, "workspace": {"id": 1, "name": "1"}, "class": "steam", "title": "Steam"}]`
	apply(t, h, "windowtitlev2>>f,Steam")

	steam, ok := h.WindowApp(h.windows["0xf"])
	require.True(t, ok)
	g, ok := m.Current().Group(steam)
	require.True(t, ok)
	assert.Equal(t, "Steam", g.Label())
	assert.Zero(t, m.Current().Pending())
}

func TestOpenWindowOnNewWorkspace(t *testing.T) {
	h, ctl := syncedHost(t)

	changed := 0
	h.Connect(host.WorkspacesChanged, func(host.Notification) { changed++ })
	apply(t, h, "createworkspacev2>>3,web")
	apply(t, h, "createworkspacev2>>3,web")
	assert.Equal(t, 1, changed)

	ctl.replies["workspaces"] = `[{"id": 4, "name": "chat"}]`
	apply(t, h, "openwindow>>g,chat,slack,Slack")
	ws, ok := h.WorkspaceByIndex(4)
	require.True(t, ok)
	assert.Len(t, ws.ListWindows(), 1)

	apply(t, h, "destroyworkspacev2>>3,web")
	_, ok = h.WorkspaceByIndex(3)
	assert.False(t, ok)
	assert.Equal(t, 2, changed)
}

func TestMinimizeAndRestore(t *testing.T) {
	h, ctl := syncedHost(t)
	m, err := windowlist.New(windowlist.Context{Host: h, Logger: logger.Nop(), Options: windowlist.DefaultOptions()})
	require.NoError(t, err)
	defer m.Destroy()

	require.NoError(t, m.Minimize("0xb"))
	apply(t, h, "movewindowv2>>b,-98,special:minimized")
	apply(t, h, "activewindowv2>>a")

	w := h.windows["0xb"]
	assert.True(t, w.Minimized())
	assert.Equal(t, 1, w.Workspace().Index(), "minimized windows stay listed")
	assert.True(t, h.IsInteresting(w))

	require.NoError(t, m.Activate("0xb"))
	apply(t, h, "movewindowv2>>b,1,1")
	assert.False(t, w.Minimized())

	assert.Equal(t, [][]string{
		{"movetoworkspacesilent", "special:minimized,address:0xb"},
		{"movetoworkspacesilent", "1,address:0xb"},
		{"focuswindow", "address:0xb"},
	}, ctl.dispatched)

	require.NoError(t, m.Close("0xa"))
	assert.Equal(t, []string{"closewindow", "address:0xa"}, ctl.dispatched[3])
}

func TestDestroyedHomeWorkspaceRelistsMinimizedWindow(t *testing.T) {
	h, ctl := syncedHost(t)
	m, err := windowlist.New(windowlist.Context{Host: h, Logger: logger.Nop(), Options: windowlist.DefaultOptions()})
	require.NoError(t, err)
	defer m.Destroy()

	w := h.windows["0xb"]
	firefox, _ := h.WindowApp(w)
	apply(t, h, "movewindowv2>>b,-98,special:minimized")
	apply(t, h, "closewindow>>a")
	apply(t, h, "workspacev2>>2,2")

	ws1, ok := h.WorkspaceByIndex(1)
	require.True(t, ok)
	var removed []string
	ws1.Connect(host.WindowRemoved, func(n host.Notification) { removed = append(removed, n.Window.ID()) })

	apply(t, h, "destroyworkspacev2>>1,1")
	assert.Equal(t, []string{"0xb"}, removed)
	require.NotNil(t, w.Workspace())
	assert.Equal(t, 2, w.Workspace().Index())
	assert.True(t, w.Minimized())

	g, ok := m.Current().Group(firefox)
	require.True(t, ok)
	assert.Equal(t, []string{"0xb", "0xc"}, ids(g.Windows()))

	require.NoError(t, m.Activate("0xb"))
	assert.Equal(t, []string{"movetoworkspacesilent", "2,address:0xb"}, ctl.dispatched[0])
}

func TestDestroyedActiveWorkspaceParksMinimizedWindow(t *testing.T) {
	h, _ := syncedHost(t)

	w := h.windows["0xb"]
	apply(t, h, "movewindowv2>>b,-98,special:minimized")
	apply(t, h, "closewindow>>a")
	apply(t, h, "destroyworkspacev2>>1,1")

	require.NotNil(t, w.Workspace())
	assert.Equal(t, -98, w.Workspace().Index())
	assert.False(t, w.Minimized())
	assert.False(t, h.IsInteresting(w))
}

func TestCommandErrors(t *testing.T) {
	h, ctl := syncedHost(t)
	ctl.err = errors.New("dispatcher rejected")

	err := h.Close(h.windows["0xa"])
	assert.ErrorIs(t, err, ctl.err)
}

func TestApplyRejectsBadFields(t *testing.T) {
	h, _ := syncedHost(t)

	err := h.Apply(context.Background(), Event{Name: "workspacev2", Args: []string{"two", "2"}})
	assert.ErrorIs(t, err, ErrMalformedEvent)

	err = h.Apply(context.Background(), Event{Name: "closewindow"})
	assert.ErrorIs(t, err, ErrMalformedEvent)

	assert.NoError(t, h.Apply(context.Background(), Event{Name: "monitoradded", Args: []string{"DP-2"}}))
}

func ids(ws []host.Window) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.ID())
	}
	return out
}
