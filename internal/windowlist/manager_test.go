package windowlist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypr-windowlist/internal/host"
	"hypr-windowlist/internal/host/hosttest"
	"hypr-windowlist/pkg/logger"
)

func TestNewRequiresHostAndLogger(t *testing.T) {
	_, err := New(Context{Logger: logger.Nop()})
	assert.Error(t, err)

	_, err = New(Context{Host: hosttest.New(1)})
	assert.Error(t, err)
}

func TestNewDisplaysActiveWorkspace(t *testing.T) {
	h := hosttest.New(2)
	m := newTestManager(t, h, DefaultOptions())

	require.NotNil(t, m.Current())
	assert.Equal(t, h.Workspace(0), m.Current().Workspace())
	assert.True(t, m.Visible())
}

func TestSwitchingTwiceIsNoop(t *testing.T) {
	h := hosttest.New(2)
	app := h.NewApp("firefox", "Firefox")
	h.OpenWindow(h.Workspace(1), app)

	m := newTestManager(t, h, DefaultOptions())
	switches := 0
	m.Connect(ListSwitched, func(ManagerEvent) { switches++ })

	h.SwitchTo(h.Workspace(1))
	l := m.Current()
	g := mustGroup(t, l, app)
	subs := h.Subscriptions()

	h.SwitchTo(h.Workspace(1))

	assert.Equal(t, 1, switches)
	assert.Same(t, l, m.Current())
	assert.Same(t, g, mustGroup(t, m.Current(), app))
	assert.Equal(t, subs, h.Subscriptions())
	assert.Len(t, m.Lists(), 2)
}

func TestSwitchBackReusesHiddenList(t *testing.T) {
	h := hosttest.New(2)
	m := newTestManager(t, h, DefaultOptions())
	first := m.Current()

	h.SwitchTo(h.Workspace(1))
	h.SwitchTo(h.Workspace(0))

	assert.Same(t, first, m.Current())
	assert.Len(t, m.Lists(), 2)
}

func TestSwitchToUnknownWorkspaceIsDropped(t *testing.T) {
	h := hosttest.New(1)
	m := newTestManager(t, h, DefaultOptions())
	current := m.Current()

	h.Emit(host.WorkspaceSwitched, host.Notification{Event: host.WorkspaceSwitched, From: 0, To: 42})

	assert.Same(t, current, m.Current())
}

func TestWorkspaceRemovalDropsList(t *testing.T) {
	h := hosttest.New(2)
	ws1 := h.Workspace(1)
	app := h.NewApp("firefox", "Firefox")
	w := h.OpenWindow(ws1, app)

	m := newTestManager(t, h, DefaultOptions())
	h.SwitchTo(ws1)
	h.SwitchTo(h.Workspace(0))
	require.Len(t, m.Lists(), 2)

	h.RemoveWorkspace(ws1)

	assert.Len(t, m.Lists(), 1)
	assert.Equal(t, h.Workspace(0), m.Current().Workspace())
	assert.Zero(t, ws1.Count())
	assert.Zero(t, w.Count())
	assert.Zero(t, app.Count())
}

func TestWorkspaceAddedKeepsLists(t *testing.T) {
	h := hosttest.New(1)
	m := newTestManager(t, h, DefaultOptions())
	current := m.Current()

	ws := h.AddWorkspace()
	assert.Same(t, current, m.Current())

	h.SwitchTo(ws)
	assert.Equal(t, ws, m.Current().Workspace())
}

func TestOverviewTogglesVisibility(t *testing.T) {
	h := hosttest.New(1)
	m := newTestManager(t, h, DefaultOptions())

	var seen []bool
	m.Connect(VisibilityChanged, func(ev ManagerEvent) { seen = append(seen, ev.Visible) })

	h.ShowOverview()
	h.ShowOverview()
	assert.False(t, m.Visible())

	h.HideOverview()
	assert.True(t, m.Visible())
	assert.Equal(t, []bool{false, true}, seen)
}

func TestAttentionIsForwarded(t *testing.T) {
	h := hosttest.New(2)
	app := h.NewApp("slack", "Slack")
	w := h.OpenWindow(h.Workspace(1), app)

	m := newTestManager(t, h, DefaultOptions())
	h.SwitchTo(h.Workspace(1))
	h.SwitchTo(h.Workspace(0))

	var groups []string
	m.Connect(AttentionChanged, func(ev ManagerEvent) {
		groups = append(groups, ev.Group.App().ID())
		assert.True(t, ev.Group.Attention())
	})

	w.SetUrgent(true)

	assert.Equal(t, []string{"slack"}, groups, "hidden lists report attention too")
}

func TestCommandsForwardTrackedWindows(t *testing.T) {
	h := hosttest.New(2)
	app := h.NewApp("firefox", "Firefox")
	w := h.OpenWindow(h.Workspace(0), app)
	hidden := h.OpenWindow(h.Workspace(1), app)
	popup := h.OpenWindow(h.Workspace(0), app, hosttest.Uninteresting())

	m := newTestManager(t, h, DefaultOptions())
	h.SwitchTo(h.Workspace(1))
	h.SwitchTo(h.Workspace(0))

	require.NoError(t, m.Activate(w.ID()))
	require.NoError(t, m.Minimize(hidden.ID()))
	require.NoError(t, m.Close(w.ID()))

	assert.ErrorIs(t, m.Activate(popup.ID()), ErrUntrackedWindow)
	assert.ErrorIs(t, m.Close("0xdead"), ErrUntrackedWindow)

	assert.Equal(t, []hosttest.Command{
		{Name: "activate", Window: w.ID()},
		{Name: "minimize", Window: hidden.ID()},
		{Name: "close", Window: w.ID()},
	}, h.Commands)
}

func TestCommandErrorsAreWrapped(t *testing.T) {
	h := hosttest.New(1)
	w := h.OpenWindow(h.Workspace(0), h.NewApp("firefox", "Firefox"))
	m := newTestManager(t, h, DefaultOptions())

	boom := errors.New("hyprctl failed")
	h.CommandErr = boom

	err := m.Minimize(w.ID())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), w.ID())
}

func TestToggleGroup(t *testing.T) {
	h := hosttest.New(1)
	app := h.NewApp("firefox", "Firefox")
	w := h.OpenWindow(h.Workspace(0), app)
	m := newTestManager(t, h, DefaultOptions())

	h.Focus(w)
	require.NoError(t, m.ToggleGroup("firefox"))
	assert.Equal(t, []hosttest.Command{{Name: "minimize", Window: w.ID()}}, h.Commands)

	assert.ErrorIs(t, m.ToggleGroup("kitty"), ErrUnknownGroup)
}

func TestExpandGroup(t *testing.T) {
	h := hosttest.New(2)
	app := h.NewApp("firefox", "Firefox")
	w1 := h.OpenWindow(h.Workspace(0), app, hosttest.Title("Inbox"))
	w2 := h.OpenWindow(h.Workspace(0), app, hosttest.Title("News"))
	h.OpenWindow(h.Workspace(1), app)
	m := newTestManager(t, h, DefaultOptions())
	defer m.Destroy()

	require.NoError(t, m.ExpandGroup("firefox"))
	st := m.Snapshot()
	require.Len(t, st.Groups, 1)
	assert.True(t, st.Groups[0].Expanded)
	assert.Equal(t, []ButtonState{
		{Kind: "window", Label: "Inbox", Target: w1.ID()},
		{Kind: "window", Label: "News", Target: w2.ID()},
	}, st.Groups[0].Buttons)

	h.SwitchTo(h.Workspace(1))
	assert.False(t, m.Snapshot().Groups[0].Expanded, "the override belongs to one list")
	h.SwitchTo(h.Workspace(0))
	assert.True(t, m.Snapshot().Groups[0].Expanded)

	require.NoError(t, m.ConsolidateGroup("firefox"))
	assert.False(t, m.Snapshot().Groups[0].Expanded)
	assert.Len(t, m.Snapshot().Groups[0].Buttons, 1)

	assert.ErrorIs(t, m.ExpandGroup("kitty"), ErrUnknownGroup)
	assert.ErrorIs(t, m.ConsolidateGroup("kitty"), ErrUnknownGroup)
}

func TestUnmanagedWindowLeavesResolverCache(t *testing.T) {
	h := hosttest.New(1)
	w := h.OpenWindow(h.Workspace(0), h.NewApp("firefox", "Firefox"))
	m := newTestManager(t, h, DefaultOptions())
	require.Equal(t, 1, m.env.resolver.Len())

	h.CloseWindow(w)
	assert.Zero(t, m.env.resolver.Len())
}

func TestDestroyReleasesEverySubscription(t *testing.T) {
	h := hosttest.New(3)
	firefox := h.NewApp("firefox", "Firefox")
	kitty := h.NewApp("kitty", "Kitty")
	h.OpenWindow(h.Workspace(0), firefox)
	h.OpenWindow(h.Workspace(0), kitty)
	w := h.OpenWindow(h.Workspace(1), firefox)

	m := newTestManager(t, h, DefaultOptions())
	h.SwitchTo(h.Workspace(1))
	h.SwitchTo(h.Workspace(2))
	h.OpenWindow(h.Workspace(2), kitty, hosttest.Unresolved())
	h.Focus(w)
	require.NotZero(t, h.Subscriptions())

	m.Destroy()

	assert.Zero(t, h.Subscriptions())
	assert.Nil(t, m.Current())
	assert.Empty(t, m.Lists())
}

func TestSnapshot(t *testing.T) {
	h := hosttest.New(1)
	ws := h.Workspace(0)
	firefox := h.NewApp("firefox", "Firefox")
	w1 := h.OpenWindow(ws, firefox, hosttest.Title("Inbox"))
	w2 := h.OpenWindow(ws, firefox, hosttest.Title("News"))

	m := newTestManager(t, h, DefaultOptions())
	h.Focus(w2)
	w1.SetUrgent(true)

	st := m.Snapshot()
	assert.Equal(t, 0, st.Workspace)
	assert.True(t, st.Visible)
	assert.Equal(t, "TITLE", st.DisplayTitle)
	require.Len(t, st.Groups, 1)

	g := st.Groups[0]
	assert.Equal(t, "firefox", g.App)
	assert.Equal(t, "News", g.Label)
	assert.True(t, g.Focused)
	assert.True(t, g.Attention)
	assert.Equal(t, w2.ID(), g.LastFocused)
	assert.Equal(t, []WindowState{
		{ID: w1.ID(), Title: "Inbox", Attention: true},
		{ID: w2.ID(), Title: "News", Focused: true},
	}, g.Windows)
	assert.Equal(t, []ButtonState{{Kind: "app", Label: "News", Target: w2.ID()}}, g.Buttons)
}

func TestSnapshotWithoutGrouping(t *testing.T) {
	h := hosttest.New(1)
	ws := h.Workspace(0)
	firefox := h.NewApp("firefox", "Firefox")
	w1 := h.OpenWindow(ws, firefox, hosttest.Title("Inbox"))
	w2 := h.OpenWindow(ws, firefox, hosttest.Title("News"))

	m := newTestManager(t, h, Options{GroupByApp: false, DisplayTitle: TitleApp})

	st := m.Snapshot()
	require.Len(t, st.Groups, 1)
	assert.Equal(t, []ButtonState{
		{Kind: "window", Label: "Inbox", Target: w1.ID()},
		{Kind: "window", Label: "News", Target: w2.ID()},
	}, st.Groups[0].Buttons)
}
