package windowlist

import (
	"errors"
	"fmt"

	"hypr-windowlist/internal/host"
	"hypr-windowlist/internal/identity"
	"hypr-windowlist/internal/ordered"
	"hypr-windowlist/internal/signals"
	"hypr-windowlist/pkg/core"
)

// Manager notifications. The manager also emits AttentionChanged whenever
// a group of any of its lists gains or loses attention.
const (
	ListSwitched      = "list-switched"
	VisibilityChanged = "visibility-changed"
)

// Context is everything a Manager needs from its caller.
type Context struct {
	Host    host.Host
	Logger  core.Logger
	Options Options
}

// ManagerEvent is the payload of every manager notification.
type ManagerEvent struct {
	List    *AppList
	Group   *AppGroup
	Visible bool
}

type listRecord struct {
	list *AppList
	subs []signals.Handle
}

// Manager keeps one AppList per visited workspace and displays the one of
// the active workspace.
type Manager struct {
	host host.Host
	env  *env

	lists    ordered.Map[host.Workspace, *listRecord]
	current  *AppList
	visible  bool
	hostSubs *signals.Tracker[host.Notification]
	listSubs *signals.Tracker[ListEvent]
	events   signals.Emitter[ManagerEvent]
}

// New builds the manager, subscribes to the host and displays the active
// workspace.
func New(ctx Context) (*Manager, error) {
	if ctx.Host == nil {
		return nil, errors.New("window list needs a host")
	}
	if ctx.Logger == nil {
		return nil, errors.New("window list needs a logger")
	}

	m := &Manager{
		host: ctx.Host,
		env: &env{
			resolver: identity.NewResolver(ctx.Host),
			commands: ctx.Host,
			log:      ctx.Logger,
			opts:     ctx.Options,
		},
		visible:  true,
		hostSubs: signals.NewTracker[host.Notification]("manager"),
		listSubs: signals.NewTracker[ListEvent]("manager"),
	}

	m.hostSubs.Connect(ctx.Host, host.WorkspaceSwitched, func(n host.Notification) {
		m.onWorkspaceSwitched(n.From, n.To)
	})
	m.hostSubs.Connect(ctx.Host, host.WorkspacesChanged, func(host.Notification) {
		m.onWorkspacesChanged()
	})
	m.hostSubs.Connect(ctx.Host, host.OverviewShowing, func(host.Notification) {
		m.setVisible(false)
	})
	m.hostSubs.Connect(ctx.Host, host.OverviewHiding, func(host.Notification) {
		m.setVisible(true)
	})
	m.hostSubs.Connect(ctx.Host, host.WindowUnmanaged, func(n host.Notification) {
		if n.Window != nil {
			m.env.resolver.Forget(n.Window)
		}
	})

	if ws := ctx.Host.ActiveWorkspace(); ws != nil {
		m.show(ws)
	}

	ctx.Logger.Info("Window list enabled",
		"group_by_app", ctx.Options.GroupByApp,
		"display_title", ctx.Options.DisplayTitle.String())
	return m, nil
}

// Current returns the displayed list, or nil before any workspace is active.
func (m *Manager) Current() *AppList { return m.current }

// Lists returns every list the manager holds, displayed or not.
func (m *Manager) Lists() []*AppList {
	out := make([]*AppList, 0, m.lists.Len())
	for _, rec := range m.lists.Values() {
		out = append(out, rec.list)
	}
	return out
}

// Visible reports whether the panel is shown; it is hidden while the
// overview is up.
func (m *Manager) Visible() bool { return m.visible }

func (m *Manager) Options() Options { return m.env.opts }

func (m *Manager) Connect(name string, fn func(ManagerEvent)) signals.HandlerID {
	return m.events.Connect(name, fn)
}

func (m *Manager) Disconnect(id signals.HandlerID) bool {
	return m.events.Disconnect(id)
}

func (m *Manager) onWorkspaceSwitched(from, to int) {
	ws, ok := m.host.WorkspaceByIndex(to)
	if !ok {
		m.env.log.Error("Dropping workspace switch", fmt.Errorf("workspace %d does not exist: %w", to, ErrHostNotification),
			"from", from)
		return
	}
	m.show(ws)
}

func (m *Manager) show(ws host.Workspace) {
	if m.current != nil && m.current.Workspace() == ws {
		return
	}

	rec, ok := m.lists.Get(ws)
	if !ok {
		rec = m.track(ws)
	}
	m.current = rec.list

	m.env.log.Debug("Displaying workspace list",
		"workspace", ws.Index(),
		"groups", len(rec.list.Groups()))
	m.events.Emit(ListSwitched, ManagerEvent{List: rec.list, Visible: m.visible})
}

func (m *Manager) track(ws host.Workspace) *listRecord {
	l := newAppList(m.env, ws)
	rec := &listRecord{list: l}
	rec.subs = append(rec.subs, m.listSubs.Connect(l, GroupAttention, func(ev ListEvent) {
		m.events.Emit(AttentionChanged, ManagerEvent{List: ev.List, Group: ev.Group, Visible: m.visible})
	}))
	m.lists.Set(ws, rec)
	return rec
}

// onWorkspacesChanged drops the lists of workspaces that went away. When
// the displayed one is among them the active workspace is shown instead.
func (m *Manager) onWorkspacesChanged() {
	alive := make(map[host.Workspace]bool)
	for _, ws := range m.host.Workspaces() {
		alive[ws] = true
	}

	lostCurrent := false
	m.lists.Each(func(ws host.Workspace, rec *listRecord) {
		if alive[ws] {
			return
		}
		m.lists.Remove(ws)
		m.listSubs.ReleaseAll(rec.subs)
		rec.list.Destroy()
		if rec.list == m.current {
			m.current = nil
			lostCurrent = true
		}
		m.env.log.Debug("Dropped list of removed workspace", "workspace", ws.Index())
	})

	if lostCurrent {
		if ws := m.host.ActiveWorkspace(); ws != nil {
			m.show(ws)
		}
	}
}

func (m *Manager) setVisible(v bool) {
	if m.visible == v {
		return
	}
	m.visible = v
	m.events.Emit(VisibilityChanged, ManagerEvent{List: m.current, Visible: v})
}

// findWindow looks id up among the windows tracked by every list.
func (m *Manager) findWindow(id string) (host.Window, error) {
	for _, rec := range m.lists.Values() {
		if w, _, ok := rec.list.FindWindow(id); ok {
			return w, nil
		}
	}
	return nil, fmt.Errorf("window %s: %w", id, ErrUntrackedWindow)
}

// Activate forwards an activate command for a tracked window to the host.
func (m *Manager) Activate(id string) error {
	w, err := m.findWindow(id)
	if err != nil {
		return err
	}
	if err := m.env.commands.Activate(w); err != nil {
		return fmt.Errorf("failed to activate window %s: %w", id, err)
	}
	return nil
}

// Minimize forwards a minimize command for a tracked window to the host.
func (m *Manager) Minimize(id string) error {
	w, err := m.findWindow(id)
	if err != nil {
		return err
	}
	if err := m.env.commands.Minimize(w); err != nil {
		return fmt.Errorf("failed to minimize window %s: %w", id, err)
	}
	return nil
}

// Close forwards a close command for a tracked window to the host.
func (m *Manager) Close(id string) error {
	w, err := m.findWindow(id)
	if err != nil {
		return err
	}
	if err := m.env.commands.Close(w); err != nil {
		return fmt.Errorf("failed to close window %s: %w", id, err)
	}
	return nil
}

// currentGroup finds the group of appID on the displayed list.
func (m *Manager) currentGroup(appID string) (*AppGroup, error) {
	if m.current != nil {
		for _, g := range m.current.Groups() {
			if g.App().ID() == appID {
				return g, nil
			}
		}
	}
	return nil, fmt.Errorf("%s: %w", appID, ErrUnknownGroup)
}

// ToggleGroup clicks the app button of appID on the displayed list.
func (m *Manager) ToggleGroup(appID string) error {
	g, err := m.currentGroup(appID)
	if err != nil {
		return err
	}
	if err := g.Toggle(); err != nil {
		return fmt.Errorf("failed to toggle %s: %w", appID, err)
	}
	return nil
}

// ExpandGroup shows one button per window for appID on the displayed list.
func (m *Manager) ExpandGroup(appID string) error {
	g, err := m.currentGroup(appID)
	if err != nil {
		return err
	}
	g.Expand()
	return nil
}

// ConsolidateGroup shows the app button for appID on the displayed list.
func (m *Manager) ConsolidateGroup(appID string) error {
	g, err := m.currentGroup(appID)
	if err != nil {
		return err
	}
	g.Consolidate()
	return nil
}

// Destroy drops every subscription and every list. The manager must not be
// used afterwards.
func (m *Manager) Destroy() {
	m.hostSubs.DisconnectAll()
	m.listSubs.DisconnectAll()
	m.lists.Each(func(ws host.Workspace, rec *listRecord) {
		m.lists.Remove(ws)
		rec.list.Destroy()
	})
	m.current = nil
	m.env.log.Info("Window list disabled")
}
