package windowlist

import (
	"fmt"

	"hypr-windowlist/internal/host"
	"hypr-windowlist/internal/ordered"
	"hypr-windowlist/internal/signals"
)

// List notifications.
const (
	GroupAdded     = "group-added"
	GroupRemoved   = "group-removed"
	GroupAttention = "group-attention"
)

// ListEvent is the payload of every list notification.
type ListEvent struct {
	List  *AppList
	Group *AppGroup
}

type groupRecord struct {
	group     *AppGroup
	hostSubs  []signals.Handle
	groupSubs []signals.Handle
}

// AppList owns the application groups of one workspace.
type AppList struct {
	env       *env
	workspace host.Workspace

	groups    ordered.Map[host.Application, *groupRecord]
	pending   ordered.Map[host.Window, signals.Handle]
	hostSubs  *signals.Tracker[host.Notification]
	groupSubs *signals.Tracker[GroupEvent]
	events    signals.Emitter[ListEvent]
}

func newAppList(e *env, ws host.Workspace) *AppList {
	owner := fmt.Sprintf("list:%d", ws.Index())
	l := &AppList{
		env:       e,
		workspace: ws,
		hostSubs:  signals.NewTracker[host.Notification](owner),
		groupSubs: signals.NewTracker[GroupEvent](owner),
	}
	l.Refresh()
	l.hostSubs.Connect(ws, host.WindowAdded, func(n host.Notification) {
		l.onWindowAdded(n.Workspace, n.Window)
	})
	l.hostSubs.Connect(ws, host.WindowRemoved, func(n host.Notification) {
		l.onWindowRemoved(n.Workspace, n.Window)
	})
	return l
}

func (l *AppList) Workspace() host.Workspace { return l.workspace }

// Groups returns the groups in the order they appeared.
func (l *AppList) Groups() []*AppGroup {
	out := make([]*AppGroup, 0, l.groups.Len())
	for _, rec := range l.groups.Values() {
		out = append(out, rec.group)
	}
	return out
}

// Group returns the group of app.
func (l *AppList) Group(app host.Application) (*AppGroup, bool) {
	rec, ok := l.groups.Get(app)
	if !ok {
		return nil, false
	}
	return rec.group, true
}

// FindWindow returns the tracked window with the given id and its group.
func (l *AppList) FindWindow(id string) (host.Window, *AppGroup, bool) {
	for _, rec := range l.groups.Values() {
		for _, w := range rec.group.Windows() {
			if w.ID() == id {
				return w, rec.group, true
			}
		}
	}
	return nil, nil, false
}

// Pending returns the number of windows waiting for their identity.
func (l *AppList) Pending() int { return l.pending.Len() }

func (l *AppList) Connect(name string, fn func(ListEvent)) signals.HandlerID {
	return l.events.Connect(name, fn)
}

func (l *AppList) Disconnect(id signals.HandlerID) bool {
	return l.events.Disconnect(id)
}

// Refresh feeds every current window of the workspace through the add path.
// Windows already tracked are left alone.
func (l *AppList) Refresh() {
	for _, w := range l.workspace.ListWindows() {
		l.onWindowAdded(l.workspace, w)
	}
}

func (l *AppList) onWindowAdded(ws host.Workspace, w host.Window) {
	if w == nil {
		l.env.log.Error("Dropping window-added", fmt.Errorf("no window in notification: %w", ErrHostNotification))
		return
	}
	app, err := l.env.resolver.Resolve(w)
	if err != nil {
		l.park(w)
		return
	}
	l.unpark(w)

	if rec, ok := l.groups.Get(app); ok {
		rec.group.onWindowAdded(ws, w)
		return
	}
	if !l.env.resolver.IsInteresting(w) {
		return
	}

	g := newAppGroup(l.env, app)
	g.Refresh(ws)
	g.WatchWorkspace(ws)
	if g.Len() == 0 {
		g.Destroy()
		return
	}

	rec := &groupRecord{group: g}
	// Some applications never report their last window going away, so the
	// stopped state is a second way out.
	rec.hostSubs = append(rec.hostSubs, l.hostSubs.Connect(app, host.AppStateChanged, func(n host.Notification) {
		l.onAppStateChanged(n.App)
	}))
	rec.groupSubs = append(rec.groupSubs,
		l.groupSubs.Connect(g, AttentionChanged, func(GroupEvent) {
			l.events.Emit(GroupAttention, ListEvent{List: l, Group: g})
		}),
		// The group also drops windows on its own, from its workspace
		// subscriptions, before this list hears about the removal.
		l.groupSubs.Connect(g, WindowsChanged, func(ev GroupEvent) {
			if ev.Group.Len() == 0 {
				l.removeGroup(app)
			}
		}),
	)
	l.groups.Set(app, rec)

	l.env.log.Debug("Application group created",
		"app", app.ID(),
		"workspace", ws.Index(),
		"windows", g.Len())
	l.events.Emit(GroupAdded, ListEvent{List: l, Group: g})
}

// park remembers a window whose application is not known yet and retries
// it the next time its title changes.
func (l *AppList) park(w host.Window) {
	if l.pending.Contains(w) {
		return
	}
	l.env.log.Debug("Window identity unresolved, waiting for a title change",
		"window", w.ID(),
		"workspace", l.workspace.Index())
	h := l.hostSubs.Connect(w, host.TitleChanged, func(n host.Notification) {
		l.retry(n.Window)
	})
	l.pending.Set(w, h)
}

func (l *AppList) unpark(w host.Window) {
	if h, ok := l.pending.Remove(w); ok {
		l.hostSubs.Release(h)
	}
}

func (l *AppList) retry(w host.Window) {
	if w.Workspace() != l.workspace {
		l.unpark(w)
		return
	}
	l.onWindowAdded(l.workspace, w)
}

func (l *AppList) onWindowRemoved(ws host.Workspace, w host.Window) {
	if w == nil {
		l.env.log.Error("Dropping window-removed", fmt.Errorf("no window in notification: %w", ErrHostNotification))
		return
	}
	l.unpark(w)

	var rec *groupRecord
	if app, err := l.env.resolver.Resolve(w); err == nil {
		rec, _ = l.groups.Get(app)
	} else {
		rec = l.tracking(w)
	}
	if rec == nil {
		return
	}

	g := rec.group
	g.onWindowRemoved(w)
	if g.Len() == 0 || g.App().State() == host.AppStopped {
		l.removeGroup(g.App())
	}
}

func (l *AppList) tracking(w host.Window) *groupRecord {
	for _, rec := range l.groups.Values() {
		if rec.group.Contains(w) {
			return rec
		}
	}
	return nil
}

func (l *AppList) onAppStateChanged(app host.Application) {
	if app == nil {
		l.env.log.Error("Dropping app-state-changed", fmt.Errorf("no application in notification: %w", ErrHostNotification))
		return
	}
	if app.State() == host.AppStopped && l.groups.Contains(app) {
		l.removeGroup(app)
	}
}

// removeGroup may be reached from both the last-window and the stopped
// paths; the second call finds nothing to do.
func (l *AppList) removeGroup(app host.Application) {
	rec, ok := l.groups.Remove(app)
	if !ok {
		return
	}
	l.hostSubs.ReleaseAll(rec.hostSubs)
	l.groupSubs.ReleaseAll(rec.groupSubs)
	rec.group.Destroy()

	l.env.log.Debug("Application group removed",
		"app", app.ID(),
		"workspace", l.workspace.Index(),
		"state", app.State().String())
	l.events.Emit(GroupRemoved, ListEvent{List: l, Group: rec.group})
}

// Destroy drops the workspace subscriptions and every group.
func (l *AppList) Destroy() {
	l.hostSubs.DisconnectAll()
	l.groupSubs.DisconnectAll()
	l.pending = ordered.Map[host.Window, signals.Handle]{}
	l.groups.Each(func(app host.Application, rec *groupRecord) {
		l.groups.Remove(app)
		rec.group.Destroy()
	})
}
