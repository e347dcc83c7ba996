// Package hosttest is an in-memory host for exercising the window list
// without a compositor.
package hosttest

import (
	"fmt"
	"slices"

	"hypr-windowlist/internal/host"
	"hypr-windowlist/internal/signals"
)

// Command records a window command received by the fake host.
type Command struct {
	Name   string
	Window string
}

// Host is a scriptable host.Host. Every mutating helper emits the same
// notifications a compositor would.
type Host struct {
	signals.Emitter[host.Notification]

	workspaces []*Workspace
	active     *Workspace
	apps       []*App
	windows    []*Window
	seq        uint64

	// Commands received through the host.Commander methods.
	Commands []Command
	// CommandErr, when set, is returned by every command.
	CommandErr error
}

var _ host.Host = (*Host)(nil)

// New creates a host with n workspaces; the first one is active.
func New(n int) *Host {
	h := &Host{}
	for i := 0; i < n; i++ {
		h.workspaces = append(h.workspaces, &Workspace{index: i})
	}
	if n > 0 {
		h.active = h.workspaces[0]
	}
	return h
}

type Workspace struct {
	signals.Emitter[host.Notification]
	index   int
	windows []*Window
}

func (ws *Workspace) Index() int { return ws.index }

func (ws *Workspace) ListWindows() []host.Window {
	out := make([]host.Window, 0, len(ws.windows))
	for _, w := range ws.windows {
		out = append(out, w)
	}
	return out
}

func (ws *Workspace) String() string { return fmt.Sprintf("ws%d", ws.index) }

type App struct {
	signals.Emitter[host.Notification]
	id    string
	name  string
	state host.AppState
}

func (a *App) ID() string { return a.id }
func (a *App) Name() string { return a.name }
func (a *App) State() host.AppState { return a.state }
func (a *App) String() string { return a.id }

// SetState changes the state and emits app-state-changed.
func (a *App) SetState(s host.AppState) {
	if a.state == s {
		return
	}
	a.state = s
	a.Emit(host.AppStateChanged, host.Notification{Event: host.AppStateChanged, App: a})
}

type Window struct {
	signals.Emitter[host.Notification]
	id          string
	title       string
	seq         uint64
	userTime    uint64
	focused     bool
	urgent      bool
	attention   bool
	interesting bool
	unresolved  bool
	ws          *Workspace
	app         *App
}

func (w *Window) ID() string { return w.id }
func (w *Window) Title() string { return w.title }
func (w *Window) StableSequence() uint64 { return w.seq }
func (w *Window) UserTime() uint64 { return w.userTime }
func (w *Window) AppearsFocused() bool { return w.focused }
func (w *Window) Urgent() bool { return w.urgent }
func (w *Window) DemandsAttention() bool { return w.attention }
func (w *Window) String() string { return w.id }

func (w *Window) Workspace() host.Workspace {
	if w.ws == nil {
		return nil
	}
	return w.ws
}

// SetTitle changes the title and emits title-changed.
func (w *Window) SetTitle(title string) {
	w.title = title
	w.Emit(host.TitleChanged, host.Notification{Event: host.TitleChanged, Window: w})
}

// SetUrgent changes the urgency hint and emits urgency-changed.
func (w *Window) SetUrgent(urgent bool) {
	w.urgent = urgent
	w.Emit(host.UrgencyChanged, host.Notification{Event: host.UrgencyChanged, Window: w})
}

// SetDemandsAttention changes the attention flag and emits urgency-changed.
func (w *Window) SetDemandsAttention(v bool) {
	w.attention = v
	w.Emit(host.UrgencyChanged, host.Notification{Event: host.UrgencyChanged, Window: w})
}

// SetUserTime changes the interaction marker without notifying.
func (w *Window) SetUserTime(t uint64) {
	w.userTime = t
}

// WindowOption customises a window created by OpenWindow.
type WindowOption func(*Window)

func Title(title string) WindowOption { return func(w *Window) { w.title = title } }

func UserTime(t uint64) WindowOption { return func(w *Window) { w.userTime = t } }

func Sequence(seq uint64) WindowOption { return func(w *Window) { w.seq = seq } }

// Uninteresting marks the window as one the panel should ignore.
func Uninteresting() WindowOption { return func(w *Window) { w.interesting = false } }

// Unresolved makes identity lookups for the window fail until Resolve is called.
func Unresolved() WindowOption { return func(w *Window) { w.unresolved = true } }

// NewApp registers an application in the starting state.
func (h *Host) NewApp(id, name string) *App {
	a := &App{id: id, name: name, state: host.AppStarting}
	h.apps = append(h.apps, a)
	return a
}

// Workspace returns the workspace with the given index.
func (h *Host) Workspace(index int) *Workspace {
	return h.workspaces[index]
}

// OpenWindow creates a window of app on ws and emits window-added.
func (h *Host) OpenWindow(ws *Workspace, app *App, opts ...WindowOption) *Window {
	h.seq++
	w := &Window{
		id:          fmt.Sprintf("w%d", h.seq),
		seq:         h.seq,
		interesting: true,
		ws:          ws,
		app:         app,
	}
	for _, opt := range opts {
		opt(w)
	}
	h.windows = append(h.windows, w)
	ws.windows = append(ws.windows, w)
	app.SetState(host.AppRunning)
	ws.Emit(host.WindowAdded, host.Notification{Event: host.WindowAdded, Workspace: ws, Window: w})
	return w
}

// CloseWindow removes w from its workspace, stops its application when it
// was the last window, and finally reports it unmanaged.
func (h *Host) CloseWindow(w *Window) {
	ws := w.ws
	h.detach(w)
	if ws != nil {
		ws.Emit(host.WindowRemoved, host.Notification{Event: host.WindowRemoved, Workspace: ws, Window: w})
	}
	if w.app != nil && len(h.appWindows(w.app)) == 0 {
		w.app.SetState(host.AppStopped)
	}
	h.Emit(host.WindowUnmanaged, host.Notification{Event: host.WindowUnmanaged, Window: w})
}

// MoveWindow moves w to ws, emitting removed on the old and added on the new workspace.
func (h *Host) MoveWindow(w *Window, ws *Workspace) {
	old := w.ws
	h.detach(w)
	if old != nil {
		old.Emit(host.WindowRemoved, host.Notification{Event: host.WindowRemoved, Workspace: old, Window: w})
	}
	w.ws = ws
	ws.windows = append(ws.windows, w)
	ws.Emit(host.WindowAdded, host.Notification{Event: host.WindowAdded, Workspace: ws, Window: w})
}

func (h *Host) detach(w *Window) {
	if w.ws == nil {
		return
	}
	w.ws.windows = slices.DeleteFunc(w.ws.windows, func(o *Window) bool { return o == w })
	w.ws = nil
}

func (h *Host) appWindows(a *App) []*Window {
	var out []*Window
	for _, w := range h.windows {
		if w.app == a && w.ws != nil {
			out = append(out, w)
		}
	}
	return out
}

// Focus gives w the input focus and emits focus-changed on the previously
// focused window and on w.
func (h *Host) Focus(w *Window) {
	for _, o := range h.windows {
		if o.focused && o != w {
			o.focused = false
			o.Emit(host.FocusChanged, host.Notification{Event: host.FocusChanged, Window: o})
		}
	}
	w.focused = true
	w.Emit(host.FocusChanged, host.Notification{Event: host.FocusChanged, Window: w})
}

// Unfocus clears focus from every window.
func (h *Host) Unfocus() {
	for _, o := range h.windows {
		if o.focused {
			o.focused = false
			o.Emit(host.FocusChanged, host.Notification{Event: host.FocusChanged, Window: o})
		}
	}
}

// Resolve lets identity lookups for w succeed from now on.
func (h *Host) Resolve(w *Window) {
	w.unresolved = false
}

// Unresolve makes identity lookups for w fail again.
func (h *Host) Unresolve(w *Window) {
	w.unresolved = true
}

// SwitchTo activates ws and emits workspace-switched.
func (h *Host) SwitchTo(ws *Workspace) {
	from := -1
	if h.active != nil {
		from = h.active.index
	}
	h.active = ws
	h.Emit(host.WorkspaceSwitched, host.Notification{Event: host.WorkspaceSwitched, From: from, To: ws.index})
}

// AddWorkspace appends a workspace and emits workspace-set-changed.
func (h *Host) AddWorkspace() *Workspace {
	ws := &Workspace{index: h.nextIndex()}
	h.workspaces = append(h.workspaces, ws)
	h.Emit(host.WorkspacesChanged, host.Notification{Event: host.WorkspacesChanged})
	return ws
}

func (h *Host) nextIndex() int {
	next := 0
	for _, ws := range h.workspaces {
		next = max(next, ws.index+1)
	}
	return next
}

// RemoveWorkspace drops ws and emits workspace-set-changed.
func (h *Host) RemoveWorkspace(ws *Workspace) {
	h.workspaces = slices.DeleteFunc(h.workspaces, func(o *Workspace) bool { return o == ws })
	h.Emit(host.WorkspacesChanged, host.Notification{Event: host.WorkspacesChanged})
}

func (h *Host) ShowOverview() {
	h.Emit(host.OverviewShowing, host.Notification{Event: host.OverviewShowing})
}

func (h *Host) HideOverview() {
	h.Emit(host.OverviewHiding, host.Notification{Event: host.OverviewHiding})
}

// Subscriptions counts handlers connected anywhere on the host, including
// windows that were already closed.
func (h *Host) Subscriptions() int {
	n := h.Count()
	for _, ws := range h.workspaces {
		n += ws.Count()
	}
	for _, a := range h.apps {
		n += a.Count()
	}
	for _, w := range h.windows {
		n += w.Count()
	}
	return n
}

func (h *Host) WindowApp(w host.Window) (host.Application, bool) {
	fw, ok := w.(*Window)
	if !ok || fw.unresolved || fw.app == nil {
		return nil, false
	}
	return fw.app, true
}

func (h *Host) IsInteresting(w host.Window) bool {
	fw, ok := w.(*Window)
	return ok && fw.interesting
}

func (h *Host) ActiveWorkspace() host.Workspace {
	if h.active == nil {
		return nil
	}
	return h.active
}

func (h *Host) WorkspaceByIndex(index int) (host.Workspace, bool) {
	for _, ws := range h.workspaces {
		if ws.index == index {
			return ws, true
		}
	}
	return nil, false
}

func (h *Host) Workspaces() []host.Workspace {
	out := make([]host.Workspace, 0, len(h.workspaces))
	for _, ws := range h.workspaces {
		out = append(out, ws)
	}
	return out
}

func (h *Host) command(name string, w host.Window) error {
	if h.CommandErr != nil {
		return h.CommandErr
	}
	h.Commands = append(h.Commands, Command{Name: name, Window: w.ID()})
	return nil
}

func (h *Host) Activate(w host.Window) error { return h.command("activate", w) }
func (h *Host) Minimize(w host.Window) error { return h.command("minimize", w) }
func (h *Host) Close(w host.Window) error { return h.command("close", w) }
