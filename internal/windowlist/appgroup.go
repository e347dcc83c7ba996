package windowlist

import (
	"cmp"
	"errors"
	"fmt"

	"hypr-windowlist/internal/host"
	"hypr-windowlist/internal/identity"
	"hypr-windowlist/internal/ordered"
	"hypr-windowlist/internal/signals"
	"hypr-windowlist/pkg/core"
)

// Group notifications.
const (
	FocusStateChanged = "focus-state-changed"
	AttentionChanged  = "attention-changed"
	LabelChanged      = "label-changed"
	WindowsChanged    = "windows-changed"
	ButtonsChanged    = "buttons-changed"
)

// GroupEvent is the payload of every group notification.
type GroupEvent struct {
	Group     *AppGroup
	Focused   bool
	Attention bool
	Label     string
}

// env is what every component of one Manager shares.
type env struct {
	resolver *identity.Resolver
	commands host.Commander
	log      core.Logger
	opts     Options
}

type windowEntry struct {
	subs   []signals.Handle
	button *Button
}

// AppGroup tracks every window of one application on the workspaces it
// watches, in creation order, and remembers which one was focused last.
type AppGroup struct {
	env *env
	app host.Application

	windows    ordered.Map[host.Window, *windowEntry]
	workspaces ordered.Map[host.Workspace, []signals.Handle]
	subs       *signals.Tracker[host.Notification]

	lastFocused host.Window
	focusSeen   bool
	focused     bool
	attention   bool
	label       string
	button      *Button
	expanded    bool

	events    signals.Emitter[GroupEvent]
	destroyed bool
}

func newAppGroup(e *env, app host.Application) *AppGroup {
	g := &AppGroup{
		env:    e,
		app:    app,
		subs:   signals.NewTracker[host.Notification]("group:" + app.ID()),
		button: &Button{Kind: AppButton, App: app},
		// Expand and Consolidate override the option for this group only.
		expanded: !e.opts.GroupByApp,
	}
	g.label = g.computeLabel()
	return g
}

func (g *AppGroup) App() host.Application { return g.app }

// Windows returns the tracked windows ordered by creation.
func (g *AppGroup) Windows() []host.Window { return g.windows.Keys() }

func (g *AppGroup) Len() int { return g.windows.Len() }

func (g *AppGroup) Contains(w host.Window) bool { return g.windows.Contains(w) }

// LastFocused returns the window the app button acts on, or nil.
func (g *AppGroup) LastFocused() host.Window { return g.lastFocused }

// Focused reports whether any tracked window appears focused.
func (g *AppGroup) Focused() bool { return g.focused }

// Attention reports whether any tracked window is urgent or demands attention.
func (g *AppGroup) Attention() bool { return g.attention }

func (g *AppGroup) Label() string { return g.label }

// WatchedWorkspaces returns the workspaces the group listens on.
func (g *AppGroup) WatchedWorkspaces() []host.Workspace { return g.workspaces.Keys() }

// Expanded reports whether the group shows one button per window.
func (g *AppGroup) Expanded() bool { return g.expanded }

// Expand shows one button per window for this group.
func (g *AppGroup) Expand() { g.setExpanded(true) }

// Consolidate shows the single app button for this group.
func (g *AppGroup) Consolidate() { g.setExpanded(false) }

func (g *AppGroup) setExpanded(v bool) {
	if g.expanded == v {
		return
	}
	g.expanded = v
	g.env.log.Debug("Group layout changed", "app", g.app.ID(), "expanded", v)
	g.events.Emit(ButtonsChanged, g.event())
}

// Buttons returns the buttons a view should draw for this group: the app
// button when consolidated, otherwise one button per window.
func (g *AppGroup) Buttons() []*Button {
	if !g.expanded {
		return []*Button{g.button}
	}
	out := make([]*Button, 0, g.windows.Len())
	for _, e := range g.windows.Values() {
		out = append(out, e.button)
	}
	return out
}

// Connect subscribes fn to a group notification.
func (g *AppGroup) Connect(name string, fn func(GroupEvent)) signals.HandlerID {
	return g.events.Connect(name, fn)
}

func (g *AppGroup) Disconnect(id signals.HandlerID) bool {
	return g.events.Disconnect(id)
}

// WatchWorkspace starts following windows added to and removed from ws.
func (g *AppGroup) WatchWorkspace(ws host.Workspace) {
	if g.workspaces.Contains(ws) {
		return
	}
	added := g.subs.Connect(ws, host.WindowAdded, func(n host.Notification) {
		g.onWindowAdded(n.Workspace, n.Window)
	})
	removed := g.subs.Connect(ws, host.WindowRemoved, func(n host.Notification) {
		g.onWindowRemoved(n.Window)
	})
	g.workspaces.Set(ws, []signals.Handle{added, removed})
}

// UnwatchWorkspace stops following ws, or every workspace when ws is nil.
func (g *AppGroup) UnwatchWorkspace(ws host.Workspace) {
	if ws == nil {
		g.workspaces.Each(func(k host.Workspace, handles []signals.Handle) {
			g.subs.ReleaseAll(handles)
			g.workspaces.Remove(k)
		})
		return
	}
	handles, ok := g.workspaces.Remove(ws)
	if !ok {
		g.env.log.Warn("Tried to unwatch a workspace that is not watched",
			"app", g.app.ID(),
			"workspace", ws.Index())
		return
	}
	g.subs.ReleaseAll(handles)
}

// Refresh feeds every window of ws through the add path, then settles
// which window the app button targets.
func (g *AppGroup) Refresh(ws host.Workspace) {
	for _, w := range ws.ListWindows() {
		g.onWindowAdded(ws, w)
	}
	if g.lastFocused == nil {
		g.lastFocused = g.elect()
	}
	g.updateLabel()
	g.updateFocusState()
	g.updateAttention()
}

func (g *AppGroup) onWindowAdded(ws host.Workspace, w host.Window) {
	if g.destroyed || w == nil || g.windows.Contains(w) {
		return
	}
	app, err := g.env.resolver.Resolve(w)
	if err != nil {
		if errors.Is(err, identity.ErrIdentityUnresolved) {
			g.env.log.Debug("Skipping window until its application is known",
				"app", g.app.ID(),
				"window", w.ID())
		}
		return
	}
	if app != g.app || !g.env.resolver.IsInteresting(w) {
		return
	}

	entry := &windowEntry{button: &Button{Kind: WindowButton, App: g.app, Window: w}}
	entry.subs = []signals.Handle{
		g.subs.Connect(w, host.TitleChanged, func(n host.Notification) { g.onTitleChanged(n.Window) }),
		g.subs.Connect(w, host.FocusChanged, func(n host.Notification) { g.onFocusChanged(n.Window) }),
		g.subs.Connect(w, host.UrgencyChanged, func(n host.Notification) { g.onUrgencyChanged(n.Window) }),
	}
	g.windows.Set(w, entry)
	g.windows.SortByKey(func(a, b host.Window) int {
		return cmp.Compare(a.StableSequence(), b.StableSequence())
	})

	switch {
	case w.AppearsFocused():
		g.lastFocused = w
		g.focusSeen = true
	case !g.focusSeen:
		g.lastFocused = g.elect()
	}

	g.env.log.Debug("Window added to group",
		"app", g.app.ID(),
		"window", w.ID(),
		"workspace", indexOf(ws),
		"count", g.windows.Len())

	g.updateLabel()
	g.updateFocusState()
	g.updateAttention()
	g.events.Emit(WindowsChanged, g.event())
}

func (g *AppGroup) onWindowRemoved(w host.Window) {
	entry, ok := g.windows.Remove(w)
	if !ok {
		return
	}
	g.subs.ReleaseAll(entry.subs)

	if w == g.lastFocused {
		g.lastFocused = nil
		if next, _, ok := g.windows.At(0); ok {
			g.lastFocused = next
		}
	}

	g.env.log.Debug("Window removed from group",
		"app", g.app.ID(),
		"window", w.ID(),
		"count", g.windows.Len())

	g.updateLabel()
	g.updateFocusState()
	g.updateAttention()
	g.events.Emit(WindowsChanged, g.event())
}

func (g *AppGroup) onFocusChanged(w host.Window) {
	if !g.windows.Contains(w) {
		g.env.log.Error("Dropping focus change", fmt.Errorf("window %s not in group %s: %w",
			w.ID(), g.app.ID(), ErrInvariantViolation))
		return
	}
	if w.AppearsFocused() {
		g.lastFocused = w
		g.focusSeen = true
		g.updateLabel()
	}
	g.updateFocusState()
}

func (g *AppGroup) onTitleChanged(w host.Window) {
	// Only the last focused window's title is displayed.
	if w != g.lastFocused {
		return
	}
	g.updateLabel()
}

func (g *AppGroup) onUrgencyChanged(host.Window) {
	g.updateAttention()
}

// elect picks the window with the smallest user time, the oldest one on ties.
func (g *AppGroup) elect() host.Window {
	var best host.Window
	for _, w := range g.windows.Keys() {
		if best == nil {
			best = w
			continue
		}
		if c := cmp.Compare(w.UserTime(), best.UserTime()); c < 0 ||
			(c == 0 && w.StableSequence() < best.StableSequence()) {
			best = w
		}
	}
	return best
}

func (g *AppGroup) computeLabel() string {
	var title string
	if g.lastFocused != nil {
		title = g.lastFocused.Title()
	}
	name := g.app.Name()

	switch g.env.opts.DisplayTitle {
	case TitleWindow:
		// Some windows take a while to set a title.
		if title != "" {
			return title
		}
		return name
	case TitleApp:
		return name
	}
	return ""
}

func (g *AppGroup) updateLabel() {
	label := g.computeLabel()
	if label == g.label {
		return
	}
	g.label = label
	g.events.Emit(LabelChanged, g.event())
}

func (g *AppGroup) updateFocusState() {
	focused := false
	for _, w := range g.windows.Keys() {
		if w.AppearsFocused() {
			focused = true
			break
		}
	}
	if focused == g.focused {
		return
	}
	g.focused = focused
	g.events.Emit(FocusStateChanged, g.event())
}

func (g *AppGroup) updateAttention() {
	attention := false
	for _, w := range g.windows.Keys() {
		if w.Urgent() || w.DemandsAttention() {
			attention = true
			break
		}
	}
	if attention == g.attention {
		return
	}
	g.attention = attention
	g.events.Emit(AttentionChanged, g.event())
}

func (g *AppGroup) event() GroupEvent {
	return GroupEvent{Group: g, Focused: g.focused, Attention: g.attention, Label: g.label}
}

// Toggle is what a click on the app button does: minimize the last focused
// window when it has focus, activate it otherwise.
func (g *AppGroup) Toggle() error {
	w := g.lastFocused
	if w == nil {
		return nil
	}
	if w.AppearsFocused() {
		return g.env.commands.Minimize(w)
	}
	return g.env.commands.Activate(w)
}

// Destroy drops every subscription the group holds. It must be called once.
func (g *AppGroup) Destroy() {
	g.UnwatchWorkspace(nil)
	g.subs.DisconnectAll()
	g.windows = ordered.Map[host.Window, *windowEntry]{}
	g.lastFocused = nil
	g.destroyed = true
}

func indexOf(ws host.Workspace) int {
	if ws == nil {
		return -1
	}
	return ws.Index()
}
