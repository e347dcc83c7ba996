package wm

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"hypr-windowlist/internal/host"
	"hypr-windowlist/internal/signals"
	"hypr-windowlist/pkg/core"
)

const commandTimeout = 2 * time.Second

// Host mirrors the Hyprland window state and emits host notifications as
// events are applied. It is not safe for concurrent use: Sync, Apply and
// the commands must all run on the same goroutine.
type Host struct {
	signals.Emitter[host.Notification]

	ctl        Ctl
	log        core.Logger
	minimizeWS string

	windows    map[string]*Window
	workspaces map[int]*Workspace
	apps       map[string]*App
	active     *Workspace
	focused    *Window
	seq        uint64
	// clock stamps focus changes; a larger user time is a later focus.
	clock uint64
}

var _ host.Host = (*Host)(nil)

// NewHost creates an empty host. Minimized windows are parked on the
// special workspace named minimizeWS.
func NewHost(ctl Ctl, log core.Logger, minimizeWS string) *Host {
	return &Host{
		ctl:        ctl,
		log:        log,
		minimizeWS: minimizeWS,
		windows:    make(map[string]*Window),
		workspaces: make(map[int]*Workspace),
		apps:       make(map[string]*App),
	}
}

type Workspace struct {
	signals.Emitter[host.Notification]
	id      int
	name    string
	windows []*Window
}

func (ws *Workspace) Index() int { return ws.id }

func (ws *Workspace) Name() string { return ws.name }

func (ws *Workspace) ListWindows() []host.Window {
	out := make([]host.Window, 0, len(ws.windows))
	for _, w := range ws.windows {
		out = append(out, w)
	}
	return out
}

func (ws *Workspace) special() bool { return ws.id < 0 }

// App is every window sharing one window class.
type App struct {
	signals.Emitter[host.Notification]
	class string
	state host.AppState
}

func (a *App) ID() string { return a.class }

func (a *App) Name() string { return a.class }

func (a *App) State() host.AppState { return a.state }

func (a *App) setState(s host.AppState) {
	if a.state == s {
		return
	}
	a.state = s
	a.Emit(host.AppStateChanged, host.Notification{Event: host.AppStateChanged, App: a})
}

type Window struct {
	signals.Emitter[host.Notification]
	address   string
	class     string
	title     string
	seq       uint64
	userTime  uint64
	mapped    bool
	hidden    bool
	focused   bool
	urgent    bool
	minimized bool
	ws        *Workspace
}

func (w *Window) ID() string { return w.address }

func (w *Window) Title() string { return w.title }

func (w *Window) Class() string { return w.class }

func (w *Window) StableSequence() uint64 { return w.seq }

// UserTime is the stamp of the window's last focus, 0 if it was never
// focused. Older focus means a smaller value.
func (w *Window) UserTime() uint64 { return w.userTime }

func (w *Window) AppearsFocused() bool { return w.focused }

func (w *Window) Urgent() bool { return w.urgent }

// DemandsAttention is always false: Hyprland only has the urgency hint, so
// a group's attention comes from the `urgent` event alone and clears when
// the window is focused.
func (w *Window) DemandsAttention() bool { return false }

// Minimized reports whether the window is parked on the minimize workspace.
func (w *Window) Minimized() bool { return w.minimized }

// Workspace returns the workspace the window is listed on. Minimized
// windows stay listed on the workspace they were minimized from.
func (w *Window) Workspace() host.Workspace {
	if w.ws == nil {
		return nil
	}
	return w.ws
}

// normalizeAddress turns event addresses (bare hex) into hyprctl's 0x form.
func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" || strings.HasPrefix(addr, "0x") {
		return addr
	}
	return "0x" + addr
}

// Sync replaces the mirrored state with a fresh hyprctl snapshot. It does
// not emit notifications and is meant to run before anything subscribes.
func (h *Host) Sync(ctx context.Context) error {
	var workspaces []workspaceInfo
	if err := h.ctl.Query(ctx, "workspaces", &workspaces); err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}
	var active workspaceInfo
	if err := h.ctl.Query(ctx, "activeworkspace", &active); err != nil {
		return fmt.Errorf("failed to get active workspace: %w", err)
	}
	var clients []clientInfo
	if err := h.ctl.Query(ctx, "clients", &clients); err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	h.windows = make(map[string]*Window)
	h.workspaces = make(map[int]*Workspace)
	h.apps = make(map[string]*App)
	h.focused = nil
	h.clock = 0

	for _, info := range workspaces {
		h.workspaces[info.ID] = &Workspace{id: info.ID, name: info.Name}
	}
	h.active = h.workspace(active.ID, active.Name)

	sort.Slice(clients, func(i, j int) bool { return clients[i].Address < clients[j].Address })
	var history []*Window
	rank := make(map[*Window]int)
	for _, c := range clients {
		w := h.newWindow(c.Address, c.Class, c.Title)
		w.mapped = c.Mapped
		w.hidden = c.Hidden
		h.attach(w, h.workspace(c.Workspace.ID, c.Workspace.Name))
		if w.class != "" {
			h.app(w.class).state = host.AppRunning
		}
		if c.FocusHistoryID >= 0 {
			history = append(history, w)
			rank[w] = c.FocusHistoryID
		}
	}
	// focusHistoryID 0 is the most recent focus, so it gets the largest stamp.
	slices.SortStableFunc(history, func(a, b *Window) int { return rank[b] - rank[a] })
	for _, w := range history {
		h.clock++
		w.userTime = h.clock
	}

	var aw activeWindowInfo
	if err := h.ctl.Query(ctx, "activewindow", &aw); err != nil {
		return fmt.Errorf("failed to get active window: %w", err)
	}
	if w, ok := h.windows[normalizeAddress(aw.Address)]; ok {
		w.focused = true
		h.focused = w
	}

	h.log.Info("Synced with Hyprland",
		"workspaces", len(h.workspaces),
		"windows", len(h.windows),
		"active", h.active.id)
	return nil
}

// Apply updates the mirrored state from one event and emits the matching
// notifications.
func (h *Host) Apply(ctx context.Context, ev Event) error {
	n, known := eventFields[ev.Name]
	if !known {
		return nil
	}
	if len(ev.Args) < n {
		return fmt.Errorf("%s with %d fields: %w", ev.Name, len(ev.Args), ErrMalformedEvent)
	}

	switch ev.Name {
	case "openwindow":
		h.openWindow(ctx, ev.Args[0], ev.Args[1], ev.Args[2], ev.Args[3])
	case "closewindow":
		h.closeWindow(ev.Args[0])
	case "movewindowv2":
		id, err := strconv.Atoi(ev.Args[1])
		if err != nil {
			return fmt.Errorf("movewindowv2 workspace id %q: %w", ev.Args[1], ErrMalformedEvent)
		}
		h.moveWindow(ev.Args[0], id, ev.Args[2])
	case "windowtitlev2":
		h.retitle(ctx, ev.Args[0], ev.Args[1])
	case "activewindowv2":
		h.focus(ev.Args[0])
	case "urgent":
		if w, ok := h.windows[normalizeAddress(ev.Args[0])]; ok && !w.urgent {
			w.urgent = true
			w.Emit(host.UrgencyChanged, host.Notification{Event: host.UrgencyChanged, Window: w})
		}
	case "workspacev2":
		id, err := strconv.Atoi(ev.Args[0])
		if err != nil {
			return fmt.Errorf("workspacev2 id %q: %w", ev.Args[0], ErrMalformedEvent)
		}
		h.switchTo(id, ev.Args[1])
	case "createworkspacev2":
		id, err := strconv.Atoi(ev.Args[0])
		if err != nil {
			return fmt.Errorf("createworkspacev2 id %q: %w", ev.Args[0], ErrMalformedEvent)
		}
		if _, ok := h.workspaces[id]; !ok {
			h.workspaces[id] = &Workspace{id: id, name: ev.Args[1]}
			h.Emit(host.WorkspacesChanged, host.Notification{Event: host.WorkspacesChanged})
		}
	case "destroyworkspacev2":
		id, err := strconv.Atoi(ev.Args[0])
		if err != nil {
			return fmt.Errorf("destroyworkspacev2 id %q: %w", ev.Args[0], ErrMalformedEvent)
		}
		h.destroyWorkspace(id)
	case "activespecial":
		if ev.Args[0] != "" {
			h.Emit(host.OverviewShowing, host.Notification{Event: host.OverviewShowing})
		} else {
			h.Emit(host.OverviewHiding, host.Notification{Event: host.OverviewHiding})
		}
	}
	return nil
}

func (h *Host) newWindow(addr, class, title string) *Window {
	h.seq++
	w := &Window{
		address:  normalizeAddress(addr),
		class:    class,
		title:    title,
		seq:      h.seq,
		mapped:   true,
	}
	h.windows[w.address] = w
	return w
}

func (h *Host) attach(w *Window, ws *Workspace) {
	w.ws = ws
	ws.windows = append(ws.windows, w)
}

func (h *Host) detach(w *Window) {
	if w.ws == nil {
		return
	}
	w.ws.windows = slices.DeleteFunc(w.ws.windows, func(o *Window) bool { return o == w })
	w.ws = nil
}

// workspace returns the known workspace with id, creating it quietly when
// an event mentions one we have not seen yet.
func (h *Host) workspace(id int, name string) *Workspace {
	if ws, ok := h.workspaces[id]; ok {
		return ws
	}
	ws := &Workspace{id: id, name: name}
	h.workspaces[id] = ws
	return ws
}

func (h *Host) workspaceByName(name string) *Workspace {
	for _, ws := range h.workspaces {
		if ws.name == name {
			return ws
		}
	}
	return nil
}

func (h *Host) app(class string) *App {
	if a, ok := h.apps[class]; ok {
		return a
	}
	a := &App{class: class, state: host.AppStarting}
	h.apps[class] = a
	return a
}

func (h *Host) appHasWindows(class string) bool {
	for _, w := range h.windows {
		if w.class == class {
			return true
		}
	}
	return false
}

func (h *Host) openWindow(ctx context.Context, addr, wsName, class, title string) {
	if _, ok := h.windows[normalizeAddress(addr)]; ok {
		return
	}
	ws := h.workspaceByName(wsName)
	if ws == nil {
		// openwindow only names the workspace; ask for its id.
		var workspaces []workspaceInfo
		if err := h.ctl.Query(ctx, "workspaces", &workspaces); err != nil {
			h.log.Error("Failed to resolve workspace of new window", err, "workspace", wsName)
			return
		}
		for _, info := range workspaces {
			if info.Name == wsName {
				ws = h.workspace(info.ID, info.Name)
			}
		}
		if ws == nil {
			h.log.Warn("New window on unknown workspace", "address", addr, "workspace", wsName)
			return
		}
	}

	w := h.newWindow(addr, class, title)
	h.attach(w, ws)
	if class != "" {
		h.app(class).setState(host.AppRunning)
	}

	h.log.Debug("Window opened", "address", w.address, "class", class, "workspace", ws.id)
	ws.Emit(host.WindowAdded, host.Notification{Event: host.WindowAdded, Workspace: ws, Window: w})
}

func (h *Host) closeWindow(addr string) {
	w, ok := h.windows[normalizeAddress(addr)]
	if !ok {
		return
	}
	ws := w.ws
	h.detach(w)
	delete(h.windows, w.address)
	if h.focused == w {
		h.focused = nil
	}

	h.log.Debug("Window closed", "address", w.address, "class", w.class)
	if ws != nil {
		ws.Emit(host.WindowRemoved, host.Notification{Event: host.WindowRemoved, Workspace: ws, Window: w})
	}
	if w.class != "" && !h.appHasWindows(w.class) {
		h.app(w.class).setState(host.AppStopped)
	}
	h.Emit(host.WindowUnmanaged, host.Notification{Event: host.WindowUnmanaged, Window: w})
}

func (h *Host) moveWindow(addr string, id int, name string) {
	w, ok := h.windows[normalizeAddress(addr)]
	if !ok {
		return
	}
	target := h.workspace(id, name)

	// Parking on the minimize workspace keeps the window listed where it was.
	if target.special() && name == "special:"+h.minimizeWS && w.ws != nil && !w.ws.special() {
		w.minimized = true
		h.log.Debug("Window minimized", "address", w.address, "workspace", w.ws.id)
		return
	}
	w.minimized = false
	if target == w.ws {
		return
	}

	old := w.ws
	h.detach(w)
	if old != nil {
		old.Emit(host.WindowRemoved, host.Notification{Event: host.WindowRemoved, Workspace: old, Window: w})
	}
	h.attach(w, target)
	target.Emit(host.WindowAdded, host.Notification{Event: host.WindowAdded, Workspace: target, Window: w})
}

func (h *Host) retitle(ctx context.Context, addr, title string) {
	w, ok := h.windows[normalizeAddress(addr)]
	if !ok {
		return
	}
	w.title = title

	// Some clients set their class after the first title.
	if w.class == "" {
		var clients []clientInfo
		if err := h.ctl.Query(ctx, "clients", &clients); err != nil {
			h.log.Error("Failed to refresh window class", err, "address", w.address)
		}
		for _, c := range clients {
			if normalizeAddress(c.Address) == w.address && c.Class != "" {
				w.class = c.Class
				h.app(c.Class).setState(host.AppRunning)
				h.log.Debug("Window class resolved", "address", w.address, "class", c.Class)
			}
		}
	}

	w.Emit(host.TitleChanged, host.Notification{Event: host.TitleChanged, Window: w})
}

func (h *Host) focus(addr string) {
	next := h.windows[normalizeAddress(addr)]
	prev := h.focused
	if next == prev {
		return
	}
	h.focused = next

	if next != nil {
		h.clock++
		next.userTime = h.clock
	}

	if prev != nil {
		prev.focused = false
		prev.Emit(host.FocusChanged, host.Notification{Event: host.FocusChanged, Window: prev})
	}
	if next != nil {
		next.focused = true
		next.Emit(host.FocusChanged, host.Notification{Event: host.FocusChanged, Window: next})
		if next.urgent {
			next.urgent = false
			next.Emit(host.UrgencyChanged, host.Notification{Event: host.UrgencyChanged, Window: next})
		}
	}
}

func (h *Host) switchTo(id int, name string) {
	from := -1
	if h.active != nil {
		from = h.active.id
	}
	h.active = h.workspace(id, name)
	h.Emit(host.WorkspaceSwitched, host.Notification{Event: host.WorkspaceSwitched, From: from, To: id})
}

func (h *Host) destroyWorkspace(id int) {
	ws, ok := h.workspaces[id]
	if !ok {
		return
	}
	delete(h.workspaces, id)
	if h.active == ws {
		h.active = nil
	}

	// Only minimized windows can still be listed here, since Hyprland holds
	// them on the minimize workspace. Re-list them on the active workspace.
	for _, w := range slices.Clone(ws.windows) {
		h.detach(w)
		ws.Emit(host.WindowRemoved, host.Notification{Event: host.WindowRemoved, Workspace: ws, Window: w})

		target := h.active
		if target == nil || target.special() {
			target = h.workspaceByName("special:" + h.minimizeWS)
			w.minimized = false
		}
		if target == nil {
			h.log.Warn("Window left without a workspace", "address", w.address, "workspace", id)
			continue
		}
		h.attach(w, target)
		target.Emit(host.WindowAdded, host.Notification{Event: host.WindowAdded, Workspace: target, Window: w})
		h.log.Debug("Minimized window re-homed", "address", w.address, "from", id, "to", target.id)
	}

	h.Emit(host.WorkspacesChanged, host.Notification{Event: host.WorkspacesChanged})
}

func (h *Host) WindowApp(w host.Window) (host.Application, bool) {
	hw, ok := w.(*Window)
	if !ok || hw.class == "" {
		return nil, false
	}
	return h.app(hw.class), true
}

func (h *Host) IsInteresting(w host.Window) bool {
	hw, ok := w.(*Window)
	return ok && hw.mapped && !hw.hidden && hw.ws != nil && !hw.ws.special()
}

func (h *Host) ActiveWorkspace() host.Workspace {
	if h.active == nil {
		return nil
	}
	return h.active
}

func (h *Host) WorkspaceByIndex(index int) (host.Workspace, bool) {
	ws, ok := h.workspaces[index]
	if !ok {
		return nil, false
	}
	return ws, true
}

// Workspaces returns every known workspace ordered by id.
func (h *Host) Workspaces() []host.Workspace {
	ids := make([]int, 0, len(h.workspaces))
	for id := range h.workspaces {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]host.Workspace, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.workspaces[id])
	}
	return out
}

func (h *Host) dispatch(args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return h.ctl.Dispatch(ctx, args...)
}

func (h *Host) Activate(w host.Window) error {
	hw, ok := w.(*Window)
	if !ok {
		return fmt.Errorf("not a hyprland window: %v", w)
	}
	if hw.minimized && h.active != nil {
		if err := h.dispatch("movetoworkspacesilent", fmt.Sprintf("%d,address:%s", h.active.id, hw.address)); err != nil {
			return fmt.Errorf("failed to restore window: %w", err)
		}
	}
	if err := h.dispatch("focuswindow", "address:"+hw.address); err != nil {
		return fmt.Errorf("failed to focus window: %w", err)
	}
	return nil
}

func (h *Host) Minimize(w host.Window) error {
	hw, ok := w.(*Window)
	if !ok {
		return fmt.Errorf("not a hyprland window: %v", w)
	}
	target := fmt.Sprintf("special:%s,address:%s", h.minimizeWS, hw.address)
	if err := h.dispatch("movetoworkspacesilent", target); err != nil {
		return fmt.Errorf("failed to minimize window: %w", err)
	}
	return nil
}

func (h *Host) Close(w host.Window) error {
	hw, ok := w.(*Window)
	if !ok {
		return fmt.Errorf("not a hyprland window: %v", w)
	}
	if err := h.dispatch("closewindow", "address:"+hw.address); err != nil {
		return fmt.Errorf("failed to close window: %w", err)
	}
	return nil
}
