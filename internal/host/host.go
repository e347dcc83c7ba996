// Package host describes what the window list needs from the compositor it
// runs against: window, application and workspace handles, their
// notifications, identity lookup and the window commands.
package host

import "hypr-windowlist/internal/signals"

// AppState is the lifecycle state of an application.
type AppState int

const (
	AppStarting AppState = iota
	AppRunning
	AppStopped
)

func (s AppState) String() string {
	switch s {
	case AppStarting:
		return "starting"
	case AppRunning:
		return "running"
	case AppStopped:
		return "stopped"
	}
	return "unknown"
}

// Notification names. Workspace sources emit WindowAdded/WindowRemoved,
// Window sources emit TitleChanged/FocusChanged/UrgencyChanged, Application
// sources emit AppStateChanged, the Host source emits the rest.
const (
	WindowAdded       = "window-added"
	WindowRemoved     = "window-removed"
	TitleChanged      = "title-changed"
	FocusChanged      = "focus-changed"
	UrgencyChanged    = "urgency-changed"
	AppStateChanged   = "app-state-changed"
	WorkspaceSwitched = "workspace-switched"
	WorkspacesChanged = "workspace-set-changed"
	OverviewShowing   = "overview-showing"
	OverviewHiding    = "overview-hiding"
	WindowUnmanaged   = "window-unmanaged"
)

// Notification is the payload of every host notification. Only the fields
// relevant to Event are set.
type Notification struct {
	Event     string
	Workspace Workspace
	Window    Window
	App       Application
	From, To  int
}

// Source is a host object that notifications can be subscribed on.
type Source = signals.Source[Notification]

// Window is a host-owned window handle. Implementations must be pointer
// types: handles are compared and used as map keys by reference.
type Window interface {
	Source
	ID() string
	Title() string
	// StableSequence is the host's creation order.
	StableSequence() uint64
	// UserTime is the last-interaction marker used to elect a window when
	// nothing has been focused yet. Smaller wins.
	UserTime() uint64
	AppearsFocused() bool
	Urgent() bool
	DemandsAttention() bool
	Workspace() Workspace
}

// Application is a host-owned application handle.
type Application interface {
	Source
	ID() string
	Name() string
	State() AppState
}

// Workspace is a host-owned workspace handle.
type Workspace interface {
	Source
	Index() int
	ListWindows() []Window
}

// Identity answers which application owns a window.
type Identity interface {
	// WindowApp reports the owning application, or false while the host
	// cannot tell yet.
	WindowApp(w Window) (Application, bool)
	IsInteresting(w Window) bool
}

// Commander carries out window commands issued by the view layer.
type Commander interface {
	Activate(w Window) error
	Minimize(w Window) error
	Close(w Window) error
}

// Host is the compositor as seen by the window list.
type Host interface {
	Source
	Identity
	Commander
	ActiveWorkspace() Workspace
	WorkspaceByIndex(index int) (Workspace, bool)
	Workspaces() []Workspace
}
