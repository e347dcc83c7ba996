package wm

import "context"

// Ctl talks to the compositor. Hyprctl is the real implementation.
type Ctl interface {
	// Query runs `hyprctl -j <target>` and decodes the reply into v.
	Query(ctx context.Context, target string, v any) error
	// Dispatch runs `hyprctl dispatch <args...>`.
	Dispatch(ctx context.Context, args ...string) error
}

type clientInfo struct {
	Address        string       `json:"address"`
	Mapped         bool         `json:"mapped"`
	Hidden         bool         `json:"hidden"`
	Workspace      workspaceRef `json:"workspace"`
	Class          string       `json:"class"`
	Title          string       `json:"title"`
	InitialClass   string       `json:"initialClass"`
	FocusHistoryID int          `json:"focusHistoryID"`
}

type workspaceRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type workspaceInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Windows int    `json:"windows"`
}

type activeWindowInfo struct {
	Address string `json:"address"`
}
