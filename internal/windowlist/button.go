package windowlist

import "hypr-windowlist/internal/host"

// ButtonKind distinguishes the two button variants a view draws.
type ButtonKind int

const (
	// WindowButton stands for a single window.
	WindowButton ButtonKind = iota
	// AppButton stands for a whole application group and acts on its last
	// focused window.
	AppButton
)

func (k ButtonKind) String() string {
	if k == AppButton {
		return "app"
	}
	return "window"
}

// Button is the view handle the model keeps per window and per group.
type Button struct {
	Kind   ButtonKind
	App    host.Application
	Window host.Window
}

// Target returns the window a click on the button acts on.
func (b *Button) Target(g *AppGroup) host.Window {
	if b.Kind == WindowButton {
		return b.Window
	}
	return g.LastFocused()
}
