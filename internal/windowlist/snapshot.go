package windowlist

// State is a plain-data copy of the displayed list, safe to hand to other
// goroutines and to encode as JSON.
type State struct {
	Workspace    int          `json:"workspace"`
	Visible      bool         `json:"visible"`
	GroupByApp   bool         `json:"group_by_app"`
	DisplayTitle string       `json:"display_title"`
	Groups       []GroupState `json:"groups"`
}

type GroupState struct {
	App         string        `json:"app"`
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Focused     bool          `json:"focused"`
	Attention   bool          `json:"attention"`
	Expanded    bool          `json:"expanded"`
	LastFocused string        `json:"last_focused,omitempty"`
	Windows     []WindowState `json:"windows"`
	Buttons     []ButtonState `json:"buttons"`
}

type WindowState struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Focused   bool   `json:"focused"`
	Attention bool   `json:"attention"`
}

// ButtonState describes one button a view should draw. Target is the
// window a click acts on.
type ButtonState struct {
	Kind   string `json:"kind"`
	Label  string `json:"label"`
	Target string `json:"target,omitempty"`
}

// Snapshot copies the displayed list. Workspace is -1 when none is shown.
func (m *Manager) Snapshot() State {
	st := State{
		Workspace:    -1,
		Visible:      m.visible,
		GroupByApp:   m.env.opts.GroupByApp,
		DisplayTitle: m.env.opts.DisplayTitle.String(),
		Groups:       []GroupState{},
	}
	if m.current == nil {
		return st
	}
	st.Workspace = m.current.Workspace().Index()
	for _, g := range m.current.Groups() {
		st.Groups = append(st.Groups, groupState(g))
	}
	return st
}

func groupState(g *AppGroup) GroupState {
	gs := GroupState{
		App:       g.App().ID(),
		Name:      g.App().Name(),
		Label:     g.Label(),
		Focused:   g.Focused(),
		Attention: g.Attention(),
		Expanded:  g.Expanded(),
	}
	if w := g.LastFocused(); w != nil {
		gs.LastFocused = w.ID()
	}
	for _, w := range g.Windows() {
		gs.Windows = append(gs.Windows, WindowState{
			ID:        w.ID(),
			Title:     w.Title(),
			Focused:   w.AppearsFocused(),
			Attention: w.Urgent() || w.DemandsAttention(),
		})
	}
	for _, b := range g.Buttons() {
		bs := ButtonState{Kind: b.Kind.String(), Label: g.Label()}
		if b.Kind == WindowButton {
			bs.Label = b.Window.Title()
		}
		if t := b.Target(g); t != nil {
			bs.Target = t.ID()
		}
		gs.Buttons = append(gs.Buttons, bs)
	}
	return gs
}
