package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Pause     key.Binding
	Mode      key.Binding
	Autopilot key.Binding
	Reset     key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	HUD       key.Binding
	Help      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "render mode"),
		),
		Autopilot: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "autopilot"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "steer up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "steer down")),
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "steer left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "steer right")),
		HUD: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle status"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Mode, k.Autopilot, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Pause, k.Mode, k.Autopilot, k.Reset},
		{k.HUD, k.Help, k.Quit},
	}
}
