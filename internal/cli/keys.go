package cli

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Focus    key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Define   key.Binding
	Copy     key.Binding
	Close    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Focus:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch pane")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Define:   key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "define")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Close:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
	}
}

// sidebarHelp, contentHelp, selectionHelp and modalHelp are the hints shown
// in the status bar for each interaction mode.
func (k keyMap) sidebarHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Focus, k.Quit}
}

func (k keyMap) contentHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageDown, k.Focus, k.Quit}
}

func (k keyMap) selectionHelp() []key.Binding {
	return []key.Binding{k.Define, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")), k.Quit}
}

func (k keyMap) modalHelp() []key.Binding {
	return []key.Binding{k.Close, k.Copy}
}
