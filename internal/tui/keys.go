package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Back        key.Binding
	Summary     key.Binding
	Deductions  key.Binding
	Suggestions key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Up          key.Binding
	Down        key.Binding
	Reload      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Summary:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "summary")),
		Deductions:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "deductions")),
		Suggestions: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "suggestions")),
		NextTab:     key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next")),
		PrevTab:     key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev")),
		Up:          key.NewBinding(key.WithKeys("up", "k")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

// shortHelp lists the bindings shown in the status bar
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Summary, k.Deductions, k.Suggestions, k.Reload, k.Help, k.Quit}
}
