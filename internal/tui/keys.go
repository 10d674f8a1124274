package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start  key.Binding
	Menu   key.Binding
	Search key.Binding
	Clear  key.Binding
	Close  key.Binding
	Copy   key.Binding
	Reload key.Binding
	Retry  key.Binding
	Quit   key.Binding

	Up   key.Binding
	Down key.Binding

	Forward  key.Binding
	Backward key.Binding
	Left     key.Binding
	Right    key.Binding
	TurnL    key.Binding
	TurnR    key.Binding
	Faster   key.Binding
	Slower   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start/select")),
		Menu:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Clear:  key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear filter")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload catalog")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Up:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),

		Forward:  key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "step forward")),
		Backward: key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "step back")),
		Left:     key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "step left")),
		Right:    key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "step right")),
		TurnL:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "turn left")),
		TurnR:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "turn right")),
		Faster:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "fps up")),
		Slower:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fps down")),
	}
}

// help is the footer for the given overlay mode.
func (k keyMap) help(mode string) []key.Binding {
	switch mode {
	case "list":
		return []key.Binding{k.Up, k.Down, k.Start, k.Search, k.Clear, k.Close}
	case "detail":
		return []key.Binding{k.Copy, k.Close, k.Menu}
	case "fail":
		return []key.Binding{k.Retry, k.Reload, k.Quit}
	default:
		return []key.Binding{k.Start, k.Forward, k.Left, k.TurnL, k.Faster, k.Slower, k.Menu, k.Reload, k.Quit}
	}
}
