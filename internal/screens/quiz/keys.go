package quiz

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Digit     key.Binding
	Decimal   key.Binding
	Sign      key.Binding
	Backspace key.Binding
	Submit    key.Binding
	Skip      key.Binding
	Harder    key.Binding
	Mode      key.Binding
	Home      key.Binding
}

var keys = keyMap{
	Digit: key.NewBinding(
		key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("0-9", "type"),
	),
	Decimal:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "decimal")),
	Sign:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "sign")),
	Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "fix")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "submit")),
	Skip:      key.NewBinding(key.WithKeys("s"), key.WithHelp("S", "skip")),
	Harder:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "harder")),
	Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("M", "mode")),
	Home:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "home")),
}
