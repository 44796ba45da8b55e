package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Logs       key.Binding
	Escape     key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Gallery actions
	View       key.Binding
	Grab       key.Binding
	Drop       key.Binding
	MoveBack   key.Binding
	MoveAhead  key.Binding
	Upload     key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Reload     key.Binding
	Password   key.Binding
	SignOut    key.Binding
	ToggleAuth key.Binding

	// Forms
	NextField key.Binding
	PrevField key.Binding
	Confirm   key.Binding
	Yes       key.Binding
	No        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / cancel"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Move left / previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Move right / next"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First image"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last image"),
		),

		View: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Open full view"),
		),
		Grab: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space/m", "Grab image to move"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Drop grabbed image"),
		),
		MoveBack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Move image back one"),
		),
		MoveAhead: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Move image ahead one"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Upload images"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit image"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "Delete image"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload gallery"),
		),
		Password: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "Change password"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "Sign out"),
		),
		ToggleAuth: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Switch login/register"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "Yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "No"),
		),
	}
}

// FullHelp groups the gallery bindings for the help overlay, in the order
// of helpTitles.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.View, k.Grab, k.Drop, k.MoveBack, k.MoveAhead},
		{k.Upload, k.Edit, k.Delete, k.Reload},
		{k.Password, k.SignOut, k.Logs, k.CycleTheme, k.Help, k.Quit},
	}
}
