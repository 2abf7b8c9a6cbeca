package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit         key.Binding
	Refresh      key.Binding
	NewEditor    key.Binding // p — compose via $EDITOR
	NewInline    key.Binding // P — compose via inline textarea
	Edit         key.Binding // e — edit own post inline
	EditExternal key.Binding // E — edit own post via $EDITOR
	Delete       key.Binding // d — delete own post
	Like         key.Binding // l — like/unlike
	Comment      key.Binding // c — comment inline
	Share        key.Binding // s — copy share link
	Search       key.Binding // / — filter the feed
	Theme        key.Binding // t — toggle dark/light
	Up           key.Binding
	Down         key.Binding
	Expand       key.Binding // enter — show/hide comments
	SignOut      key.Binding // Q — sign out
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		NewEditor: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "post ($EDITOR)"),
		),
		NewInline: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "post (inline)"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		EditExternal: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "edit ($EDITOR)"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "share"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "comments"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("Q"),
			key.WithHelp("Q", "sign out"),
		),
	}
}
