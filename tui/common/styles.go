package common

import "github.com/charmbracelet/lipgloss"

// Theme carries every style the views need, so toggling dark/light
// swaps one value instead of touching scattered package globals.
type Theme struct {
	Dark bool

	// AppTitle styles the application title. Rendered at call site with content.
	AppTitle lipgloss.Style

	// Tagline styles the app's tagline next to the title.
	Tagline lipgloss.Style

	// Author styles the post author name.
	Author lipgloss.Style

	// Timestamp styles timestamps.
	Timestamp lipgloss.Style

	// Content styles post content text.
	Content lipgloss.Style

	// Selected highlights the currently selected post.
	Selected lipgloss.Style

	// Unselected gives unselected posts a subtle greyed-out border.
	Unselected lipgloss.Style

	// OwnBadge highlights posts that belong to the viewer.
	OwnBadge lipgloss.Style

	// LikedBadge highlights the like counter on posts the viewer liked.
	LikedBadge lipgloss.Style

	// CommentText styles comment bodies under an expanded post.
	CommentText lipgloss.Style

	// StatusBar styles the bottom status bar.
	StatusBar lipgloss.Style

	// Confirm styles the delete confirmation prompt.
	Confirm lipgloss.Style

	// Error styles error messages.
	Error lipgloss.Style

	// Success styles success messages.
	Success lipgloss.Style
}

// DarkTheme is the default palette.
func DarkTheme() Theme {
	return Theme{
		Dark: true,
		AppTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6600")).
			Padding(1, 2, 0, 1),
		Tagline: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true).
			MarginLeft(1),
		Author: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4")),
		Timestamp: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")),
		Content: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5")),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF6600")).
			Padding(0, 1),
		Unselected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
		OwnBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true).
			MarginLeft(1),
		LikedBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true),
		CommentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B8C0E0")).
			MarginLeft(2),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Padding(1, 0, 0, 0),
		Confirm: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true),
	}
}

// LightTheme is the alternate palette for bright terminals.
func LightTheme() Theme {
	return Theme{
		Dark: false,
		AppTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D14D00")).
			Padding(1, 2, 0, 1),
		Tagline: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8A8A8A")).
			Italic(true).
			MarginLeft(1),
		Author: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E66F5")),
		Timestamp: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C7F93")),
		Content: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C4F69")),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#D14D00")).
			Padding(0, 1),
		Unselected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BCC0CC")).
			Padding(0, 1),
		OwnBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#40A02B")).
			Bold(true).
			MarginLeft(1),
		LikedBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D20F39")).
			Bold(true),
		CommentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5C5F77")).
			MarginLeft(2),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C7F93")).
			Padding(1, 0, 0, 0),
		Confirm: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D20F39")).
			Bold(true).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D20F39")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#40A02B")).
			Bold(true),
	}
}

// ThemeFor maps the persisted dark-mode flag to a palette.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}
