package compose

import "strings"

// View renders the compose view. Editor mode shows only a status line
// since the terminal belongs to $EDITOR while it runs.
func (m Model) View() string {
	if m.mode == editorMode {
		return "\n  " + m.theme.Tagline.Render(m.status) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.theme.AppTitle.Padding(1, 0, 0, 1).Render("⚡ New Post") + "\n\n")
	b.WriteString("  " + m.textarea.View() + "\n\n")
	b.WriteString("  📎 " + m.mediaPath.View() + "\n")
	b.WriteString(m.theme.StatusBar.Render("  ctrl+d: publish • tab: attachment • esc: cancel"))
	return b.String()
}
