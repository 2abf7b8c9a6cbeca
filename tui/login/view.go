package login

import (
	"fmt"
	"strings"
)

// View renders the login form.
func (m Model) View() string {
	var b strings.Builder

	heading := "Sign in"
	action := "ctrl+s: create an account"
	if m.signup {
		heading = "Create account"
		action = "ctrl+s: sign in instead"
	}

	b.WriteString(m.theme.AppTitle.Padding(1, 0, 0, 1).Render("⚡ Plaro") + "\n")
	b.WriteString(m.theme.Tagline.Render("  "+heading) + "\n\n")

	b.WriteString("  ✉  " + m.email.View() + "\n")
	b.WriteString("  🔑 " + m.password.View() + "\n")
	if m.signup {
		b.WriteString("  👤 " + m.name.View() + "\n")
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(fmt.Sprintf("  %s Signing in...\n", m.spinner.View()))
	}
	if m.err != nil {
		b.WriteString(m.theme.Error.Render(fmt.Sprintf("  %v", m.err)) + "\n")
	}

	b.WriteString(m.theme.StatusBar.Render("  enter: submit • tab: next field • " + action + " • ctrl+c: quit"))
	return b.String()
}
