package domain

import "html"

// SanitizeContent escapes post and comment text so it is stored and
// displayed as plain text, never interpreted as markup. Escaping
// happens once, before storage; the renderer trusts stored content.
func SanitizeContent(s string) string {
	return html.EscapeString(s)
}
