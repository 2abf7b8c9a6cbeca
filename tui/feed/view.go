package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plaroapp/plaro/domain"
	"github.com/plaroapp/plaro/tui/common"
)

// View renders the feed as a string. The whole screen is rebuilt from
// the snapshot on every call.
func (m Model) View() string {
	var b strings.Builder

	title := m.theme.AppTitle.Padding(1, 0, 0, 1).Render("⚡ Plaro")
	tagline := m.theme.Tagline.Render("<your feed, in the terminal>")
	b.WriteString(title + tagline + "\n")

	switch {
	case m.mode == modeSearch:
		b.WriteString("  🔍 " + m.searchInput.View() + "\n\n")
	case m.search != "":
		hint := fmt.Sprintf("  🔍 filtering: %q (press / to change)", m.search)
		b.WriteString(m.theme.Timestamp.Render(hint) + "\n\n")
	default:
		b.WriteString("\n")
	}

	visible := m.visiblePosts()

	switch {
	case m.loading && len(m.posts) == 0:
		b.WriteString(fmt.Sprintf("  %s Loading feed...\n", m.spinner.View()))

	case m.err != nil:
		b.WriteString(m.theme.Error.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n  Press r to retry.\n")

	case len(m.posts) == 0:
		b.WriteString("  No posts yet. Press P to write the first one!\n")

	case len(visible) == 0:
		b.WriteString("  No posts match your search.\n")

	default:
		b.WriteString(m.renderList(visible))
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(fmt.Sprintf("  %s Working...\n", m.spinner.View()))
	}
	if m.notice != "" {
		style := m.theme.Success
		if strings.HasPrefix(m.notice, "Error") {
			style = m.theme.Error
		}
		b.WriteString(style.Render("  "+m.notice) + "\n")
	}
	b.WriteString(m.helpView(visible))

	return b.String()
}

func (m Model) renderList(visible []domain.Post) string {
	views := buildPostViews(visible, m.viewer.ID, m.expanded, m.now())

	start := m.startIndex
	if start < 0 {
		start = 0
	}
	if start >= len(views) {
		start = len(views) - 1
	}
	end := start + m.visibleCount()
	if end > len(views) {
		end = len(views)
	}

	var list strings.Builder
	for i := start; i < end; i++ {
		item := m.renderPost(views[i], i == m.cursor)
		list.WriteString(item)
		list.WriteString("\n")
	}
	return strings.TrimSuffix(list.String(), "\n")
}

func (m Model) renderPost(v PostView, selected bool) string {
	author := m.theme.Author.Render(v.AuthorLine)
	if v.IsOwn {
		author += m.theme.OwnBadge.Render("(you)")
	}
	timestamp := m.theme.Timestamp.Render(v.TimeLabel)

	var body string
	if v.Editing && selected && m.mode == modeEdit {
		body = m.editArea.View() + "\n" +
			m.theme.Timestamp.Render("ctrl+s: save • esc: cancel")
	} else {
		indicator := m.theme.Timestamp.Render("┃ ")
		wrapped := lipgloss.NewStyle().Width(66).Render(v.Content)
		var lines strings.Builder
		for _, line := range strings.Split(wrapped, "\n") {
			lines.WriteString(indicator + m.theme.Content.Render(line) + "\n")
		}
		body = strings.TrimSuffix(lines.String(), "\n")
	}

	if v.MediaBadge != "" {
		body += "\n" + m.theme.Timestamp.Render(v.MediaBadge)
		if thumb, ok := m.thumbs[v.MediaURL]; ok && thumb != "" {
			body += "\n" + thumb
		}
	}

	likeIcon := "♡"
	likeStyle := m.theme.Timestamp
	if v.Liked {
		likeIcon = "♥"
		likeStyle = m.theme.LikedBadge
	}
	meta := fmt.Sprintf("%s  💬 %s",
		likeStyle.Render(likeIcon+" "+v.LikeLabel), v.CommentLabel)

	item := fmt.Sprintf("%s  %s\n%s\n%s",
		author, timestamp, body, m.theme.Timestamp.Render(meta))

	if v.Expanded {
		if len(v.Comments) == 0 {
			item += "\n" + m.theme.CommentText.Render("(no comments yet)")
		}
		for _, c := range v.Comments {
			line := fmt.Sprintf("%s: %s %s",
				m.theme.Author.Render(c.Author),
				m.theme.Content.Render(common.Truncate(c.Text, 60)),
				m.theme.Timestamp.Render(c.TimeLabel))
			item += "\n" + m.theme.CommentText.Render("↳ ") + line
		}
	}

	if selected {
		item = m.theme.Selected.Render(item)
		if m.confirmDelete {
			item += "\n" + m.theme.Confirm.Render("  Delete this post? (y/n)")
		}
		if m.mode == modeComment {
			item += "\n  💬 " + m.commentInput.View()
		}
	} else {
		item = m.theme.Unselected.Render(item)
	}

	return item
}

func (m Model) helpView(visible []domain.Post) string {
	var items []string

	switch m.mode {
	case modeSearch:
		items = []string{"type to filter", "enter/esc: done"}
	case modeComment:
		items = []string{"enter: send", "esc: cancel"}
	case modeEdit:
		items = []string{"ctrl+s: save", "esc: cancel"}
	default:
		if len(visible) > 0 {
			items = []string{
				"j/k: focus",
				"enter: comments",
				"p/P: post",
				"l: like",
				"c: comment",
				"s: share",
				"/: search",
			}
			if post, ok := m.SelectedPost(); ok && post.OwnedBy(m.viewer.ID) {
				items = append(items, "e: edit", "E: $EDITOR", "d: delete")
			}
			items = append(items, "t: theme", "r: refresh", "q: quit")
		} else {
			items = []string{"p/P: post", "/: search", "t: theme", "r: refresh", "q: quit"}
		}
	}

	return m.theme.StatusBar.Render("  " + strings.Join(items, " • "))
}
