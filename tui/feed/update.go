package feed

import (
	"html"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plaroapp/plaro/tui/common"
)

// Typing reports whether an inline input currently owns the keyboard,
// so the root model knows not to treat letters as shortcuts.
func (m Model) Typing() bool {
	return m.mode != modeBrowse
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editArea.SetWidth(min(msg.Width-8, 72))
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.busy {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PostsLoadedMsg:
		m.loading = false
		m.err = nil
		m.cursor = 0
		m.startIndex = 0
		m.setPosts(msg.Posts)
		return m, m.thumbCmds()

	case FeedErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case MutationDoneMsg:
		m.busy = false
		m.setPosts(msg.Posts)
		if msg.Err != nil {
			m.notice = noticeFor(msg.Err)
		} else {
			m.notice = msg.Notice
		}
		return m, m.thumbCmds()

	case ShareResultMsg:
		if msg.Err != nil {
			m.notice = noticeFor(msg.Err)
		} else {
			m.notice = "Link copied to clipboard"
		}
		return m, nil

	case ThumbLoadedMsg:
		if msg.Err == nil && msg.Preview != "" {
			m.thumbs[msg.URL] = msg.Preview
		}
		return m, nil

	case CreatePostMsg:
		m.busy = true
		m.notice = ""
		return m, tea.Batch(m.createPost(msg.Content, msg.Media), m.spinner.Tick)

	case UpdatePostMsg:
		m.busy = true
		m.notice = ""
		return m, tea.Batch(m.updatePost(msg.ID, msg.Content), m.spinner.Tick)

	case searchTickMsg:
		// A newer keystroke supersedes this tick.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		return m.commitSearch()

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeComment:
			return m.updateComment(msg)
		case modeEdit:
			return m.updateEdit(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.mode = modeBrowse
		m.searchInput.Blur()
		return m.commitSearch()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchSeq++
	return m, tea.Batch(cmd, debounceSearch(m.searchSeq))
}

func (m Model) commitSearch() (Model, tea.Cmd) {
	m.search = m.searchInput.Value()
	visible := m.visiblePosts()
	if m.cursor >= len(visible) {
		m.cursor = max(len(visible)-1, 0)
	}
	m.startIndex = 0
	m.ensureCursorVisible()
	return m, m.emitPrefsChanged()
}

func (m Model) updateComment(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.commentInput.Reset()
		m.commentInput.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.commentInput.Value())
		post, ok := m.SelectedPost()
		m.mode = modeBrowse
		m.commentInput.Reset()
		m.commentInput.Blur()
		if !ok || text == "" {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.addComment(post.ID, text), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.cancelEdit()
	case "ctrl+s":
		content := strings.TrimSpace(m.editArea.Value())
		if content == "" {
			return m.cancelEdit()
		}
		id := m.editingID
		m.mode = modeBrowse
		m.editingID = ""
		m.editArea.Blur()
		m.busy = true
		return m, tea.Batch(m.updatePost(id, content), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.editArea, cmd = m.editArea.Update(msg)
	return m, cmd
}

func (m Model) cancelEdit() (Model, tea.Cmd) {
	if m.editingID != "" {
		_, _ = m.feed.ToggleEditing(m.editingID)
		m.setPosts(m.feed.Posts())
	}
	m.mode = modeBrowse
	m.editingID = ""
	m.editArea.Blur()
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmDelete {
		switch msg.String() {
		case "y":
			m.confirmDelete = false
			if post, ok := m.SelectedPost(); ok {
				m.busy = true
				return m, tea.Batch(m.deletePost(post.ID), m.spinner.Tick)
			}
		case "n", "esc":
			m.confirmDelete = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.notice = ""
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Down):
		m.notice = ""
		if m.cursor < len(m.visiblePosts())-1 {
			m.cursor++
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Refresh):
		if m.busy {
			break
		}
		m.loading = true
		return m, tea.Batch(m.loadPosts(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Like):
		post, ok := m.SelectedPost()
		if !ok || m.busy {
			break
		}
		m.busy = true
		return m, tea.Batch(m.toggleLike(post.ID), m.spinner.Tick)

	case key.Matches(msg, m.keys.Comment):
		if _, ok := m.SelectedPost(); !ok || m.busy {
			break
		}
		m.mode = modeComment
		m.notice = ""
		return m, m.commentInput.Focus()

	case key.Matches(msg, m.keys.Edit):
		post, ok := m.SelectedPost()
		if !ok || m.busy || !post.OwnedBy(m.viewer.ID) {
			break
		}
		if _, err := m.feed.ToggleEditing(post.ID); err != nil {
			m.notice = noticeFor(err)
			break
		}
		m.setPosts(m.feed.Posts())
		m.mode = modeEdit
		m.editingID = post.ID
		m.editArea.SetValue(html.UnescapeString(post.Content))
		m.notice = ""
		return m, m.editArea.Focus()

	case key.Matches(msg, m.keys.EditExternal):
		post, ok := m.SelectedPost()
		if !ok || m.busy || !post.OwnedBy(m.viewer.ID) {
			break
		}
		id := post.ID
		content := html.UnescapeString(post.Content)
		return m, func() tea.Msg { return RequestEditMsg{ID: id, Content: content} }

	case key.Matches(msg, m.keys.Delete):
		post, ok := m.SelectedPost()
		if !ok || m.busy || !post.OwnedBy(m.viewer.ID) {
			break
		}
		m.confirmDelete = true

	case key.Matches(msg, m.keys.Share):
		post, ok := m.SelectedPost()
		if !ok {
			break
		}
		return m, sharePost(post.ID)

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.notice = ""
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Theme):
		m.theme = common.ThemeFor(!m.theme.Dark)
		m.spinner.Style = m.theme.Success
		return m, m.emitPrefsChanged()

	case key.Matches(msg, m.keys.Expand):
		post, ok := m.SelectedPost()
		if !ok {
			break
		}
		m.expanded[post.ID] = !m.expanded[post.ID]

	case key.Matches(msg, m.keys.NewEditor):
		if m.busy {
			break
		}
		return m, func() tea.Msg { return RequestComposeMsg{UseInline: false} }

	case key.Matches(msg, m.keys.NewInline):
		if m.busy {
			break
		}
		return m, func() tea.Msg { return RequestComposeMsg{UseInline: true} }

	case key.Matches(msg, m.keys.SignOut):
		return m, func() tea.Msg { return SignOutMsg{} }
	}

	return m, nil
}

func (m Model) emitPrefsChanged() tea.Cmd {
	dark := m.theme.Dark
	search := m.search
	return func() tea.Msg {
		return PrefsChangedMsg{DarkMode: dark, Search: search}
	}
}
