package feed

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plaroapp/plaro/app"
	"github.com/plaroapp/plaro/domain"
	"github.com/plaroapp/plaro/tui/common"
)

// searchDebounce is how long typing in the search bar must pause before
// the filter is applied.
const searchDebounce = 300 * time.Millisecond

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeComment
	modeEdit
)

// --- Messages ---

// PostsLoadedMsg is sent when the initial feed load completes.
type PostsLoadedMsg struct {
	Posts []domain.Post
}

// FeedErrorMsg is sent when the feed load fails outright.
type FeedErrorMsg struct {
	Err error
}

// MutationDoneMsg is sent after any feed mutation with the fresh
// snapshot. Err is set when persisting failed; the snapshot still
// reflects the in-memory state and must be rendered.
type MutationDoneMsg struct {
	Posts  []domain.Post
	Notice string
	Err    error
}

// ShareResultMsg is sent after copying a post link to the clipboard.
type ShareResultMsg struct {
	Err error
}

// ThumbLoadedMsg carries a rendered ANSI thumbnail for an image attachment.
type ThumbLoadedMsg struct {
	URL     string
	Preview string
	Err     error
}

// RequestComposeMsg asks the root model to open the compose view.
type RequestComposeMsg struct {
	UseInline bool
}

// RequestEditMsg asks the root model to open the external editor with
// the post's current content.
type RequestEditMsg struct {
	ID      string
	Content string
}

// CreatePostMsg asks the feed to publish a new post. The root model
// sends it once compose output and any attachment are ready, so the
// busy gate engages before the mutation command runs.
type CreatePostMsg struct {
	Content string
	Media   *domain.Media
}

// UpdatePostMsg asks the feed to save new content for an existing
// post. Sent by the root model when an external-editor edit finishes.
type UpdatePostMsg struct {
	ID      string
	Content string
}

// PrefsChangedMsg asks the root model to persist UI preferences.
type PrefsChangedMsg struct {
	DarkMode bool
	Search   string
}

// SignOutMsg asks the root model to drop the session.
type SignOutMsg struct{}

// searchTickMsg fires when the search debounce window elapses.
type searchTickMsg struct {
	seq int
}

// --- Model ---

// Model holds the state for the feed view.
type Model struct {
	feed   app.Feed
	viewer domain.Author

	posts      []domain.Post
	cursor     int
	startIndex int
	loading    bool
	busy       bool
	err        error
	notice     string

	keys    common.KeyMap
	theme   common.Theme
	spinner spinner.Model

	width  int
	height int

	mode          mode
	searchInput   textinput.Model
	commentInput  textinput.Model
	editArea      textarea.Model
	editingID     string
	confirmDelete bool
	expanded      map[string]bool

	search    string
	searchSeq int

	thumbs map[string]string

	now func() time.Time
}

// New creates a feed model with injected dependencies.
func New(feed app.Feed, viewer domain.Author, theme common.Theme, search string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Success

	si := textinput.New()
	si.Placeholder = "search posts..."
	si.CharLimit = 120
	si.SetValue(search)

	ci := textinput.New()
	ci.Placeholder = "write a comment..."
	ci.CharLimit = 500

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000

	return Model{
		feed:         feed,
		viewer:       viewer,
		keys:         common.DefaultKeyMap(),
		theme:        theme,
		spinner:      s,
		searchInput:  si,
		commentInput: ci,
		editArea:     ta,
		expanded:     make(map[string]bool),
		search:       search,
		thumbs:       make(map[string]string),
		loading:      true,
		now:          time.Now,
	}
}

// Init starts the initial feed load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadPosts(),
		m.spinner.Tick,
	)
}

// Theme returns the active palette so the root can style shared chrome.
func (m Model) Theme() common.Theme {
	return m.theme
}

// Posts returns the current snapshot for external access.
func (m Model) Posts() []domain.Post {
	return m.posts
}

// Loading reports whether the initial load is still running.
func (m Model) Loading() bool {
	return m.loading
}

// Busy reports whether a mutation is currently in flight.
func (m Model) Busy() bool {
	return m.busy
}

// Err returns the current error, if any.
func (m Model) Err() error {
	return m.err
}

// Cursor returns the current cursor position within the visible list.
func (m Model) Cursor() int {
	return m.cursor
}

// SelectedPost returns the currently highlighted post, if any.
func (m Model) SelectedPost() (domain.Post, bool) {
	visible := m.visiblePosts()
	if len(visible) == 0 || m.cursor < 0 || m.cursor >= len(visible) {
		return domain.Post{}, false
	}
	return visible[m.cursor], true
}

// visiblePosts applies the committed search filter to the snapshot.
func (m Model) visiblePosts() []domain.Post {
	return filterPosts(m.posts, m.search)
}

func (m *Model) setPosts(posts []domain.Post) {
	m.posts = posts
	visible := m.visiblePosts()
	if m.cursor >= len(visible) {
		m.cursor = len(visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	visibleCount := m.visibleCount()
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
	}
	if m.cursor >= m.startIndex+visibleCount {
		m.startIndex = m.cursor - visibleCount + 1
	}
	if m.startIndex < 0 {
		m.startIndex = 0
	}
}

// visibleCount derives how many post cards fit in the current height.
func (m Model) visibleCount() int {
	reserved := 9
	available := m.height - reserved
	if available < 0 {
		available = 0
	}
	count := available / 6
	if count < 1 {
		count = 1
	}
	return count
}
