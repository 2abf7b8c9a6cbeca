package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plaroapp/plaro/app"
	"github.com/plaroapp/plaro/domain"
	"github.com/plaroapp/plaro/infra/config"
	"github.com/plaroapp/plaro/infra/editor"
	"github.com/plaroapp/plaro/tui/common"
	"github.com/plaroapp/plaro/tui/compose"
	"github.com/plaroapp/plaro/tui/feed"
	"github.com/plaroapp/plaro/tui/login"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Feed      app.Feed
	Identity  app.Identity
	Editor    *editor.EnvEditor
	Prefs     config.UIState
	PrefsPath string
}

type activeView int

const (
	loginView activeView = iota
	feedView
	composeView
)

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps    Deps
	active  activeView
	login   login.Model
	feed    feed.Model
	compose compose.Model
	keys    common.KeyMap
	prefs   config.UIState
	status  string // Transient status message (e.g. "Posted!")
}

// NewApp creates the root model with all dependencies wired. It opens
// on the feed when a session already exists, otherwise on the login form.
func NewApp(deps Deps) App {
	theme := common.ThemeFor(deps.Prefs.DarkMode)
	a := App{
		deps:  deps,
		keys:  common.DefaultKeyMap(),
		prefs: deps.Prefs,
	}
	if viewer, ok := deps.Identity.CurrentUser(); ok {
		a.active = feedView
		a.feed = feed.New(deps.Feed, viewer, theme, deps.Prefs.Search)
	} else {
		a.active = loginView
		a.login = login.New(deps.Identity, theme)
	}
	return a
}

// Init delegates to the starting sub-model.
func (a App) Init() tea.Cmd {
	if a.active == loginView {
		return a.login.Init()
	}
	return a.feed.Init()
}

// attachmentLoadedMsg carries a processed attachment for a new post.
type attachmentLoadedMsg struct {
	content string
	media   *domain.Media
	err     error
}

// prefsSavedMsg is sent after the UI preferences are written to disk.
type prefsSavedMsg struct {
	err error
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.active == feedView && !a.feed.Typing() && key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}

	case login.DoneMsg:
		theme := common.ThemeFor(a.prefs.DarkMode)
		a.active = feedView
		a.status = ""
		a.feed = feed.New(a.deps.Feed, msg.User, theme, a.prefs.Search)
		return a, a.feed.Init()

	case feed.SignOutMsg:
		a.deps.Identity.SignOut()
		a.active = loginView
		a.status = ""
		a.login = login.New(a.deps.Identity, common.ThemeFor(a.prefs.DarkMode))
		return a, a.login.Init()

	case feed.RequestComposeMsg:
		a.active = composeView
		a.status = ""
		if msg.UseInline {
			a.compose = compose.NewInline(a.feed.Theme())
		} else {
			a.compose = compose.NewEditor(a.deps.Editor, a.feed.Theme())
		}
		return a, a.compose.Init()

	case feed.RequestEditMsg:
		a.active = composeView
		a.status = ""
		a.compose = compose.NewEditorEdit(a.deps.Editor, a.feed.Theme(), msg.ID, msg.Content)
		return a, a.compose.Init()

	case feed.PrefsChangedMsg:
		a.prefs.DarkMode = msg.DarkMode
		a.prefs.Search = msg.Search
		return a, a.savePrefs()

	case prefsSavedMsg:
		if msg.err != nil {
			a.status = "Error saving preferences: " + msg.err.Error()
		}
		return a, nil

	case compose.DoneMsg:
		a.active = feedView
		if msg.Err != nil {
			a.status = "Error: " + msg.Err.Error()
			return a, nil
		}
		if msg.Content == "" && msg.MediaPath == "" {
			a.status = "Cancelled."
			return a, nil
		}
		a.status = ""
		if msg.PostID != "" {
			return a.toFeed(feed.UpdatePostMsg{ID: msg.PostID, Content: msg.Content})
		}
		return a, loadAttachment(msg.Content, msg.MediaPath)

	case attachmentLoadedMsg:
		if msg.err != nil {
			a.status = "Error: " + msg.err.Error()
			return a, nil
		}
		return a.toFeed(feed.CreatePostMsg{Content: msg.content, Media: msg.media})
	}

	// Delegate to the active sub-model.
	switch a.active {
	case loginView:
		updated, cmd := a.login.Update(msg)
		a.login = updated
		return a, cmd
	case feedView:
		updated, cmd := a.feed.Update(msg)
		a.feed = updated
		return a, cmd
	case composeView:
		updated, cmd := a.compose.Update(msg)
		a.compose = updated
		return a, cmd
	}

	return a, nil
}

// toFeed delivers a message straight to the feed model so its busy
// gate engages before the mutation command runs.
func (a App) toFeed(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := a.feed.Update(msg)
	a.feed = updated
	return a, cmd
}

func loadAttachment(content, path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return attachmentLoadedMsg{content: content}
		}
		media, err := feed.LoadAttachment(path)
		return attachmentLoadedMsg{content: content, media: media, err: err}
	}
}

func (a App) savePrefs() tea.Cmd {
	prefs := a.prefs
	path := a.deps.PrefsPath
	return func() tea.Msg {
		return prefsSavedMsg{err: config.SaveUIState(path, prefs)}
	}
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case loginView:
		s = a.login.View()
	case feedView:
		s = a.feed.View()
	case composeView:
		s = a.compose.View()
	}

	// Append transient status if present.
	if a.status != "" {
		theme := common.ThemeFor(a.prefs.DarkMode)
		s += "\n" + theme.StatusBar.Render("  "+a.status)
	}

	return s
}
