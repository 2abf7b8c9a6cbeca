package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plaroapp/plaro/domain"
	"github.com/plaroapp/plaro/infra/config"
	"github.com/plaroapp/plaro/infra/editor"
	"github.com/plaroapp/plaro/tui/compose"
	"github.com/plaroapp/plaro/tui/feed"
	"github.com/plaroapp/plaro/tui/login"
)

type stubFeed struct {
	posts []domain.Post
}

func (f *stubFeed) Load(context.Context) ([]domain.Post, error) { return f.posts, nil }

func (f *stubFeed) Create(_ context.Context, content string, media *domain.Media) (domain.Post, error) {
	p := domain.Post{ID: "new", Content: content, Media: media}
	f.posts = append([]domain.Post{p}, f.posts...)
	return p, nil
}

func (f *stubFeed) Update(_ context.Context, id, content string) (domain.Post, error) {
	return domain.Post{}, domain.ErrNotFound
}

func (f *stubFeed) Delete(context.Context, string) error { return nil }

func (f *stubFeed) ToggleLike(_ context.Context, id string) (domain.Post, error) {
	return domain.Post{}, domain.ErrNotFound
}

func (f *stubFeed) AddComment(_ context.Context, id, text string) (domain.Post, error) {
	return domain.Post{}, domain.ErrNotFound
}

func (f *stubFeed) ToggleEditing(id string) (domain.Post, error) {
	return domain.Post{}, domain.ErrNotFound
}

func (f *stubFeed) Posts() []domain.Post { return f.posts }

type stubIdentity struct {
	user     domain.Author
	signedIn bool
	signOuts int
}

func (s *stubIdentity) CurrentUser() (domain.Author, bool) { return s.user, s.signedIn }

func (s *stubIdentity) SignIn(context.Context, string, string) (domain.Author, error) {
	s.signedIn = true
	return s.user, nil
}

func (s *stubIdentity) SignUp(context.Context, string, string, string) (domain.Author, error) {
	s.signedIn = true
	return s.user, nil
}

func (s *stubIdentity) SignOut() {
	s.signedIn = false
	s.signOuts++
}

func newTestApp(t *testing.T, signedIn bool) (App, *stubFeed, *stubIdentity) {
	t.Helper()
	feedStub := &stubFeed{}
	identity := &stubIdentity{
		user:     domain.Author{ID: "user123", DisplayName: "Current User"},
		signedIn: signedIn,
	}
	a := NewApp(Deps{
		Feed:      feedStub,
		Identity:  identity,
		Editor:    editor.NewEnvEditor(),
		Prefs:     config.UIState{DarkMode: true},
		PrefsPath: filepath.Join(t.TempDir(), "ui_state.json"),
	})
	return a, feedStub, identity
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	model, cmd := a.Update(msg)
	app, ok := model.(App)
	if !ok {
		t.Fatalf("Update returned %T", model)
	}
	return app, cmd
}

// drainCmd runs a command tree and collects every produced message.
func drainCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drainCmd(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestNewApp_StartsOnFeedWhenSignedIn(t *testing.T) {
	a, _, _ := newTestApp(t, true)
	if a.active != feedView {
		t.Fatal("existing session must skip login")
	}
}

func TestNewApp_StartsOnLoginWhenSignedOut(t *testing.T) {
	a, _, _ := newTestApp(t, false)
	if a.active != loginView {
		t.Fatal("missing session must show the login form")
	}
	if !strings.Contains(a.View(), "Sign in") {
		t.Error("login view must render")
	}
}

func TestLoginDone_SwitchesToFeed(t *testing.T) {
	a, _, _ := newTestApp(t, false)

	a, cmd := update(t, a, login.DoneMsg{User: domain.Author{ID: "user123"}})
	if a.active != feedView {
		t.Fatal("login completion must open the feed")
	}
	if cmd == nil {
		t.Fatal("feed init must run")
	}
}

func TestSignOut_ReturnsToLogin(t *testing.T) {
	a, _, identity := newTestApp(t, true)

	a, _ = update(t, a, feed.SignOutMsg{})
	if identity.signOuts != 1 {
		t.Fatal("identity must be signed out")
	}
	if a.active != loginView {
		t.Fatal("sign-out must show the login form")
	}
}

func TestComposeRoundTrip(t *testing.T) {
	a, feedStub, _ := newTestApp(t, true)

	a, cmd := update(t, a, feed.RequestComposeMsg{UseInline: true})
	if a.active != composeView {
		t.Fatal("compose request must switch views")
	}
	_ = cmd

	a, cmd = update(t, a, compose.DoneMsg{Content: "fresh post"})
	if a.active != feedView {
		t.Fatal("compose completion must return to the feed")
	}

	// Attachment stage first, then the create command.
	msg := cmd()
	loaded, ok := msg.(attachmentLoadedMsg)
	if !ok {
		t.Fatalf("expected attachmentLoadedMsg, got %T", msg)
	}
	a, cmd = update(t, a, loaded)
	if cmd == nil {
		t.Fatal("expected create command")
	}
	if !a.feed.Busy() {
		t.Fatal("feed must be busy while the create runs")
	}

	var done *feed.MutationDoneMsg
	for _, msg := range drainCmd(t, cmd) {
		if d, ok := msg.(feed.MutationDoneMsg); ok {
			done = &d
		}
	}
	if done == nil {
		t.Fatal("expected MutationDoneMsg")
	}
	if len(feedStub.posts) != 1 || feedStub.posts[0].Content != "fresh post" {
		t.Fatalf("post not created: %+v", feedStub.posts)
	}

	a, _ = update(t, a, *done)
	if a.feed.Busy() {
		t.Fatal("busy must clear once the create lands")
	}
}

func TestExternalEditRoundTrip(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	a, _, _ := newTestApp(t, true)

	a, _ = update(t, a, feed.RequestEditMsg{ID: "7", Content: "old words"})
	if a.active != composeView {
		t.Fatal("edit request must open the compose view")
	}

	a, cmd := update(t, a, compose.DoneMsg{PostID: "7", Content: "new words"})
	if a.active != feedView {
		t.Fatal("editing completion must return to the feed")
	}
	if cmd == nil {
		t.Fatal("expected update command")
	}
	if !a.feed.Busy() {
		t.Fatal("feed must be busy while the update runs")
	}
}

func TestExternalEditUnchanged_Cancels(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	a, _, _ := newTestApp(t, true)

	a, _ = update(t, a, feed.RequestEditMsg{ID: "7", Content: "old words"})
	a, cmd := update(t, a, compose.DoneMsg{PostID: "7"})
	if a.active != feedView {
		t.Fatal("cancel must return to the feed")
	}
	if cmd != nil {
		t.Fatal("no update may run when nothing changed")
	}
	if !strings.Contains(a.View(), "Cancelled.") {
		t.Error("cancel status missing")
	}
}

func TestComposeCancel_SetsStatus(t *testing.T) {
	a, _, _ := newTestApp(t, true)

	a, _ = update(t, a, feed.RequestComposeMsg{UseInline: true})
	a, _ = update(t, a, compose.DoneMsg{})
	if a.active != feedView {
		t.Fatal("cancel must return to the feed")
	}
	if !strings.Contains(a.View(), "Cancelled.") {
		t.Error("cancel status missing")
	}
}

func TestPrefsChanged_PersistsToDisk(t *testing.T) {
	a, _, _ := newTestApp(t, true)

	a, cmd := update(t, a, feed.PrefsChangedMsg{DarkMode: false, Search: "cats"})
	if cmd == nil {
		t.Fatal("expected save command")
	}
	if msg := cmd(); msg.(prefsSavedMsg).err != nil {
		t.Fatalf("save failed: %v", msg.(prefsSavedMsg).err)
	}

	data, err := os.ReadFile(a.deps.PrefsPath)
	if err != nil {
		t.Fatalf("state file missing: %v", err)
	}
	if !strings.Contains(string(data), `"darkMode":false`) {
		t.Fatalf("dark mode not persisted: %s", data)
	}
	if !strings.Contains(string(data), `"search":"cats"`) {
		t.Fatalf("search not persisted: %s", data)
	}
}

func TestQuitKey(t *testing.T) {
	a, _, _ := newTestApp(t, true)

	_, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q must quit from the feed")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Fatalf("expected QuitMsg, got %T", msg)
	}
}
