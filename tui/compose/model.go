package compose

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plaroapp/plaro/infra/editor"
	"github.com/plaroapp/plaro/tui/common"
)

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

// --- Messages ---

// DoneMsg is sent when composing is complete. PostID is set when the
// session edits an existing post rather than drafting a new one. An
// empty Content with no MediaPath means the session was cancelled.
type DoneMsg struct {
	Content   string
	MediaPath string
	PostID    string
	Err       error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Model holds the state for the compose view.
type Model struct {
	mode      mode
	editor    *editor.EnvEditor
	theme     common.Theme
	status    string
	textarea  textarea.Model  // inline mode only
	mediaPath textinput.Model // inline mode only
	onMedia   bool            // attachment field has focus
	tmpPath   string
	postID    string // editor mode: set when editing an existing post
	initial   string // editor mode: content the temp file starts with
}

// NewEditor creates a compose model that opens $EDITOR via tea.Exec.
func NewEditor(ed *editor.EnvEditor, theme common.Theme) Model {
	return Model{
		mode:   editorMode,
		editor: ed,
		theme:  theme,
		status: "Opening editor...",
	}
}

// NewEditorEdit creates a compose model that opens $EDITOR pre-filled
// with an existing post's content. Saving the file unchanged cancels.
func NewEditorEdit(ed *editor.EnvEditor, theme common.Theme, postID, content string) Model {
	return Model{
		mode:    editorMode,
		editor:  ed,
		theme:   theme,
		status:  "Opening editor...",
		postID:  postID,
		initial: content,
	}
}

// NewInline creates a compose model with an inline Bubble Tea textarea.
func NewInline(theme common.Theme) Model {
	ta := textarea.New()
	ta.Placeholder = "What's on your mind?"
	ta.CharLimit = 2000
	ta.SetWidth(72)
	ta.SetHeight(6)
	ta.Focus()

	mp := textinput.New()
	mp.Placeholder = "attachment path (optional)"
	mp.CharLimit = 300

	return Model{
		mode:      inlineMode,
		theme:     theme,
		textarea:  ta,
		mediaPath: mp,
	}
}

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor prepares the editor command and uses tea.Exec to properly
// suspend Bubble Tea's raw terminal mode while the editor runs.
func (m *Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd(m.initial)
	if err != nil {
		return func() tea.Msg {
			return DoneMsg{Err: fmt.Errorf("preparing editor: %w", err)}
		}
	}
	m.tmpPath = tmpPath

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(DoneMsg{Err: fmt.Errorf("editor: %w", msg.err)})
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, done(DoneMsg{Err: err})
		}
		if m.postID != "" && content == strings.TrimSpace(m.initial) {
			return m, done(DoneMsg{PostID: m.postID})
		}
		return m, done(DoneMsg{Content: content, PostID: m.postID})

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}

		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{})

		case "tab":
			m.onMedia = !m.onMedia
			if m.onMedia {
				m.textarea.Blur()
				return m, m.mediaPath.Focus()
			}
			m.mediaPath.Blur()
			return m, m.textarea.Focus()

		case "ctrl+d":
			content := strings.TrimSpace(m.textarea.Value())
			path := strings.TrimSpace(m.mediaPath.Value())
			if content == "" && path == "" {
				return m, done(DoneMsg{})
			}
			return m, done(DoneMsg{Content: content, MediaPath: path})
		}

		var cmd tea.Cmd
		if m.onMedia {
			m.mediaPath, cmd = m.mediaPath.Update(msg)
		} else {
			m.textarea, cmd = m.textarea.Update(msg)
		}
		return m, cmd
	}

	if m.mode == inlineMode && !m.onMedia {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	return m, nil
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
