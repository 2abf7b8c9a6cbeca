package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plaroapp/plaro/app"
	"github.com/plaroapp/plaro/domain"
)

// shareLinkBase is the public permalink prefix copied by the share action.
const shareLinkBase = "https://plaro.app/p/"

func (m Model) loadPosts() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		posts, err := feed.Load(context.Background())
		if err != nil {
			return FeedErrorMsg{Err: err}
		}
		return PostsLoadedMsg{Posts: posts}
	}
}

func (m Model) createPost(content string, media *domain.Media) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		_, err := feed.Create(context.Background(), content, media)
		return mutationResult(feed, "Posted!", err)
	}
}

func (m Model) updatePost(id, content string) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		_, err := feed.Update(context.Background(), id, content)
		return mutationResult(feed, "Updated", err)
	}
}

func (m Model) deletePost(id string) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		err := feed.Delete(context.Background(), id)
		return mutationResult(feed, "Deleted", err)
	}
}

func (m Model) toggleLike(id string) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		_, err := feed.ToggleLike(context.Background(), id)
		return mutationResult(feed, "", err)
	}
}

func (m Model) addComment(id, text string) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		_, err := feed.AddComment(context.Background(), id, text)
		return mutationResult(feed, "Comment added", err)
	}
}

// mutationResult always carries the fresh snapshot: on a persist
// failure the in-memory change is kept and must still be shown.
func mutationResult(feed app.Feed, notice string, err error) tea.Msg {
	if err != nil {
		return MutationDoneMsg{Posts: feed.Posts(), Err: err}
	}
	return MutationDoneMsg{Posts: feed.Posts(), Notice: notice}
}

func sharePost(id string) tea.Cmd {
	return func() tea.Msg {
		return ShareResultMsg{Err: clipboard.WriteAll(shareLinkBase + id)}
	}
}

func debounceSearch(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
}

func noticeFor(err error) string {
	return fmt.Sprintf("Error: %v", err)
}
