package feed

import (
	"html"
	"strings"
	"time"

	"github.com/plaroapp/plaro/domain"
	"github.com/plaroapp/plaro/tui/common"
)

// PostView is the fully resolved projection of a post for rendering.
// Building it is a pure function of the snapshot, the viewer and the
// clock, so the render path stays free of domain logic.
type PostView struct {
	ID           string
	AuthorLine   string
	TimeLabel    string
	Content      string
	MediaURL     string
	MediaBadge   string
	LikeLabel    string
	Liked        bool
	CommentLabel string
	Comments     []CommentView
	Expanded     bool
	IsOwn        bool
	Editing      bool
}

// CommentView is a single rendered comment line.
type CommentView struct {
	Author    string
	Text      string
	TimeLabel string
}

func buildPostViews(posts []domain.Post, viewerID string, expanded map[string]bool, now time.Time) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v := PostView{
			ID:           p.ID,
			AuthorLine:   p.Author.DisplayName,
			TimeLabel:    common.FormatRelativeTime(p.Timestamp, now),
			Content:      html.UnescapeString(p.Content),
			LikeLabel:    common.CountLabel(p.LikeCount, "Like"),
			Liked:        p.LikedBySelf,
			CommentLabel: common.CountLabel(len(p.Comments), "Comment"),
			Expanded:     expanded[p.ID],
			IsOwn:        p.OwnedBy(viewerID),
			Editing:      p.Editing,
		}
		if p.Media != nil {
			v.MediaURL = p.Media.URL
			switch p.Media.Kind {
			case domain.MediaVideo:
				v.MediaBadge = "▶ video"
			default:
				v.MediaBadge = "🖼 image"
			}
		}
		if v.Expanded {
			for _, c := range p.Comments {
				v.Comments = append(v.Comments, CommentView{
					Author:    c.Author.DisplayName,
					Text:      html.UnescapeString(c.Content),
					TimeLabel: common.FormatRelativeTime(c.Timestamp, now),
				})
			}
		}
		views = append(views, v)
	}
	return views
}

// filterPosts returns the posts matching the search term by content or
// author name, case-insensitive. An empty term matches everything.
func filterPosts(posts []domain.Post, term string) []domain.Post {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return posts
	}
	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		content := strings.ToLower(html.UnescapeString(p.Content))
		author := strings.ToLower(p.Author.DisplayName)
		if strings.Contains(content, term) || strings.Contains(author, term) {
			out = append(out, p)
		}
	}
	return out
}
