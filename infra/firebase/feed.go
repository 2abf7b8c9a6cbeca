package firebase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/plaroapp/plaro/domain"
)

// FeedService implements app.Feed against the hosted database. Post
// records live under "posts/<key>", per-user like markers under
// "postLikes/<post>/<uid>". The like counter and the marker are
// written together but not transactionally, so concurrent likes from
// two users can race; last write wins throughout.
type FeedService struct {
	client   *Client
	identity *Identity
	posts    []domain.Post
	now      func() time.Time
	lastID   int64
}

// NewFeedService creates a hosted feed for the given session.
func NewFeedService(client *Client, identity *Identity) *FeedService {
	return &FeedService{
		client:   client,
		identity: identity,
		now:      time.Now,
	}
}

// postRecord is the stored shape of a post, matching the database
// schema: flat author fields and an ISO-8601 timestamp string.
type postRecord struct {
	ID         string          `json:"id"`
	Content    string          `json:"content"`
	Media      *domain.Media   `json:"media,omitempty"`
	AuthorID   string          `json:"authorId"`
	AuthorName string          `json:"authorName"`
	Timestamp  string          `json:"timestamp"`
	Likes      int             `json:"likes"`
	Comments   []commentRecord `json:"comments,omitempty"`
}

type commentRecord struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Timestamp  string `json:"timestamp"`
}

// Load fetches all posts and the viewer's like markers, newest first.
func (s *FeedService) Load(_ context.Context) ([]domain.Post, error) {
	var records map[string]postRecord
	if _, err := s.client.GetRecord("posts", &records); err != nil {
		s.posts = nil
		return nil, fmt.Errorf("loading feed: %w", err)
	}

	likedByViewer := map[string]bool{}
	if user, ok := s.identity.CurrentUser(); ok {
		var markers map[string]map[string]bool
		if _, err := s.client.GetRecord("postLikes", &markers); err == nil {
			for postID, users := range markers {
				likedByViewer[postID] = users[user.ID]
			}
		}
	}

	posts := make([]domain.Post, 0, len(records))
	for key, rec := range records {
		if rec.ID == "" {
			rec.ID = key
		}
		post := rec.toDomain()
		post.LikedBySelf = likedByViewer[post.ID]
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})
	s.posts = posts
	return s.Posts(), nil
}

// Create pushes a new post record; the database issues the key.
func (s *FeedService) Create(_ context.Context, content string, media *domain.Media) (domain.Post, error) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return domain.Post{}, domain.ErrSignedOut
	}
	content = strings.TrimSpace(content)
	if content == "" && media == nil {
		return domain.Post{}, domain.ErrEmptyPost
	}

	createdAt := s.now()
	rec := postRecord{
		Content:    domain.SanitizeContent(content),
		Media:      media,
		AuthorID:   user.ID,
		AuthorName: user.DisplayName,
		Timestamp:  createdAt.UTC().Format(time.RFC3339Nano),
		Likes:      0,
	}
	key, err := s.client.CreateRecord("posts", rec)
	if err != nil {
		return domain.Post{}, fmt.Errorf("creating post: %w", err)
	}
	// The record stores its own key; a second write, not a transaction.
	if err := s.client.UpdateFields(map[string]any{"posts/" + key + "/id": key}); err != nil {
		return domain.Post{}, fmt.Errorf("stamping post id: %w", err)
	}

	rec.ID = key
	post := rec.toDomain()
	s.posts = append([]domain.Post{post}, s.posts...)
	return post, nil
}

// Update replaces content in place and clears the edit flag.
func (s *FeedService) Update(_ context.Context, id, content string) (domain.Post, error) {
	if _, ok := s.identity.CurrentUser(); !ok {
		return domain.Post{}, domain.ErrSignedOut
	}
	i := s.index(id)
	if i < 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	escaped := domain.SanitizeContent(strings.TrimSpace(content))
	if err := s.client.UpdateFields(map[string]any{"posts/" + id + "/content": escaped}); err != nil {
		return domain.Post{}, fmt.Errorf("updating post: %w", err)
	}
	s.posts[i].Content = escaped
	s.posts[i].Editing = false
	return s.posts[i], nil
}

// Delete removes an own post. A post that already left the feed is a
// no-op; deleting someone else's post is refused.
func (s *FeedService) Delete(_ context.Context, id string) error {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return domain.ErrSignedOut
	}

	var rec postRecord
	found, err := s.client.GetRecord("posts/"+id, &rec)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if !found {
		s.drop(id)
		return nil
	}
	if rec.AuthorID != user.ID {
		return fmt.Errorf("cannot delete another user's post")
	}

	if err := s.client.DeleteRecord("posts/" + id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	// Like markers are garbage once the post is gone.
	_ = s.client.DeleteRecord("postLikes/" + id)
	s.drop(id)
	return nil
}

// ToggleLike reads the counter and the viewer's marker, then writes
// both in one multi-path update. The read and the write are not
// coupled transactionally; two concurrent togglers can under- or
// over-count.
func (s *FeedService) ToggleLike(_ context.Context, id string) (domain.Post, error) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return domain.Post{}, domain.ErrSignedOut
	}

	var rec postRecord
	found, err := s.client.GetRecord("posts/"+id, &rec)
	if err != nil {
		return domain.Post{}, fmt.Errorf("toggling like: %w", err)
	}
	if !found {
		return domain.Post{}, domain.ErrNotFound
	}

	var marker bool
	hasLiked, err := s.client.GetRecord("postLikes/"+id+"/"+user.ID, &marker)
	if err != nil {
		return domain.Post{}, fmt.Errorf("toggling like: %w", err)
	}

	fields := map[string]any{}
	if hasLiked {
		fields["posts/"+id+"/likes"] = rec.Likes - 1
		fields["postLikes/"+id+"/"+user.ID] = nil
	} else {
		fields["posts/"+id+"/likes"] = rec.Likes + 1
		fields["postLikes/"+id+"/"+user.ID] = true
	}
	if err := s.client.UpdateFields(fields); err != nil {
		return domain.Post{}, fmt.Errorf("toggling like: %w", err)
	}

	i := s.index(id)
	if i < 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	s.posts[i].LikedBySelf = !hasLiked
	if hasLiked {
		s.posts[i].LikeCount = rec.Likes - 1
	} else {
		s.posts[i].LikeCount = rec.Likes + 1
	}
	return s.posts[i], nil
}

// AddComment appends to the post's comment list and rewrites it.
func (s *FeedService) AddComment(_ context.Context, id, text string) (domain.Post, error) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return domain.Post{}, domain.ErrSignedOut
	}
	i := s.index(id)
	if i < 0 {
		return domain.Post{}, domain.ErrNotFound
	}

	createdAt := s.now()
	comment := domain.Comment{
		ID:        s.nextCommentID(createdAt),
		Content:   domain.SanitizeContent(strings.TrimSpace(text)),
		Author:    user,
		Timestamp: createdAt,
	}
	updated := append(append([]domain.Comment{}, s.posts[i].Comments...), comment)

	records := make([]commentRecord, len(updated))
	for j, c := range updated {
		records[j] = commentRecord{
			ID:         c.ID,
			Content:    c.Content,
			AuthorID:   c.Author.ID,
			AuthorName: c.Author.DisplayName,
			Timestamp:  c.Timestamp.UTC().Format(time.RFC3339Nano),
		}
	}
	if err := s.client.UpdateFields(map[string]any{"posts/" + id + "/comments": records}); err != nil {
		return domain.Post{}, fmt.Errorf("adding comment: %w", err)
	}
	s.posts[i].Comments = updated
	return s.posts[i], nil
}

// ToggleEditing flips the transient flag in the local snapshot only.
func (s *FeedService) ToggleEditing(id string) (domain.Post, error) {
	i := s.index(id)
	if i < 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	s.posts[i].Editing = !s.posts[i].Editing
	return s.posts[i], nil
}

// Posts returns a snapshot of the sequence, newest first.
func (s *FeedService) Posts() []domain.Post {
	out := make([]domain.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *FeedService) index(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *FeedService) drop(id string) {
	if i := s.index(id); i >= 0 {
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
	}
}

func (s *FeedService) nextCommentID(at time.Time) string {
	ms := at.UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return strconv.FormatInt(ms, 10)
}

func (r postRecord) toDomain() domain.Post {
	ts, _ := time.Parse(time.RFC3339Nano, r.Timestamp)
	comments := make([]domain.Comment, 0, len(r.Comments))
	for _, c := range r.Comments {
		cts, _ := time.Parse(time.RFC3339Nano, c.Timestamp)
		comments = append(comments, domain.Comment{
			ID:        c.ID,
			Content:   c.Content,
			Author:    domain.Author{ID: c.AuthorID, DisplayName: c.AuthorName},
			Timestamp: cts,
		})
	}
	return domain.Post{
		ID:        r.ID,
		Content:   r.Content,
		Media:     r.Media,
		Timestamp: ts,
		Author:    domain.Author{ID: r.AuthorID, DisplayName: r.AuthorName},
		LikeCount: r.Likes,
		Comments:  comments,
	}
}
