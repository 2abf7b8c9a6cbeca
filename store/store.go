package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/plaroapp/plaro/domain"
)

// Persistence reads and writes the feed as one serialized blob.
// A missing or corrupt blob loads as an empty feed.
type Persistence interface {
	LoadPosts() ([]domain.Post, error)
	SavePosts(posts []domain.Post) error
}

// Store is the single source of truth for the local feed. Mutations
// are synchronous: each durable change rewrites the whole sequence
// through Persistence before returning. When the write fails the
// in-memory change is kept and the error is surfaced once to the
// caller; nothing is retried.
type Store struct {
	persist Persistence
	viewer  domain.Author
	posts   []domain.Post

	now    func() time.Time
	lastID int64
}

// New creates a Store for the given viewer. The viewer authors every
// post and comment created through this store.
func New(persist Persistence, viewer domain.Author) *Store {
	return &Store{
		persist: persist,
		viewer:  viewer,
		now:     time.Now,
	}
}

// Load replaces the in-memory sequence with the persisted one.
// Unreadable storage degrades to an empty feed alongside the error.
func (s *Store) Load(_ context.Context) ([]domain.Post, error) {
	posts, err := s.persist.LoadPosts()
	if err != nil {
		s.posts = nil
		return nil, fmt.Errorf("loading feed: %w", err)
	}
	s.posts = posts
	for _, p := range posts {
		if id, perr := strconv.ParseInt(p.ID, 10, 64); perr == nil && id > s.lastID {
			s.lastID = id
		}
	}
	return s.Posts(), nil
}

// Create validates and prepends a new post, then persists.
func (s *Store) Create(_ context.Context, content string, media *domain.Media) (domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && media == nil {
		return domain.Post{}, domain.ErrEmptyPost
	}

	post := domain.Post{
		ID:        s.nextID(),
		Content:   domain.SanitizeContent(content),
		Media:     media,
		Timestamp: s.now(),
		Author:    s.viewer,
		Comments:  []domain.Comment{},
	}
	s.posts = append([]domain.Post{post}, s.posts...)
	return post, s.save()
}

// Update replaces a post's content and clears its editing flag.
func (s *Store) Update(_ context.Context, id, content string) (domain.Post, error) {
	i := s.index(id)
	if i < 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	s.posts[i].Content = domain.SanitizeContent(strings.TrimSpace(content))
	s.posts[i].Editing = false
	return s.posts[i], s.save()
}

// Delete removes a post. Deleting an id that already left the feed is
// a no-op so a second delete never surfaces an error.
func (s *Store) Delete(_ context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return s.save()
}

// ToggleLike flips the viewer's like and adjusts the count. Toggles
// are symmetric, so the count never drops below zero.
func (s *Store) ToggleLike(_ context.Context, id string) (domain.Post, error) {
	i := s.index(id)
	if i < 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	p := &s.posts[i]
	p.LikedBySelf = !p.LikedBySelf
	if p.LikedBySelf {
		p.LikeCount++
	} else {
		p.LikeCount--
	}
	return *p, s.save()
}

// AddComment appends a viewer-authored comment to a post.
func (s *Store) AddComment(_ context.Context, id, text string) (domain.Post, error) {
	i := s.index(id)
	if i < 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	s.posts[i].Comments = append(s.posts[i].Comments, domain.Comment{
		ID:        s.nextID(),
		Content:   domain.SanitizeContent(strings.TrimSpace(text)),
		Author:    s.viewer,
		Timestamp: s.now(),
	})
	return s.posts[i], s.save()
}

// ToggleEditing flips the transient edit flag. The flag is view state,
// not feed content, so this never touches persistence.
func (s *Store) ToggleEditing(id string) (domain.Post, error) {
	i := s.index(id)
	if i < 0 {
		return domain.Post{}, domain.ErrNotFound
	}
	s.posts[i].Editing = !s.posts[i].Editing
	return s.posts[i], nil
}

// Posts returns a snapshot of the sequence, newest first.
func (s *Store) Posts() []domain.Post {
	out := make([]domain.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// nextID issues a creation-ordered millisecond id, bumped past the
// previous one so two mutations in the same millisecond stay unique.
func (s *Store) nextID() string {
	ms := s.now().UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return strconv.FormatInt(ms, 10)
}

func (s *Store) index(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) save() error {
	if err := s.persist.SavePosts(s.posts); err != nil {
		return fmt.Errorf("saving feed: %w", err)
	}
	return nil
}
