// Package localstore persists the feed as one JSON blob under a
// single key, mirroring browser local storage: full-replace writes,
// no partial updates, no schema migration.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plaroapp/plaro/domain"
)

// PostsKey is the blob key for the feed sequence.
const PostsKey = "social_media_posts"

// Store maps keys to JSON files under a directory.
type Store struct {
	dir string
	key string
}

// New creates a Store rooted at dir, using PostsKey.
func New(dir string) *Store {
	return &Store{dir: dir, key: PostsKey}
}

// NewWithKey creates a Store for an explicit key.
func NewWithKey(dir, key string) *Store {
	return &Store{dir: dir, key: key}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, s.key+".json")
}

// LoadPosts reads the persisted sequence. An absent or corrupt blob
// loads as an empty feed; only real I/O failures surface.
func (s *Store) LoadPosts() ([]domain.Post, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path(), err)
	}

	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		// Corrupt blob: recoverable, start over with an empty feed.
		return nil, nil
	}
	return posts, nil
}

// SavePosts rewrites the whole sequence under the key.
func (s *Store) SavePosts(posts []domain.Post) error {
	if posts == nil {
		posts = []domain.Post{}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding feed: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", s.path(), err)
	}
	return nil
}
