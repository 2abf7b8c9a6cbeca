package app

import (
	"context"

	"github.com/plaroapp/plaro/domain"
)

// Feed is the post store contract both backends satisfy: the local
// write-through store and the hosted realtime-database service.
// All mutations are synchronous with respect to the in-memory
// sequence; durable mutations persist before returning.
type Feed interface {
	// Load populates the feed from persistent storage, newest first.
	// A missing or unreadable blob is not an error: the feed starts empty.
	Load(ctx context.Context) ([]domain.Post, error)

	// Create validates, stores, and returns the new post. Fails with
	// domain.ErrEmptyPost when content is blank and media is nil.
	Create(ctx context.Context, content string, media *domain.Media) (domain.Post, error)

	// Update replaces a post's content in place and clears its editing flag.
	Update(ctx context.Context, id, content string) (domain.Post, error)

	// Delete removes a post. An absent id is a no-op, not an error.
	Delete(ctx context.Context, id string) error

	// ToggleLike flips the viewer's like state and adjusts the count by ±1.
	ToggleLike(ctx context.Context, id string) (domain.Post, error)

	// AddComment appends a comment authored by the current viewer.
	AddComment(ctx context.Context, id, text string) (domain.Post, error)

	// ToggleEditing flips the transient edit flag. UI-only: no persistence.
	ToggleEditing(id string) (domain.Post, error)

	// Posts returns a snapshot of the current sequence for rendering.
	Posts() []domain.Post
}
