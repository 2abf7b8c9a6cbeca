package domain

import "time"

// MediaKind distinguishes how an attachment is rendered.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is an optional post attachment. URL is opaque: a data URI for
// locally resized images, or a remote/file reference for video.
type Media struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// Author identifies the creator of a post or comment.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Comment is one feed-post comment. Append-only from the UI's
// perspective: individual comments are never edited or deleted.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Post represents a single feed entry.
//
// ID is unique within the store for the post's lifetime and
// creation-ordered: the local store issues millisecond timestamps,
// the hosted store uses backend push keys. Content is HTML-escaped
// before it is stored and never interpreted as markup.
type Post struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Media       *Media    `json:"media,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Author      Author    `json:"author"`
	LikeCount   int       `json:"likes"`
	LikedBySelf bool      `json:"isLiked"`
	Comments    []Comment `json:"comments"`

	// Editing is transient UI state: when set the renderer shows an
	// edit form instead of the static content. Never persisted.
	Editing bool `json:"-"`
}

// OwnedBy reports whether the post belongs to the given viewer.
func (p Post) OwnedBy(viewerID string) bool {
	return viewerID != "" && p.Author.ID == viewerID
}
