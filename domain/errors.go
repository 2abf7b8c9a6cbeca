package domain

import "errors"

var (
	// ErrEmptyPost indicates a submission with neither content nor media.
	ErrEmptyPost = errors.New("post needs content or an attachment")

	// ErrNotFound indicates the target post left the store already.
	ErrNotFound = errors.New("post not found")

	// ErrSignedOut indicates a mutation was attempted without a session.
	ErrSignedOut = errors.New("not signed in")

	// ErrAuthFailed indicates the backend rejected sign-in or sign-up.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrUnsupportedMedia indicates an attachment type outside the allow list.
	ErrUnsupportedMedia = errors.New("attachment must be an image or video")

	// ErrMediaTooLarge indicates an attachment over the size limit.
	ErrMediaTooLarge = errors.New("attachment exceeds size limit")
)
