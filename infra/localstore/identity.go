package localstore

import (
	"context"

	"github.com/plaroapp/plaro/domain"
)

// Identity is the local backend's fixed pseudo-user. There is no real
// account system: sign-in and sign-up trivially succeed and sign-out
// does nothing, so the feed is always usable.
type Identity struct {
	user domain.Author
}

// NewIdentity returns the fixed local viewer.
func NewIdentity() *Identity {
	return &Identity{user: domain.Author{
		ID:          "user123",
		DisplayName: "Current User",
	}}
}

func (i *Identity) CurrentUser() (domain.Author, bool) { return i.user, true }

func (i *Identity) SignIn(_ context.Context, _, _ string) (domain.Author, error) {
	return i.user, nil
}

func (i *Identity) SignUp(_ context.Context, _, _, _ string) (domain.Author, error) {
	return i.user, nil
}

func (i *Identity) SignOut() {}
