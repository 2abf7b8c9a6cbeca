package app

import (
	"context"

	"github.com/plaroapp/plaro/domain"
)

// Identity supplies the current viewer and, for the hosted backend,
// the sign-up/sign-in/sign-out operations. The local backend is a
// fixed pseudo-user and never fails.
type Identity interface {
	// CurrentUser returns the signed-in viewer, or ok=false when none.
	CurrentUser() (domain.Author, bool)

	// SignIn authenticates with email and password.
	SignIn(ctx context.Context, email, password string) (domain.Author, error)

	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, email, password, displayName string) (domain.Author, error)

	// SignOut drops the session.
	SignOut()
}
