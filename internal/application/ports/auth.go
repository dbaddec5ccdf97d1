package ports

import (
	"context"

	"member-portal-api/internal/domain/identity"
)

// IdentityProvider verifies credentials and says who is calling.
type IdentityProvider interface {
	Authenticate(ctx context.Context, creds identity.Credentials) (*identity.Identity, error)
}

// Auth is the session surface: sign in, sign out, current user.
type Auth interface {
	SignIn(ctx context.Context, creds identity.Credentials) (*identity.Session, error)
	SignOut(ctx context.Context, token string) error
	CurrentIdentity(ctx context.Context, token string) (*identity.Identity, error)
}
