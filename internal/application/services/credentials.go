package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"member-portal-api/internal/application/ports"
	"member-portal-api/internal/domain/identity"
	"member-portal-api/internal/domain/member"
)

// CredentialsProvider authenticates members by email and bcrypt password hash.
type CredentialsProvider struct {
	members member.Repository
}

func NewCredentialsProvider(members member.Repository) ports.IdentityProvider {
	return &CredentialsProvider{members: members}
}

func (cp *CredentialsProvider) Authenticate(ctx context.Context, creds identity.Credentials) (*identity.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	m, err := cp.members.FetchByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if m == nil || m.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role := m.Role
	if role == "" {
		role = member.RoleUser
	}

	return &identity.Identity{
		UserID: m.UUID,
		Email:  m.Email,
		Role:   role,
	}, nil
}
