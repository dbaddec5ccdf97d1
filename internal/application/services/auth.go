package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"member-portal-api/internal/application/ports"
	"member-portal-api/internal/domain/identity"
	"member-portal-api/internal/infrastructure/jwt"
	"member-portal-api/internal/infrastructure/session"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
	ErrInvalidSession        = errors.New("invalid session")
)

type AuthService struct {
	provider    ports.IdentityProvider
	jwtService  *jwt.Service
	revocations *session.Revocations
	ttl         time.Duration
}

func NewAuthService(
	provider ports.IdentityProvider,
	jwtService *jwt.Service,
	revocations *session.Revocations,
	ttl time.Duration,
) ports.Auth {
	return &AuthService{
		provider:    provider,
		jwtService:  jwtService,
		revocations: revocations,
		ttl:         ttl,
	}
}

func (as *AuthService) SignIn(ctx context.Context, creds identity.Credentials) (*identity.Session, error) {
	id, err := as.provider.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(as.ttl)
	token, err := as.jwtService.GenerateJWT(id.UserID.String(), id.Email, id.Role, as.ttl)
	if err != nil {
		return nil, ErrFailedToGenerateToken
	}

	return &identity.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  *id,
	}, nil
}

func (as *AuthService) SignOut(_ context.Context, token string) error {
	claims, err := as.jwtService.ValidateToken(token)
	if err != nil {
		return ErrInvalidSession
	}
	as.revocations.Revoke(claims.ID)

	return nil
}

func (as *AuthService) CurrentIdentity(_ context.Context, token string) (*identity.Identity, error) {
	claims, err := as.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if as.revocations.IsRevoked(claims.ID) {
		return nil, ErrInvalidSession
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return nil, ErrInvalidSession
	}

	return &identity.Identity{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
