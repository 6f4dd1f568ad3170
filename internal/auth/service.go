package auth

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/project-tracker/internal"
)

type CredentialStore interface {
	// GetByEmail returns nil, nil for an unknown email.
	GetByEmail(ctx context.Context, email string) (*Credentials, error)
	GetByUID(ctx context.Context, uid string) (*Credentials, error)
}

type Service struct {
	store  CredentialStore
	tokens TokenGenerator
	logger *slog.Logger
}

func NewService(store CredentialStore, tokens TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate verifies the password and issues a token pair for the user's uid.
func (s *Service) Authenticate(ctx context.Context, req LoginRequest) (AuthTokens, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	creds, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to load credentials", err)
	}
	if creds == nil {
		s.logger.InfoContext(ctx, "login for unknown email")
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.InfoContext(ctx, "login with wrong password", "uid", creds.UID)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	return s.issue(creds.UID)
}

// RefreshTokens rotates both tokens. The user must still exist.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.store.GetByUID(ctx, claims.UID())
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to load credentials", err)
	}
	if creds == nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	return s.issue(creds.UID)
}

// Identify returns the uid an access token was issued for.
func (s *Service) Identify(ctx context.Context, accessToken string) (string, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return "", err
	}
	return claims.UID(), nil
}

func (s *Service) issue(uid string) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(uid)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(uid)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue refresh token", err)
	}
	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}
