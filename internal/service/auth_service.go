package service

import (
	"context"
	"errors"

	"maale/internal/database"
	"maale/internal/domain"
	"maale/internal/metrics"
	"maale/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates credentials and manages session tokens.
type AuthService struct {
	repo     domain.Repository
	sessions domain.SessionStore
	logger   *zerolog.Logger
}

func NewAuthService(repo domain.Repository, sessions domain.SessionStore, logger *zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, sessions: sessions, logger: logger}
}

// Login verifies the credential and issues a session token. The failure is
// deliberately generic: callers cannot tell an unknown user from a wrong
// secret.
func (s *AuthService) Login(ctx context.Context, username, secret string) (string, models.Actor, error) {
	cred, err := s.repo.GetCredential(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		metrics.IncAuthFailure()
		return "", models.Actor{}, database.ErrAuthFailed
	}
	if err != nil {
		return "", models.Actor{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.SecretHash), []byte(secret)) != nil {
		metrics.IncAuthFailure()
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return "", models.Actor{}, database.ErrAuthFailed
	}

	actor := models.Actor{Username: cred.Username, Role: cred.Role}
	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, actor); err != nil {
		return "", models.Actor{}, err
	}

	s.logger.Info().Str("username", username).Str("role", string(actor.Role)).Msg("login")
	return token, actor, nil
}

// Logout drops the session. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a session token to an actor. Empty, unknown or expired
// tokens resolve to the guest actor.
func (s *AuthService) Resolve(ctx context.Context, token string) models.Actor {
	if token == "" {
		return models.Guest
	}

	actor, err := s.sessions.Get(ctx, token)
	if err != nil {
		s.logger.Error().Err(err).Msg("session lookup failed")
		return models.Guest
	}
	if actor == nil {
		return models.Guest
	}
	return *actor
}
