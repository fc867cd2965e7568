// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/platform/sec"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/pkg/uuidv7"
)

const (
	// AccessTokenTTL is the lifetime of an issued access token.
	AccessTokenTTL = 24 * time.Hour

	// SessionTTL mirrors the token lifetime: once the Redis entry lapses the
	// token is dead regardless of its own expiry claim.
	SessionTTL = AccessTokenTTL
)

// TokenProvider signs access tokens. Implemented by [sec.TokenService].
type TokenProvider interface {
	GenerateAccessToken(userID, username, sessionID string, timeToLive time.Duration) (string, error)
}

// UserDirectory creates the catalog user a new credential belongs to.
// Implemented by the user controller, which enforces name uniqueness.
type UserDirectory interface {
	SaveUser(ctx context.Context, u *user.User) error
}

// Sessions is the session allow-list consulted on login, logout and token
// verification. Implemented by the Redis-backed [SessionStore].
type Sessions interface {
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	UserID(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

// Service implements the authentication lifecycle: register, login, logout.
type Service struct {
	credentials *store.QueryHelper[Credential]
	users       UserDirectory
	sessions    Sessions
	tokens      TokenProvider
	logger      *slog.Logger
}

// NewService constructs the authentication service.
func NewService(credentials *store.QueryHelper[Credential], users UserDirectory, sessions Sessions, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		credentials: credentials,
		users:       users,
		sessions:    sessions,
		tokens:      tokens,
		logger:      logger,
	}
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username    string
	Password    string
	DisplayName string
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
}

// Register creates a catalog user together with its login credential.
//
// The username must be unique among credentials and the display name unique
// among catalog users; either conflict aborts the registration. The display
// name defaults to the username.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	existing, err := service.credentials.FindOne(ctx, store.EqFold(FieldUsername, input.Username))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.SaveUniqueness("A credential with the same username already exists", []string{existing.ID})
	}

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Generic("Failed to hash password", err)
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	account := &user.User{Name: displayName}
	if err := service.users.SaveUser(ctx, account); err != nil {
		return nil, err
	}

	credential := &Credential{
		UserID:       account.ID,
		Username:     input.Username,
		PasswordHash: passwordHash,
	}
	if err := service.credentials.CheckUniquenessAndSave(ctx, credential, store.EqFold(FieldUsername, input.Username)); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered",
		slog.String("user_id", account.ID),
		slog.String("username", credential.Username),
	)
	return account, nil
}

// Login verifies the credentials and opens a session.
//
// A wrong username and a wrong password produce the same error, so the
// endpoint cannot be used to probe which usernames exist.
func (service *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	credential, err := service.credentials.FindOne(ctx, store.EqFold(FieldUsername, username))
	if err != nil {
		return nil, err
	}
	if credential == nil || !sec.CheckPasswordHash(password, credential.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	sessionID := uuidv7.New()
	expiresAt := time.Now().Add(AccessTokenTTL)

	accessToken, err := service.tokens.GenerateAccessToken(credential.UserID, credential.Username, sessionID, AccessTokenTTL)
	if err != nil {
		return nil, apperr.Generic("Failed to issue access token", err)
	}

	if err := service.sessions.Put(ctx, sessionID, credential.UserID, SessionTTL); err != nil {
		return nil, apperr.Generic("Failed to open session", err)
	}

	service.logger.Info("user_logged_in",
		slog.String("user_id", credential.UserID),
		slog.String("session_id", sessionID),
	)

	return &Session{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		UserID:      credential.UserID,
	}, nil
}

// Logout revokes the session behind the presented token. The JWT itself stays
// cryptographically valid until expiry but no longer passes verification.
func (service *Service) Logout(ctx context.Context, sessionID string) error {
	if err := service.sessions.Revoke(ctx, sessionID); err != nil {
		return apperr.Generic("Failed to revoke session", err)
	}
	service.logger.Info("user_logged_out", slog.String("session_id", sessionID))
	return nil
}

// DeleteAllForUser removes every credential of a user. Wired into the user
// deletion cascade.
func (service *Service) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return service.credentials.Delete(ctx, store.Eq(FieldUserID, userID))
}

// # Token Verification

// Verifier checks both the token signature and the session allow-list. It is
// the [middleware.TokenVerifier] used by the server.
type Verifier struct {
	tokens   *sec.TokenService
	sessions Sessions
}

// NewVerifier constructs a [Verifier].
func NewVerifier(tokens *sec.TokenService, sessions Sessions) *Verifier {
	return &Verifier{tokens: tokens, sessions: sessions}
}

// VerifyToken validates the JWT signature and requires a live session entry
// matching the token's user.
func (verifier *Verifier) VerifyToken(ctx context.Context, tokenString string) (*sec.AuthClaims, error) {
	claims, err := verifier.tokens.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := verifier.sessions.UserID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if userID == "" || userID != claims.UserID {
		return nil, apperr.Unauthorized("Session has been revoked")
	}

	return claims, nil
}
