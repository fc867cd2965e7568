// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediashelf/mediashelf/internal/auth"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/platform/sec"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/memory"
)

// fakeSessions is an in-memory session allow-list.
type fakeSessions struct {
	entries map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{entries: make(map[string]string)}
}

func (f *fakeSessions) Put(_ context.Context, sessionID, userID string, _ time.Duration) error {
	f.entries[sessionID] = userID
	return nil
}

func (f *fakeSessions) UserID(_ context.Context, sessionID string) (string, error) {
	return f.entries[sessionID], nil
}

func (f *fakeSessions) Revoke(_ context.Context, sessionID string) error {
	delete(f.entries, sessionID)
	return nil
}

// fakeTokens issues predictable opaque tokens.
type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(_, _, sessionID string, _ time.Duration) (string, error) {
	return "token-" + sessionID, nil
}

// fakeDirectory stands in for the user controller.
type fakeDirectory struct {
	nextID string
}

func (f *fakeDirectory) SaveUser(_ context.Context, u *user.User) error {
	if u.ID == "" {
		u.ID = f.nextID
	}
	return nil
}

func newService(t *testing.T) (*auth.Service, *fakeSessions) {
	t.Helper()
	credentials := store.NewQueryHelper(memory.NewCollection(auth.Schema(), auth.Clone), auth.Schema(), "Credential")
	sessions := newFakeSessions()
	service := auth.NewService(credentials, &fakeDirectory{nextID: "user-1"}, sessions, fakeTokens{},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, sessions
}

/*
TestRegister covers display-name defaulting and the case-insensitive
username conflict.
*/
func TestRegister(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)

	account, err := service.Register(ctx, auth.RegisterInput{Username: "reader", Password: "secret-pass"})
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "reader", account.Name, "display name defaults to the username")

	_, err = service.Register(ctx, auth.RegisterInput{Username: "READER", Password: "other-pass"})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeSaveUniqueness, ae.Code)
}

/*
TestLogin checks the session handshake and that an unknown username and a
wrong password are indistinguishable to the caller.
*/
func TestLogin(t *testing.T) {
	ctx := context.Background()
	service, sessions := newService(t)

	_, err := service.Register(ctx, auth.RegisterInput{Username: "reader", Password: "secret-pass", DisplayName: "Reader"})
	require.NoError(t, err)

	session, err := service.Login(ctx, "reader", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "bearer", session.TokenType)
	assert.Equal(t, "user-1", session.UserID)
	assert.NotEmpty(t, session.AccessToken)
	assert.Len(t, sessions.entries, 1, "login opens exactly one session")

	_, wrongPassword := service.Login(ctx, "reader", "not-the-pass")
	_, unknownUser := service.Login(ctx, "nobody", "secret-pass")
	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error(),
		"login failures must not reveal which usernames exist")
	assert.Equal(t, "UNAUTHORIZED", apperr.As(wrongPassword).Code)
}

/*
TestLogout removes the session entry; revoking twice is harmless.
*/
func TestLogout(t *testing.T) {
	ctx := context.Background()
	service, sessions := newService(t)
	require.NoError(t, sessions.Put(ctx, "sess-1", "user-1", time.Hour))

	require.NoError(t, service.Logout(ctx, "sess-1"))
	assert.Empty(t, sessions.entries)
	require.NoError(t, service.Logout(ctx, "sess-1"))
}

// writeTestKeys generates a throwaway RSA pair and writes it as PEM files.
func writeTestKeys(t *testing.T) (privPath, pubPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath = filepath.Join(dir, "jwt.pem")
	pubPath = filepath.Join(dir, "jwt.pub.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))

	return privPath, pubPath
}

/*
TestVerifier checks the two-factor token check: a valid signature alone is
not enough, the session entry must exist and belong to the token's user.
*/
func TestVerifier(t *testing.T) {
	ctx := context.Background()

	privPath, pubPath := writeTestKeys(t)
	tokens, err := sec.NewTokenService(privPath, pubPath, "mediashelf.app")
	require.NoError(t, err)

	sessions := newFakeSessions()
	verifier := auth.NewVerifier(tokens, sessions)

	signed, err := tokens.GenerateAccessToken("user-1", "reader", "sess-1", time.Hour)
	require.NoError(t, err)

	t.Run("live_session", func(t *testing.T) {
		require.NoError(t, sessions.Put(ctx, "sess-1", "user-1", time.Hour))

		claims, err := verifier.VerifyToken(ctx, signed)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "reader", claims.Username)
		assert.Equal(t, "sess-1", claims.SessionID)
	})

	t.Run("revoked_session", func(t *testing.T) {
		require.NoError(t, sessions.Revoke(ctx, "sess-1"))

		_, err := verifier.VerifyToken(ctx, signed)
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("session_user_mismatch", func(t *testing.T) {
		require.NoError(t, sessions.Put(ctx, "sess-1", "someone-else", time.Hour))

		_, err := verifier.VerifyToken(ctx, signed)
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("garbage_token", func(t *testing.T) {
		_, err := verifier.VerifyToken(ctx, "not.a.token")
		assert.Error(t, err)
	})
}
