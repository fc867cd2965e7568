// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package auth owns login credentials and API sessions.

A credential links a unique login username and a bcrypt password hash to one
catalog user. Sessions are short-lived Redis entries referenced by the JWT:
revoking the entry invalidates the token before it expires.
*/
package auth

import "github.com/mediashelf/mediashelf/internal/store"

// Credential is the login identity of one catalog user. Usernames are unique
// across all credentials; the password never leaves this package unhashed.
type Credential struct {
	ID           string `json:"id"` // UUIDv7
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// # Field Identifiers

const (
	FieldID           store.Field = "id"
	FieldUserID       store.Field = "user_id"
	FieldUsername     store.Field = "username"
	FieldPasswordHash store.Field = "password_hash"
)

// Schema declares the logical field mapping shared by every store engine.
func Schema() store.Schema[Credential] {
	return store.Schema[Credential]{
		Collection: "credentials",
		ID:         func(c *Credential) string { return c.ID },
		SetID:      func(c *Credential, id string) { c.ID = id },
		Value: func(c *Credential, field store.Field) (any, bool) {
			switch field {
			case FieldID:
				return c.ID, true
			case FieldUserID:
				return c.UserID, true
			case FieldUsername:
				return c.Username, true
			case FieldPasswordHash:
				return c.PasswordHash, true
			default:
				return nil, false
			}
		},
		Apply: applyField,
	}
}

func applyField(c *Credential, field store.Field, value any) error {
	switch field {
	case FieldPasswordHash:
		hash, ok := value.(string)
		if !ok {
			return store.ErrBadFieldValue(field, value)
		}
		c.PasswordHash = hash
		return nil
	default:
		return store.ErrUnknownField(field)
	}
}

// Clone returns an independent copy (credentials have no slice fields).
func Clone(c Credential) Credential { return c }
