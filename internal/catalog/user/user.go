// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package user manages the account entities that own every other catalog
record.

A user is the root of the ownership tree: categories, groups, own platforms
and media items all carry an owner reference back to a user, and deleting a
user cascades through all of them.
*/
package user

import "github.com/mediashelf/mediashelf/internal/store"

// User is a catalog account. Names are unique across all users.
type User struct {
	ID   string `json:"id"` // UUIDv7
	Name string `json:"name"`
}

// # Field Identifiers

const (
	FieldID   store.Field = "id"
	FieldName store.Field = "name"
)

// Schema declares the logical field mapping shared by every store engine.
func Schema() store.Schema[User] {
	return store.Schema[User]{
		Collection: "users",
		ID:         func(u *User) string { return u.ID },
		SetID:      func(u *User, id string) { u.ID = id },
		Value: func(u *User, field store.Field) (any, bool) {
			switch field {
			case FieldID:
				return u.ID, true
			case FieldName:
				return u.Name, true
			default:
				return nil, false
			}
		},
		Apply: applyField,
	}
}

func applyField(u *User, field store.Field, value any) error {
	switch field {
	case FieldName:
		name, ok := value.(string)
		if !ok {
			return store.ErrBadFieldValue(field, value)
		}
		u.Name = name
		return nil
	default:
		return store.ErrUnknownField(field)
	}
}

// Clone returns an independent copy (users have no slice fields).
func Clone(u User) User { return u }
