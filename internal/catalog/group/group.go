// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package group manages the user-defined buckets that order media items inside
a category.

A group never owns its items: deleting a group detaches the items that
pointed at it (their group reference is cleared) but leaves them in the
category.
*/
package group

import (
	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/store"
)

// Group is a manual ordering bucket for media items within one category.
type Group struct {
	ID       string                     `json:"id"` // UUIDv7
	Name     string                     `json:"name"`
	Owner    ref.Ref[user.User]         `json:"owner"`
	Category ref.Ref[category.Category] `json:"category"`
}

// # Field Identifiers

const (
	FieldID       store.Field = "id"
	FieldName     store.Field = "name"
	FieldOwner    store.Field = "owner"
	FieldCategory store.Field = "category"
)

// Schema declares the logical field mapping shared by every store engine.
func Schema() store.Schema[Group] {
	return store.Schema[Group]{
		Collection: "groups",
		ID:         func(g *Group) string { return g.ID },
		SetID:      func(g *Group, id string) { g.ID = id },
		Value: func(g *Group, field store.Field) (any, bool) {
			switch field {
			case FieldID:
				return g.ID, true
			case FieldName:
				return g.Name, true
			case FieldOwner:
				return g.Owner.ID(), true
			case FieldCategory:
				return g.Category.ID(), true
			default:
				return nil, false
			}
		},
		Apply: applyField,
	}
}

func applyField(g *Group, field store.Field, value any) error {
	switch field {
	case FieldName:
		name, ok := value.(string)
		if !ok {
			return store.ErrBadFieldValue(field, value)
		}
		g.Name = name
		return nil
	default:
		return store.ErrUnknownField(field)
	}
}

// Clone returns an independent copy (groups have no slice fields).
func Clone(g Group) Group { return g }
