// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package ownplatform manages the "where do I own this" tags of a category
(a store, a streaming service, a device).

Own platforms are referenced by media items. Removing or merging platforms
therefore rewrites those references before any record disappears — a manual
multi-step workflow with no transactional envelope.
*/
package ownplatform

import (
	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/store"
)

// OwnPlatform tags where or how the user owns a media item.
type OwnPlatform struct {
	ID       string                     `json:"id"` // UUIDv7
	Name     string                     `json:"name"`
	Color    string                     `json:"color"` // #RRGGBB presentation color
	Icon     string                     `json:"icon"`
	Owner    ref.Ref[user.User]         `json:"owner"`
	Category ref.Ref[category.Category] `json:"category"`
}

// # Field Identifiers

const (
	FieldID       store.Field = "id"
	FieldName     store.Field = "name"
	FieldColor    store.Field = "color"
	FieldIcon     store.Field = "icon"
	FieldOwner    store.Field = "owner"
	FieldCategory store.Field = "category"
)

// Schema declares the logical field mapping shared by every store engine.
func Schema() store.Schema[OwnPlatform] {
	return store.Schema[OwnPlatform]{
		Collection: "own_platforms",
		ID:         func(p *OwnPlatform) string { return p.ID },
		SetID:      func(p *OwnPlatform, id string) { p.ID = id },
		Value: func(p *OwnPlatform, field store.Field) (any, bool) {
			switch field {
			case FieldID:
				return p.ID, true
			case FieldName:
				return p.Name, true
			case FieldColor:
				return p.Color, true
			case FieldIcon:
				return p.Icon, true
			case FieldOwner:
				return p.Owner.ID(), true
			case FieldCategory:
				return p.Category.ID(), true
			default:
				return nil, false
			}
		},
		Apply: applyField,
	}
}

func applyField(p *OwnPlatform, field store.Field, value any) error {
	text, ok := value.(string)
	if !ok {
		return store.ErrBadFieldValue(field, value)
	}

	switch field {
	case FieldName:
		p.Name = text
	case FieldColor:
		p.Color = text
	case FieldIcon:
		p.Icon = text
	default:
		return store.ErrUnknownField(field)
	}
	return nil
}

// Clone returns an independent copy (own platforms have no slice fields).
func Clone(p OwnPlatform) OwnPlatform { return p }
