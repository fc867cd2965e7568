// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package category manages the per-user containers of media items.

Every category is typed with a media type from a closed set, and that type
decides which media item controller governs the items inside it. The type of
a non-empty category is frozen: changing it would orphan items of the wrong
shape.
*/
package category

import (
	"fmt"

	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/store"
)

// MediaType is the closed enumeration of supported media kinds.
type MediaType string

const (
	MediaTypeBook      MediaType = "BOOK"
	MediaTypeMovie     MediaType = "MOVIE"
	MediaTypeTvShow    MediaType = "TV_SHOW"
	MediaTypeVideogame MediaType = "VIDEOGAME"
)

// AllMediaTypes lists every supported media type. Extending the catalog to
// a new type starts here and in the media item factory.
func AllMediaTypes() []MediaType {
	return []MediaType{MediaTypeBook, MediaTypeMovie, MediaTypeTvShow, MediaTypeVideogame}
}

// ParseMediaType validates a wire value against the closed set.
func ParseMediaType(raw string) (MediaType, error) {
	switch MediaType(raw) {
	case MediaTypeBook, MediaTypeMovie, MediaTypeTvShow, MediaTypeVideogame:
		return MediaType(raw), nil
	}
	return "", fmt.Errorf("unknown media type %q", raw)
}

// Category is a typed, user-owned container of media items.
type Category struct {
	ID        string             `json:"id"` // UUIDv7
	Name      string             `json:"name"`
	MediaType MediaType          `json:"media_type"`
	Owner     ref.Ref[user.User] `json:"owner"`
}

// # Field Identifiers

const (
	FieldID        store.Field = "id"
	FieldName      store.Field = "name"
	FieldMediaType store.Field = "media_type"
	FieldOwner     store.Field = "owner"
)

// Schema declares the logical field mapping shared by every store engine.
func Schema() store.Schema[Category] {
	return store.Schema[Category]{
		Collection: "categories",
		ID:         func(c *Category) string { return c.ID },
		SetID:      func(c *Category, id string) { c.ID = id },
		Value: func(c *Category, field store.Field) (any, bool) {
			switch field {
			case FieldID:
				return c.ID, true
			case FieldName:
				return c.Name, true
			case FieldMediaType:
				return string(c.MediaType), true
			case FieldOwner:
				return c.Owner.ID(), true
			default:
				return nil, false
			}
		},
		Apply: applyField,
	}
}

func applyField(c *Category, field store.Field, value any) error {
	switch field {
	case FieldName:
		name, ok := value.(string)
		if !ok {
			return store.ErrBadFieldValue(field, value)
		}
		c.Name = name
		return nil
	default:
		return store.ErrUnknownField(field)
	}
}

// Clone returns an independent copy (categories have no slice fields).
func Clone(c Category) Category { return c }
