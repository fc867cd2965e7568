// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package media

import (
	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/store"
)

// Movie is the media item subtype of MOVIE categories.
type Movie struct {
	Core
	Directors   []string `json:"directors"`
	DurationMin int      `json:"duration_min"`
}

// ItemCore implements [Entry].
func (m *Movie) ItemCore() *Core { return &m.Core }

// CloneMovie deep-copies a movie for the memory engine.
func CloneMovie(m Movie) Movie {
	out := m
	out.Core = cloneCore(m.Core)
	if m.Directors != nil {
		out.Directors = append([]string(nil), m.Directors...)
	}
	return out
}

// MovieSchema declares the logical field mapping of the movies collection.
func MovieSchema() store.Schema[Movie] {
	return store.Schema[Movie]{
		Collection: "media_movies",
		ID:         func(m *Movie) string { return m.ID },
		SetID:      func(m *Movie, id string) { m.ID = id },
		Value: func(m *Movie, field store.Field) (any, bool) {
			if value, handled := coreValue(&m.Core, field); handled {
				return value, true
			}
			switch field {
			case FieldDirectors:
				return m.Directors, true
			case FieldDurationMin:
				return m.DurationMin, true
			default:
				return nil, false
			}
		},
		Apply: func(m *Movie, field store.Field, value any) error {
			if handled, err := coreApply(&m.Core, field, value); handled {
				return err
			}
			return store.ErrUnknownField(field)
		},
	}
}

// movieType is the [Descriptor] of the movie subtype.
type movieType struct{}

// MovieType returns the movie descriptor.
func MovieType() Descriptor { return movieType{} }

func (movieType) MediaType() category.MediaType { return category.MediaTypeMovie }
func (movieType) EntityName() string            { return "Movie" }

func (movieType) DefaultSort() []store.SortSpec { return defaultItemSort() }

func (movieType) SortColumn(field SortField) (store.Field, bool) {
	if column, known := commonSortColumn(field); known {
		return column, true
	}
	if field == SortByDurationMin {
		return FieldDurationMin, true
	}
	return "", false
}

func (movieType) SearchFields() []store.Field {
	return []store.Field{FieldDirectors}
}
