// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package media

import (
	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/store"
)

// Videogame is the media item subtype of VIDEOGAME categories.
type Videogame struct {
	Core
	Developers         []string `json:"developers"`
	Publishers         []string `json:"publishers"`
	Platforms          []string `json:"platforms"` // release platforms, not own platforms
	AverageLengthHours float64  `json:"average_length_hours"`
}

// ItemCore implements [Entry].
func (v *Videogame) ItemCore() *Core { return &v.Core }

// CloneVideogame deep-copies a videogame for the memory engine.
func CloneVideogame(v Videogame) Videogame {
	out := v
	out.Core = cloneCore(v.Core)
	if v.Developers != nil {
		out.Developers = append([]string(nil), v.Developers...)
	}
	if v.Publishers != nil {
		out.Publishers = append([]string(nil), v.Publishers...)
	}
	if v.Platforms != nil {
		out.Platforms = append([]string(nil), v.Platforms...)
	}
	return out
}

// VideogameSchema declares the logical field mapping of the videogame
// collection.
func VideogameSchema() store.Schema[Videogame] {
	return store.Schema[Videogame]{
		Collection: "media_videogames",
		ID:         func(v *Videogame) string { return v.ID },
		SetID:      func(v *Videogame, id string) { v.ID = id },
		Value: func(v *Videogame, field store.Field) (any, bool) {
			if value, handled := coreValue(&v.Core, field); handled {
				return value, true
			}
			switch field {
			case FieldDevelopers:
				return v.Developers, true
			case FieldPublishers:
				return v.Publishers, true
			case FieldPlatforms:
				return v.Platforms, true
			case FieldAverageLengthHours:
				return v.AverageLengthHours, true
			default:
				return nil, false
			}
		},
		Apply: func(v *Videogame, field store.Field, value any) error {
			if handled, err := coreApply(&v.Core, field, value); handled {
				return err
			}
			return store.ErrUnknownField(field)
		},
	}
}

// videogameType is the [Descriptor] of the videogame subtype.
type videogameType struct{}

// VideogameType returns the videogame descriptor.
func VideogameType() Descriptor { return videogameType{} }

func (videogameType) MediaType() category.MediaType { return category.MediaTypeVideogame }
func (videogameType) EntityName() string            { return "Videogame" }

func (videogameType) DefaultSort() []store.SortSpec { return defaultItemSort() }

func (videogameType) SortColumn(field SortField) (store.Field, bool) {
	if column, known := commonSortColumn(field); known {
		return column, true
	}
	if field == SortByAverageLengthHours {
		return FieldAverageLengthHours, true
	}
	return "", false
}

func (videogameType) SearchFields() []store.Field {
	return []store.Field{FieldDevelopers, FieldPublishers}
}
