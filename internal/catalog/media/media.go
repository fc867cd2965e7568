// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package media implements the media item layer of the catalog.

One generic controller carries all item semantics — dynamic filtering,
searching, save preconditions, cascades, bulk reference rewrites — and is
instantiated once per concrete subtype (book, movie, TV show, videogame).
Subtype behavior lives behind a small descriptor interface: the linked media
type, the default ordering, extra sortable and searchable fields. The factory
at the bottom of the package dispatches cross-subtype cascades for the
sibling entity controllers.
*/
package media

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/group"
	"github.com/mediashelf/mediashelf/internal/catalog/ownplatform"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/pkg/pointer"
)

// Importance ranks how much the user cares about an item. The numeric order
// is the sort order: higher means more important.
type Importance int

const (
	ImportanceUnimportant Importance = iota + 1
	ImportanceFairlyImportant
	ImportanceImportant
	ImportanceVeryImportant
)

var importanceNames = map[Importance]string{
	ImportanceUnimportant:     "UNIMPORTANT",
	ImportanceFairlyImportant: "FAIRLY_IMPORTANT",
	ImportanceImportant:       "IMPORTANT",
	ImportanceVeryImportant:   "VERY_IMPORTANT",
}

func (imp Importance) String() string {
	if name, known := importanceNames[imp]; known {
		return name
	}
	return fmt.Sprintf("IMPORTANCE(%d)", int(imp))
}

// ParseImportance maps a wire name onto its level.
func ParseImportance(name string) (Importance, error) {
	for level, candidate := range importanceNames {
		if candidate == name {
			return level, nil
		}
	}
	return 0, fmt.Errorf("media: unknown importance level %q", name)
}

// MarshalJSON writes the symbolic name.
func (imp Importance) MarshalJSON() ([]byte, error) {
	name, known := importanceNames[imp]
	if !known {
		return nil, fmt.Errorf("media: unknown importance level %d", int(imp))
	}
	return json.Marshal(name)
}

// UnmarshalJSON reads the symbolic name.
func (imp *Importance) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	level, err := ParseImportance(name)
	if err != nil {
		return err
	}
	*imp = level
	return nil
}

// Core holds the fields shared by every media item subtype. Concrete
// subtypes embed it and add their own fields.
type Core struct {
	ID              string                            `json:"id"` // UUIDv7
	Name            string                            `json:"name"`
	Owner           ref.Ref[user.User]                `json:"owner"`
	Category        ref.Ref[category.Category]        `json:"category"`
	Group           ref.Ref[group.Group]              `json:"group"`        // zero = not grouped
	OrderInGroup    int                               `json:"order_in_group"`
	OwnPlatform     ref.Ref[ownplatform.OwnPlatform]  `json:"own_platform"` // zero = not tagged
	Importance      Importance                        `json:"importance"`
	Genres          []string                          `json:"genres"`
	Description     string                            `json:"description"`
	UserComment     string                            `json:"user_comment"`
	CompletedOn     []time.Time                       `json:"completed_on"`
	CompletedLastOn *time.Time                        `json:"completed_last_on"` // derived: max of CompletedOn
	Active          bool                              `json:"active"`
	MarkedAsRedo    bool                              `json:"marked_as_redo"`
	ReleaseDate     *time.Time                        `json:"release_date"`
	CatalogID       string                            `json:"catalog_id"` // external metadata linkage
	ImageURL        string                            `json:"image_url"`
}

// Entry is the accessor every media item subtype provides for its embedded
// core. The generic controller reaches all shared fields through it.
type Entry interface {
	ItemCore() *Core
}

// # Field Identifiers

// Core fields, shared by every subtype collection.
const (
	FieldID              store.Field = "id"
	FieldName            store.Field = "name"
	FieldOwner           store.Field = "owner"
	FieldCategory        store.Field = "category"
	FieldGroup           store.Field = "group"
	FieldOrderInGroup    store.Field = "order_in_group"
	FieldOwnPlatform     store.Field = "own_platform"
	FieldImportance      store.Field = "importance"
	FieldGenres          store.Field = "genres"
	FieldDescription     store.Field = "description"
	FieldUserComment     store.Field = "user_comment"
	FieldCompletedLastOn store.Field = "completed_last_on"
	FieldActive          store.Field = "active"
	FieldMarkedAsRedo    store.Field = "marked_as_redo"
	FieldReleaseDate     store.Field = "release_date"
	FieldCatalogID       store.Field = "catalog_id"
	FieldImageURL        store.Field = "image_url"
)

// Subtype-specific fields.
const (
	FieldAuthors            store.Field = "authors"
	FieldPagesCount         store.Field = "pages_count"
	FieldDirectors          store.Field = "directors"
	FieldDurationMin        store.Field = "duration_min"
	FieldCreators           store.Field = "creators"
	FieldEpisodeRuntimeMin  store.Field = "average_episode_runtime_min"
	FieldEpisodesNumber     store.Field = "episodes_number"
	FieldSeasonsNumber      store.Field = "seasons_number"
	FieldInProduction       store.Field = "in_production"
	FieldNextEpisodeAirDate store.Field = "next_episode_air_date"
	FieldDevelopers         store.Field = "developers"
	FieldPublishers         store.Field = "publishers"
	FieldPlatforms          store.Field = "platforms"
	FieldAverageLengthHours store.Field = "average_length_hours"
)

// coreValue resolves a shared field against the embedded core. The boolean
// reports whether the field was one of the shared ones; subtype schemas fall
// through to their own fields when it is false.
func coreValue(c *Core, field store.Field) (any, bool) {
	switch field {
	case FieldID:
		return c.ID, true
	case FieldName:
		return c.Name, true
	case FieldOwner:
		return c.Owner.ID(), true
	case FieldCategory:
		return c.Category.ID(), true
	case FieldGroup:
		return c.Group.IDPtr(), true
	case FieldOrderInGroup:
		return c.OrderInGroup, true
	case FieldOwnPlatform:
		return c.OwnPlatform.IDPtr(), true
	case FieldImportance:
		return int(c.Importance), true
	case FieldGenres:
		return c.Genres, true
	case FieldDescription:
		return c.Description, true
	case FieldUserComment:
		return c.UserComment, true
	case FieldCompletedLastOn:
		return c.CompletedLastOn, true
	case FieldActive:
		return c.Active, true
	case FieldMarkedAsRedo:
		return c.MarkedAsRedo, true
	case FieldReleaseDate:
		return c.ReleaseDate, true
	case FieldCatalogID:
		return c.CatalogID, true
	case FieldImageURL:
		return c.ImageURL, true
	default:
		return nil, false
	}
}

// coreApply handles the shared fields reachable through bulk partial
// updates: the group and own platform references and the in-group position.
// Everything else is written through full-record saves.
func coreApply(c *Core, field store.Field, value any) (bool, error) {
	switch field {
	case FieldGroup:
		id, err := asIDPtr(field, value)
		if err != nil {
			return true, err
		}
		c.Group = ref.FromIDPtr[group.Group](id)
		return true, nil
	case FieldOwnPlatform:
		id, err := asIDPtr(field, value)
		if err != nil {
			return true, err
		}
		c.OwnPlatform = ref.FromIDPtr[ownplatform.OwnPlatform](id)
		return true, nil
	case FieldOrderInGroup:
		position, ok := value.(int)
		if !ok {
			return true, store.ErrBadFieldValue(field, value)
		}
		c.OrderInGroup = position
		return true, nil
	default:
		return false, nil
	}
}

func asIDPtr(field store.Field, value any) (*string, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case *string:
		return typed, nil
	case string:
		return &typed, nil
	default:
		return nil, store.ErrBadFieldValue(field, value)
	}
}

// normalize recomputes the derived fields before a save: CompletedLastOn is
// the maximum completion date, nil while the item was never completed.
func normalize(c *Core) {
	var last *time.Time
	for i := range c.CompletedOn {
		if last == nil || c.CompletedOn[i].After(*last) {
			last = pointer.To(c.CompletedOn[i])
		}
	}
	c.CompletedLastOn = last
}

// cloneCore deep-copies the slice-valued fields for the memory engine.
func cloneCore(c Core) Core {
	out := c
	if c.Genres != nil {
		out.Genres = append([]string(nil), c.Genres...)
	}
	if c.CompletedOn != nil {
		out.CompletedOn = append([]time.Time(nil), c.CompletedOn...)
	}
	if c.CompletedLastOn != nil {
		out.CompletedLastOn = pointer.To(*c.CompletedLastOn)
	}
	if c.ReleaseDate != nil {
		out.ReleaseDate = pointer.To(*c.ReleaseDate)
	}
	return out
}
