// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package store

import (
	"context"
	"fmt"

	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/pkg/uuidv7"
)

// Populator resolves one reference field for a batch of records after a
// find, replacing raw ids with the full referenced entities. Populators are
// registered per field at assembly time and run only when a find requests
// that field.
type Populator[T any] func(ctx context.Context, items []T) error

// QueryHelper is the strict wrapper around a [Collection]'s primitives. It
// owns the contracts every entity controller relies on:
//
//   - FindOne never silently picks between multiple matches.
//   - Save inserts when the id is unset and refuses updates of missing ids.
//   - CheckUniquenessAndSave reports duplicates before writing.
//   - DeleteByID fails when nothing matched; Delete does not.
//
// It knows nothing about entity semantics beyond the entity display name it
// embeds in error messages.
type QueryHelper[T any] struct {
	collection Collection[T]
	schema     Schema[T]
	entityName string
	populators map[Field]Populator[T]
}

// NewQueryHelper constructs a QueryHelper over the given collection.
// entityName is the display name used in error messages ("Category").
func NewQueryHelper[T any](collection Collection[T], schema Schema[T], entityName string) *QueryHelper[T] {
	return &QueryHelper[T]{
		collection: collection,
		schema:     schema,
		entityName: entityName,
		populators: make(map[Field]Populator[T]),
	}
}

// WithPopulator registers the resolver for one reference field and returns
// the helper for chaining during assembly.
func (helper *QueryHelper[T]) WithPopulator(field Field, populator Populator[T]) *QueryHelper[T] {
	helper.populators[field] = populator
	return helper
}

// Find returns every record matching filter, ordered by sorts, with the
// requested reference fields resolved. A nil filter matches all records.
func (helper *QueryHelper[T]) Find(ctx context.Context, filter Filter, sorts []SortSpec, populate ...Field) ([]T, error) {
	items, err := helper.collection.Find(ctx, filter, sorts)
	if err != nil {
		return nil, apperr.Find(fmt.Sprintf("Failed to fetch %s records", helper.entityName), err)
	}

	if len(items) == 0 {
		return items, nil
	}

	for _, field := range populate {
		populator, registered := helper.populators[field]
		if !registered {
			return nil, apperr.Generic(fmt.Sprintf("No populator registered for %s field %q", helper.entityName, field), nil)
		}
		if err := populator(ctx, items); err != nil {
			return nil, apperr.Find(fmt.Sprintf("Failed to resolve %s reference %q", helper.entityName, field), err)
		}
	}

	return items, nil
}

// FindOne returns the single record matching filter, or nil when none does.
// Matching more than one record is a FIND_ERROR: callers of FindOne assert
// uniqueness, and picking an arbitrary match would hide data corruption.
func (helper *QueryHelper[T]) FindOne(ctx context.Context, filter Filter, populate ...Field) (*T, error) {
	items, err := helper.Find(ctx, filter, nil, populate...)
	if err != nil {
		return nil, err
	}

	switch len(items) {
	case 0:
		return nil, nil
	case 1:
		return &items[0], nil
	default:
		return nil, apperr.Find(fmt.Sprintf("Multiple %s records match a find-one query", helper.entityName), nil)
	}
}

// Save upserts the record: an entity without an id is inserted under a fresh
// UUIDv7, an entity with an id replaces the stored record with that id.
// Updating a non-existent id is a SAVE_ERROR.
func (helper *QueryHelper[T]) Save(ctx context.Context, item *T) error {
	if helper.schema.ID(item) == "" {
		helper.schema.SetID(item, uuidv7.New())
		if err := helper.collection.Insert(ctx, *item); err != nil {
			helper.schema.SetID(item, "")
			return apperr.Save(fmt.Sprintf("Failed to insert %s record", helper.entityName), err)
		}
		return nil
	}

	matched, err := helper.collection.Update(ctx, *item)
	if err != nil {
		return apperr.Save(fmt.Sprintf("Failed to update %s record", helper.entityName), err)
	}
	if matched == 0 {
		return apperr.Save(fmt.Sprintf("Cannot update a %s record that does not exist", helper.entityName), nil)
	}
	return nil
}

// CheckUniquenessAndSave runs the uniqueness filter first and refuses the
// write when it matches any record other than the entity itself (an update
// re-saving its own values is not a duplicate). On success it delegates to
// [QueryHelper.Save].
func (helper *QueryHelper[T]) CheckUniquenessAndSave(ctx context.Context, item *T, uniqueness Filter) error {
	matches, err := helper.Find(ctx, uniqueness, nil)
	if err != nil {
		return err
	}

	ownID := helper.schema.ID(item)
	var duplicateIDs []string
	for i := range matches {
		if id := helper.schema.ID(&matches[i]); id != ownID {
			duplicateIDs = append(duplicateIDs, id)
		}
	}

	if len(duplicateIDs) > 0 {
		return apperr.SaveUniqueness(fmt.Sprintf("A %s record with the same unique values already exists", helper.entityName), duplicateIDs)
	}

	return helper.Save(ctx, item)
}

// UpdateSelectiveMany applies the partial update to every matching record
// and returns the matched count.
func (helper *QueryHelper[T]) UpdateSelectiveMany(ctx context.Context, set Update, filter Filter) (int64, error) {
	count, err := helper.collection.UpdateMany(ctx, set, filter)
	if err != nil {
		return 0, apperr.Save(fmt.Sprintf("Failed to bulk-update %s records", helper.entityName), err)
	}
	return count, nil
}

// Delete removes every matching record. Zero matches is a normal outcome.
func (helper *QueryHelper[T]) Delete(ctx context.Context, filter Filter) (int64, error) {
	count, err := helper.collection.Delete(ctx, filter)
	if err != nil {
		return 0, apperr.Delete(fmt.Sprintf("Failed to delete %s records", helper.entityName), err)
	}
	return count, nil
}

// DeleteByID removes exactly one record. A missing id is a DELETE_ERROR:
// by-id deletion callers always believe the record exists.
func (helper *QueryHelper[T]) DeleteByID(ctx context.Context, id string) error {
	removed, err := helper.collection.DeleteByID(ctx, id)
	if err != nil {
		return apperr.Delete(fmt.Sprintf("Failed to delete %s record", helper.entityName), err)
	}
	if removed == 0 {
		return apperr.Delete(fmt.Sprintf("Cannot delete a %s record that does not exist", helper.entityName), nil)
	}
	return nil
}
