// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package store

import "context"

// Update is an ordered set of field assignments for partial updates.
// Assigning nil clears a reference field.
type Update map[Field]any

// Schema describes how an engine reads and writes the logical fields of an
// entity type. It replaces reflection with explicit accessors: each entity
// package declares exactly one Schema and every engine shares it.
type Schema[T any] struct {
	// Collection is the logical collection name (also the SQL table name).
	Collection string

	// ID returns the record identifier ("" when the entity was never saved).
	ID func(*T) string

	// SetID assigns a freshly generated identifier before an insert.
	SetID func(*T, string)

	// Value resolves a logical field to its current value. Reference fields
	// yield a *string (nil when unset). The boolean reports whether the
	// field is known to this entity type.
	Value func(*T, Field) (any, bool)

	// Apply assigns a single field for partial updates. Unknown fields or
	// incompatible values must return an error.
	Apply func(*T, Field, any) error
}

// Collection is the primitive operation set every engine provides for one
// entity type. Implementations translate the predicate tree; they perform no
// entity-level validation — that is the [QueryHelper]'s job.
type Collection[T any] interface {
	// Find returns all records matching filter, ordered by sorts.
	// A nil filter matches everything.
	Find(ctx context.Context, filter Filter, sorts []SortSpec) ([]T, error)

	// Insert stores a new record under its (already assigned) id.
	Insert(ctx context.Context, item T) error

	// Update replaces the record with the same id and reports how many
	// records matched (0 when the id does not exist).
	Update(ctx context.Context, item T) (int64, error)

	// UpdateMany applies a partial update to every matching record and
	// returns the matched count.
	UpdateMany(ctx context.Context, set Update, filter Filter) (int64, error)

	// Delete removes every matching record and returns the removed count.
	Delete(ctx context.Context, filter Filter) (int64, error)

	// DeleteByID removes the record with the given id, reporting how many
	// records were removed (0 or 1).
	DeleteByID(ctx context.Context, id string) (int64, error)
}
