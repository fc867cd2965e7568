// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package ref models references between persisted entities.

A reference is a tagged union: either the raw identifier of the target
(unresolved) or the full target entity after a populate step (resolved).
Callers must branch explicitly through the accessors — there is no implicit
"id or entity" union to misuse, and the zero value is the explicit "no
reference" state for optional relations.
*/
package ref

import (
	"encoding/json"
	"fmt"
)

// Ref is a reference to an entity of type T. The zero value means "not set".
type Ref[T any] struct {
	id     string
	entity *T
}

// FromID builds an unresolved reference carrying only the target id.
func FromID[T any](id string) Ref[T] {
	return Ref[T]{id: id}
}

// Resolved builds a resolved reference carrying the target entity alongside
// its id.
func Resolved[T any](id string, entity T) Ref[T] {
	return Ref[T]{id: id, entity: &entity}
}

// ID returns the referenced entity's id ("" when the reference is not set).
// It is valid in both states: resolving never loses the id.
func (r Ref[T]) ID() string { return r.id }

// Entity returns the resolved entity. The boolean is false while the
// reference is unresolved or not set.
func (r Ref[T]) Entity() (T, bool) {
	if r.entity == nil {
		var zero T
		return zero, false
	}
	return *r.entity, true
}

// IsResolved reports whether the full entity has been populated.
func (r Ref[T]) IsResolved() bool { return r.entity != nil }

// IsZero reports whether the reference is not set at all.
func (r Ref[T]) IsZero() bool { return r.id == "" && r.entity == nil }

// IDPtr returns the id as a nullable value: nil when the reference is unset.
// This is the storage representation of optional reference fields.
func (r Ref[T]) IDPtr() *string {
	if r.IsZero() {
		return nil
	}
	id := r.id
	return &id
}

// FromIDPtr rebuilds an optional reference from its storage representation.
func FromIDPtr[T any](id *string) Ref[T] {
	if id == nil || *id == "" {
		return Ref[T]{}
	}
	return Ref[T]{id: *id}
}

// MarshalJSON writes the resolved entity when populated, the bare id string
// otherwise, and null for an unset reference.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.entity != nil {
		return json.Marshal(r.entity)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts an id string or null. Inbound payloads always carry
// references as ids; resolved entities only ever appear in responses.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ref[T]{}
		return nil
	}

	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("ref: references must be written as id strings: %w", err)
	}

	*r = Ref[T]{id: id}
	return nil
}
