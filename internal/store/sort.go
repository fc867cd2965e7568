// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package store

// Direction is the ordering direction of a single sort spec.
type Direction int

const (
	// Ascending orders smallest-first.
	Ascending Direction = iota
	// Descending orders largest-first.
	Descending
)

// SortSpec orders a result set by one field. A query takes a list of specs:
// the first spec dominates and every later spec breaks the ties left by the
// ones before it. String fields are compared case-insensitively with Unicode
// collation on every engine.
type SortSpec struct {
	Field     Field
	Direction Direction
}

// Asc builds an ascending sort spec.
func Asc(field Field) SortSpec { return SortSpec{Field: field, Direction: Ascending} }

// Desc builds a descending sort spec.
func Desc(field Field) SortSpec { return SortSpec{Field: field, Direction: Descending} }
