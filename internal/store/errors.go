// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package store

import "fmt"

// ErrUnknownField builds the error a [Schema].Apply returns for a field the
// entity type does not carry.
func ErrUnknownField(field Field) error {
	return fmt.Errorf("store: field %q cannot be assigned", field)
}

// ErrBadFieldValue builds the error a [Schema].Apply returns when the value
// type does not fit the field.
func ErrBadFieldValue(field Field, value any) error {
	return fmt.Errorf("store: value of type %T does not fit field %q", value, field)
}
