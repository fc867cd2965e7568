// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package memory implements the store engine on plain process memory.

It is the reference interpreter for the predicate tree: every node is
evaluated directly against entity values, string sorts use ICU-style
collation, and records are cloned on the way in and out so callers can never
mutate stored state through a returned value. The engine backs the whole test
suite and doubles as a zero-dependency runtime mode.
*/
package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mediashelf/mediashelf/internal/store"
)

// Collection is an in-memory [store.Collection] for one entity type.
// Records are kept in insertion order so unsorted finds are deterministic.
type Collection[T any] struct {
	mu       sync.RWMutex
	schema   store.Schema[T]
	clone    func(T) T
	items    []T
	position map[string]int
	collator *collate.Collator
}

// NewCollection builds an empty collection. clone must return an independent
// copy of a record (deep enough to cover slice fields); a nil clone falls
// back to plain value copy, which is only safe for entities without slices.
func NewCollection[T any](schema store.Schema[T], clone func(T) T) *Collection[T] {
	if clone == nil {
		clone = func(item T) T { return item }
	}
	return &Collection[T]{
		schema:   schema,
		clone:    clone,
		position: make(map[string]int),
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
}

// Find evaluates the predicate tree against every record.
func (collection *Collection[T]) Find(ctx context.Context, filter store.Filter, sorts []store.SortSpec) ([]T, error) {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	matched := make([]T, 0)
	for i := range collection.items {
		ok, err := collection.matches(&collection.items[i], filter)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, collection.clone(collection.items[i]))
		}
	}

	if len(sorts) > 0 {
		if err := collection.sortItems(matched, sorts); err != nil {
			return nil, err
		}
	}

	return matched, nil
}

// Insert stores a new record. The id must be assigned and unused.
func (collection *Collection[T]) Insert(ctx context.Context, item T) error {
	id := collection.schema.ID(&item)
	if id == "" {
		return fmt.Errorf("memory: insert into %s without an id", collection.schema.Collection)
	}

	collection.mu.Lock()
	defer collection.mu.Unlock()

	if _, exists := collection.position[id]; exists {
		return fmt.Errorf("memory: duplicate id %q in %s", id, collection.schema.Collection)
	}

	collection.position[id] = len(collection.items)
	collection.items = append(collection.items, collection.clone(item))
	return nil
}

// Update replaces the stored record with the same id.
func (collection *Collection[T]) Update(ctx context.Context, item T) (int64, error) {
	id := collection.schema.ID(&item)

	collection.mu.Lock()
	defer collection.mu.Unlock()

	index, exists := collection.position[id]
	if !exists {
		return 0, nil
	}

	collection.items[index] = collection.clone(item)
	return 1, nil
}

// UpdateMany applies the partial update to every matching record.
func (collection *Collection[T]) UpdateMany(ctx context.Context, set store.Update, filter store.Filter) (int64, error) {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	var matched int64
	for i := range collection.items {
		ok, err := collection.matches(&collection.items[i], filter)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}

		for field, value := range set {
			if err := collection.schema.Apply(&collection.items[i], field, value); err != nil {
				return 0, fmt.Errorf("memory: update %s: %w", collection.schema.Collection, err)
			}
		}
		matched++
	}

	return matched, nil
}

// Delete removes every matching record.
func (collection *Collection[T]) Delete(ctx context.Context, filter store.Filter) (int64, error) {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	kept := collection.items[:0:0]
	var removed int64
	for i := range collection.items {
		ok, err := collection.matches(&collection.items[i], filter)
		if err != nil {
			return 0, err
		}
		if ok {
			removed++
			continue
		}
		kept = append(kept, collection.items[i])
	}

	collection.items = kept
	collection.reindex()
	return removed, nil
}

// DeleteByID removes the record with the given id, if present.
func (collection *Collection[T]) DeleteByID(ctx context.Context, id string) (int64, error) {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	index, exists := collection.position[id]
	if !exists {
		return 0, nil
	}

	collection.items = append(collection.items[:index], collection.items[index+1:]...)
	collection.reindex()
	return 1, nil
}

func (collection *Collection[T]) reindex() {
	collection.position = make(map[string]int, len(collection.items))
	for i := range collection.items {
		collection.position[collection.schema.ID(&collection.items[i])] = i
	}
}

// # Predicate Evaluation

func (collection *Collection[T]) matches(item *T, filter store.Filter) (bool, error) {
	if filter == nil {
		return true, nil
	}

	switch node := filter.(type) {
	case store.AllNode:
		return true, nil

	case store.EqNode:
		value, err := collection.value(item, node.Field)
		if err != nil {
			return false, err
		}
		return equal(value, node.Value), nil

	case store.EqFoldNode:
		value, err := collection.value(item, node.Field)
		if err != nil {
			return false, err
		}
		text, isText := asString(value)
		return isText && strings.EqualFold(text, node.Value), nil

	case store.NeNode:
		value, err := collection.value(item, node.Field)
		if err != nil {
			return false, err
		}
		return !equal(value, node.Value), nil

	case store.InNode:
		value, err := collection.value(item, node.Field)
		if err != nil {
			return false, err
		}
		for _, candidate := range node.Values {
			if equal(value, candidate) {
				return true, nil
			}
		}
		return false, nil

	case store.NotInNode:
		value, err := collection.value(item, node.Field)
		if err != nil {
			return false, err
		}
		for _, candidate := range node.Values {
			if equal(value, candidate) {
				return false, nil
			}
		}
		return true, nil

	case store.ContainsNode:
		value, err := collection.value(item, node.Field)
		if err != nil {
			return false, err
		}
		// The term is literal text: quote it before compiling so regex
		// metacharacters cannot change the match semantics.
		pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(node.Term))
		if err != nil {
			return false, fmt.Errorf("memory: bad contains term %q: %w", node.Term, err)
		}
		switch text := value.(type) {
		case string:
			return pattern.MatchString(text), nil
		case *string:
			return text != nil && pattern.MatchString(*text), nil
		case []string:
			for _, element := range text {
				if pattern.MatchString(element) {
					return true, nil
				}
			}
			return false, nil
		default:
			return false, nil
		}

	case store.ExistsNode:
		value, err := collection.value(item, node.Field)
		if err != nil {
			return false, err
		}
		return isSet(value) == node.Present, nil

	case store.AndNode:
		for _, child := range node.Children {
			ok, err := collection.matches(item, child)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case store.OrNode:
		for _, child := range node.Children {
			ok, err := collection.matches(item, child)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("memory: unsupported filter node %T", filter)
	}
}

func (collection *Collection[T]) value(item *T, field store.Field) (any, error) {
	value, known := collection.schema.Value(item, field)
	if !known {
		return nil, fmt.Errorf("memory: unknown field %q in %s", field, collection.schema.Collection)
	}
	return value, nil
}

// equal compares a stored value against a filter operand. Nil-able reference
// values (unset = nil) never equal a concrete operand, and time values use
// [time.Time.Equal] rather than struct identity.
func equal(stored, operand any) bool {
	stored = deref(stored)
	operand = deref(operand)

	if stored == nil || operand == nil {
		return stored == nil && operand == nil
	}

	if storedTime, ok := stored.(time.Time); ok {
		operandTime, ok := operand.(time.Time)
		return ok && storedTime.Equal(operandTime)
	}

	return stored == operand
}

func deref(value any) any {
	switch typed := value.(type) {
	case *string:
		if typed == nil {
			return nil
		}
		return *typed
	case *int:
		if typed == nil {
			return nil
		}
		return *typed
	case *time.Time:
		if typed == nil {
			return nil
		}
		return *typed
	case *bool:
		if typed == nil {
			return nil
		}
		return *typed
	default:
		return value
	}
}

func asString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case *string:
		if typed == nil {
			return "", false
		}
		return *typed, true
	default:
		return "", false
	}
}

// isSet reports whether a reference value is present. Unset is modeled as a
// typed nil pointer or an empty string id.
func isSet(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case *string:
		return typed != nil && *typed != ""
	case *time.Time:
		return typed != nil
	case string:
		return typed != ""
	default:
		return true
	}
}

// # Sorting

func (collection *Collection[T]) sortItems(items []T, sorts []store.SortSpec) error {
	var sortErr error

	sort.SliceStable(items, func(i, j int) bool {
		for _, spec := range sorts {
			left, known := collection.schema.Value(&items[i], spec.Field)
			if !known {
				sortErr = fmt.Errorf("memory: unknown sort field %q in %s", spec.Field, collection.schema.Collection)
				return false
			}
			right, _ := collection.schema.Value(&items[j], spec.Field)

			comparison, err := collection.compare(left, right)
			if err != nil {
				sortErr = err
				return false
			}
			if comparison == 0 {
				continue
			}
			if spec.Direction == store.Descending {
				return comparison > 0
			}
			return comparison < 0
		}
		return false
	})

	return sortErr
}

// compare orders two field values. Unset values sort before set ones so that
// ascending order surfaces records missing the field first.
func (collection *Collection[T]) compare(left, right any) (int, error) {
	left = deref(left)
	right = deref(right)

	if left == nil || right == nil {
		switch {
		case left == nil && right == nil:
			return 0, nil
		case left == nil:
			return -1, nil
		default:
			return 1, nil
		}
	}

	switch leftValue := left.(type) {
	case string:
		rightValue, ok := right.(string)
		if !ok {
			return 0, fmt.Errorf("memory: mixed sort value types %T / %T", left, right)
		}
		return collection.collator.CompareString(leftValue, rightValue), nil

	case int:
		rightValue, ok := right.(int)
		if !ok {
			return 0, fmt.Errorf("memory: mixed sort value types %T / %T", left, right)
		}
		return compareOrdered(leftValue, rightValue), nil

	case int64:
		rightValue, ok := right.(int64)
		if !ok {
			return 0, fmt.Errorf("memory: mixed sort value types %T / %T", left, right)
		}
		return compareOrdered(leftValue, rightValue), nil

	case float64:
		rightValue, ok := right.(float64)
		if !ok {
			return 0, fmt.Errorf("memory: mixed sort value types %T / %T", left, right)
		}
		return compareOrdered(leftValue, rightValue), nil

	case bool:
		rightValue, ok := right.(bool)
		if !ok {
			return 0, fmt.Errorf("memory: mixed sort value types %T / %T", left, right)
		}
		switch {
		case leftValue == rightValue:
			return 0, nil
		case !leftValue:
			return -1, nil
		default:
			return 1, nil
		}

	case time.Time:
		rightValue, ok := right.(time.Time)
		if !ok {
			return 0, fmt.Errorf("memory: mixed sort value types %T / %T", left, right)
		}
		return leftValue.Compare(rightValue), nil

	default:
		return 0, fmt.Errorf("memory: unsortable value type %T", left)
	}
}

func compareOrdered[T int | int64 | float64](left, right T) int {
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}
