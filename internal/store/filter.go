// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package store defines the storage abstraction of the persistence core.

It is deliberately engine-agnostic: conditions are expressed as a tagged
predicate tree built with explicit combinators, sorting as an ordered list of
field specs, and every backend (memory, postgres) interprets the same trees.
Entity semantics never leak into this package; controllers compose predicates,
the [QueryHelper] enforces the strictness contracts (find-one cardinality,
uniqueness pre-checks, update-must-match), and engines only translate.
*/
package store

// Field names a logical document field inside a collection. Engines map it
// to their physical representation (struct accessor, SQL column).
type Field string

// Filter is a node of the predicate tree. The interface is sealed: engines
// consume the exported node types via type switch, but only this package's
// combinators can produce them.
type Filter interface {
	isFilter()
}

// AllNode matches every record. It is the meaning of "no conditions".
type AllNode struct{}

// EqNode matches records whose field equals Value.
type EqNode struct {
	Field Field
	Value any
}

// EqFoldNode matches records whose string field equals Value under Unicode
// case folding (case-insensitive exact match).
type EqFoldNode struct {
	Field Field
	Value string
}

// NeNode matches records whose field does not equal Value.
type NeNode struct {
	Field Field
	Value any
}

// InNode matches records whose field equals any of Values.
type InNode struct {
	Field  Field
	Values []any
}

// NotInNode matches records whose field equals none of Values.
type NotInNode struct {
	Field  Field
	Values []any
}

// ContainsNode matches records whose string field contains Term as a literal
// substring, case-insensitively. Engines must treat Term as text, never as a
// pattern: regex/LIKE metacharacters are escaped during translation.
type ContainsNode struct {
	Field Field
	Term  string
}

// ExistsNode matches records whose field is set (Present true) or unset
// (Present false). A field is unset when its value is a nil reference.
type ExistsNode struct {
	Field   Field
	Present bool
}

// AndNode matches records satisfying every child predicate.
type AndNode struct {
	Children []Filter
}

// OrNode matches records satisfying at least one child predicate.
type OrNode struct {
	Children []Filter
}

func (AllNode) isFilter()      {}
func (EqNode) isFilter()       {}
func (EqFoldNode) isFilter()   {}
func (NeNode) isFilter()       {}
func (InNode) isFilter()       {}
func (NotInNode) isFilter()    {}
func (ContainsNode) isFilter() {}
func (ExistsNode) isFilter()   {}
func (AndNode) isFilter()      {}
func (OrNode) isFilter()       {}

// # Combinators

// All returns the match-everything predicate.
func All() Filter { return AllNode{} }

// Eq matches field == value.
func Eq(field Field, value any) Filter { return EqNode{Field: field, Value: value} }

// EqFold matches a string field case-insensitively against value.
func EqFold(field Field, value string) Filter { return EqFoldNode{Field: field, Value: value} }

// Ne matches field != value.
func Ne(field Field, value any) Filter { return NeNode{Field: field, Value: value} }

// In matches field ∈ values. An empty value set matches nothing.
func In(field Field, values ...any) Filter { return InNode{Field: field, Values: values} }

// InStrings is [In] over a string slice, the common case for id lists.
func InStrings(field Field, values []string) Filter {
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return InNode{Field: field, Values: anyValues}
}

// NotIn matches field ∉ values. An empty value set matches everything.
func NotIn(field Field, values ...any) Filter { return NotInNode{Field: field, Values: values} }

// Contains matches a string field containing term as a literal,
// case-insensitive substring.
func Contains(field Field, term string) Filter { return ContainsNode{Field: field, Term: term} }

// Exists matches a reference field being set (present=true) or unset.
func Exists(field Field, present bool) Filter { return ExistsNode{Field: field, Present: present} }

// And composes predicates conjunctively. Zero children collapse to [All];
// a single child is returned unwrapped.
func And(children ...Filter) Filter {
	flat := compact(children)
	switch len(flat) {
	case 0:
		return AllNode{}
	case 1:
		return flat[0]
	}
	return AndNode{Children: flat}
}

// Or composes predicates disjunctively. Zero children collapse to [All];
// a single child is returned unwrapped.
func Or(children ...Filter) Filter {
	flat := compact(children)
	switch len(flat) {
	case 0:
		return AllNode{}
	case 1:
		return flat[0]
	}
	return OrNode{Children: flat}
}

// compact drops nil and All nodes so engines never see vacuous branches.
func compact(children []Filter) []Filter {
	out := make([]Filter, 0, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		if _, isAll := child.(AllNode); isAll {
			continue
		}
		out = append(out, child)
	}
	return out
}
