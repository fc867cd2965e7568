// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package postgres

import (
	"fmt"
	"strings"

	"github.com/mediashelf/mediashelf/internal/store"
)

// compiler translates a predicate tree into a parameterized WHERE clause.
// One compiler instance accumulates the argument list for a single query.
type compiler struct {
	columns map[store.Field]Column
	args    []any
}

func newCompiler(columns map[store.Field]Column) *compiler {
	return &compiler{columns: columns}
}

// placeholder appends an argument and returns its $n placeholder.
func (c *compiler) placeholder(value any) string {
	c.args = append(c.args, value)
	return fmt.Sprintf("$%d", len(c.args))
}

func (c *compiler) column(field store.Field) (Column, error) {
	column, known := c.columns[field]
	if !known {
		return Column{}, fmt.Errorf("postgres: unknown filter field %q", field)
	}
	return column, nil
}

// compile renders the filter as SQL. A nil filter compiles to TRUE.
func (c *compiler) compile(filter store.Filter) (string, error) {
	if filter == nil {
		return "TRUE", nil
	}

	switch node := filter.(type) {
	case store.AllNode:
		return "TRUE", nil

	case store.EqNode:
		column, err := c.column(node.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", column.Name, c.placeholder(node.Value)), nil

	case store.EqFoldNode:
		column, err := c.column(node.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("lower(%s) = lower(%s)", column.Name, c.placeholder(node.Value)), nil

	case store.NeNode:
		column, err := c.column(node.Field)
		if err != nil {
			return "", err
		}
		// IS DISTINCT FROM keeps NULL rows in the result, matching the
		// memory engine where an unset field never equals an operand.
		return fmt.Sprintf("%s IS DISTINCT FROM %s", column.Name, c.placeholder(node.Value)), nil

	case store.InNode:
		column, err := c.column(node.Field)
		if err != nil {
			return "", err
		}
		if len(node.Values) == 0 {
			return "FALSE", nil
		}
		placeholders := make([]string, len(node.Values))
		for i, value := range node.Values {
			placeholders[i] = c.placeholder(value)
		}
		return fmt.Sprintf("%s IN (%s)", column.Name, strings.Join(placeholders, ", ")), nil

	case store.NotInNode:
		column, err := c.column(node.Field)
		if err != nil {
			return "", err
		}
		if len(node.Values) == 0 {
			return "TRUE", nil
		}
		placeholders := make([]string, len(node.Values))
		for i, value := range node.Values {
			placeholders[i] = c.placeholder(value)
		}
		// NOT IN would drop NULL rows; spelling it out keeps unset fields
		// matching, same as the memory engine.
		return fmt.Sprintf("(%s IS NULL OR %s NOT IN (%s))",
			column.Name, column.Name, strings.Join(placeholders, ", ")), nil

	case store.ContainsNode:
		column, err := c.column(node.Field)
		if err != nil {
			return "", err
		}
		pattern := "%" + escapeLike(node.Term) + "%"
		if column.Array {
			return fmt.Sprintf(
				"EXISTS (SELECT 1 FROM unnest(%s) AS element WHERE element ILIKE %s)",
				column.Name, c.placeholder(pattern),
			), nil
		}
		return fmt.Sprintf("%s ILIKE %s", column.Name, c.placeholder(pattern)), nil

	case store.ExistsNode:
		column, err := c.column(node.Field)
		if err != nil {
			return "", err
		}
		if node.Present {
			return fmt.Sprintf("%s IS NOT NULL", column.Name), nil
		}
		return fmt.Sprintf("%s IS NULL", column.Name), nil

	case store.AndNode:
		return c.compileChildren(node.Children, " AND ")

	case store.OrNode:
		return c.compileChildren(node.Children, " OR ")

	default:
		return "", fmt.Errorf("postgres: unsupported filter node %T", filter)
	}
}

func (c *compiler) compileChildren(children []store.Filter, junction string) (string, error) {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		sql, err := c.compile(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+sql+")")
	}
	return strings.Join(parts, junction), nil
}

// orderBy renders the sort specs. Text columns order on their lowercased
// value; NULLS FIRST ascending mirrors the memory engine, which sorts unset
// values before set ones.
func (c *compiler) orderBy(sorts []store.SortSpec) (string, error) {
	if len(sorts) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(sorts))
	for _, spec := range sorts {
		column, err := c.column(spec.Field)
		if err != nil {
			return "", err
		}

		expression := column.Name
		if column.Text {
			expression = fmt.Sprintf("lower(%s)", column.Name)
		}

		if spec.Direction == store.Descending {
			parts = append(parts, expression+" DESC NULLS LAST")
		} else {
			parts = append(parts, expression+" ASC NULLS FIRST")
		}
	}

	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// escapeLike neutralizes LIKE metacharacters so the term matches literally.
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
