// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package postgres implements the store engine on PostgreSQL via pgx.

Each logical collection maps to one table. The engine is a translator: the
same predicate trees the memory engine interprets are compiled here into
parameterized WHERE clauses, and sort specs into ORDER BY lists with
case-insensitive text ordering. No entity semantics live in this package —
per-entity column maps and scan functions are declared next to the entities
themselves, mirroring how repositories declare their SQL in dedicated files.
*/
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediashelf/mediashelf/internal/store"
)

// Column describes one physical column backing a logical field.
type Column struct {
	// Name is the SQL column name.
	Name string
	// Text marks string columns, which sort and match case-insensitively.
	Text bool
	// Array marks text-array columns (Contains searches their elements).
	Array bool
}

// Schema declares the SQL mapping for one entity type.
type Schema[T any] struct {
	// Table is the fully qualified table name.
	Table string

	// Columns maps logical fields to physical columns.
	Columns map[store.Field]Column

	// InsertColumns is the ordered column list written by Insert/Update.
	InsertColumns []string

	// Args returns the values for InsertColumns, in the same order.
	Args func(*T) []any

	// Scan reads one row selected with InsertColumns into an entity.
	Scan func(row pgx.CollectableRow) (T, error)
}

// Collection is a PostgreSQL-backed [store.Collection].
type Collection[T any] struct {
	pool   *pgxpool.Pool
	schema Schema[T]
}

// NewCollection binds a schema to a connection pool.
func NewCollection[T any](pool *pgxpool.Pool, schema Schema[T]) *Collection[T] {
	return &Collection[T]{pool: pool, schema: schema}
}

// Find compiles the predicate tree and sort specs into a SELECT.
func (collection *Collection[T]) Find(ctx context.Context, filter store.Filter, sorts []store.SortSpec) ([]T, error) {
	compiler := newCompiler(collection.schema.Columns)

	where, err := compiler.compile(filter)
	if err != nil {
		return nil, err
	}

	orderBy, err := compiler.orderBy(sorts)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s%s`,
		strings.Join(collection.schema.InsertColumns, ", "),
		collection.schema.Table,
		where,
		orderBy,
	)

	rows, err := collection.pool.Query(ctx, query, compiler.args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: find in %s: %w", collection.schema.Table, err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, collection.schema.Scan)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan %s: %w", collection.schema.Table, err)
	}

	return items, nil
}

// Insert writes a new row.
func (collection *Collection[T]) Insert(ctx context.Context, item T) error {
	placeholders := make([]string, len(collection.schema.InsertColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		collection.schema.Table,
		strings.Join(collection.schema.InsertColumns, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err := collection.pool.Exec(ctx, query, collection.schema.Args(&item)...); err != nil {
		return fmt.Errorf("postgres: insert into %s: %w", collection.schema.Table, err)
	}
	return nil
}

// Update replaces the row sharing the entity's id.
func (collection *Collection[T]) Update(ctx context.Context, item T) (int64, error) {
	args := collection.schema.Args(&item)

	assignments := make([]string, 0, len(collection.schema.InsertColumns)-1)
	// Column 0 is the id by convention; it selects the row instead of being assigned.
	for i, column := range collection.schema.InsertColumns[1:] {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+2))
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`,
		collection.schema.Table,
		strings.Join(assignments, ", "),
		collection.schema.InsertColumns[0],
	)

	tag, err := collection.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("postgres: update %s: %w", collection.schema.Table, err)
	}
	return tag.RowsAffected(), nil
}

// UpdateMany applies a partial update to every row matching the filter.
func (collection *Collection[T]) UpdateMany(ctx context.Context, set store.Update, filter store.Filter) (int64, error) {
	compiler := newCompiler(collection.schema.Columns)

	assignments := make([]string, 0, len(set))
	for field, value := range set {
		column, known := collection.schema.Columns[field]
		if !known {
			return 0, fmt.Errorf("postgres: unknown field %q in %s", field, collection.schema.Table)
		}
		assignments = append(assignments, fmt.Sprintf("%s = %s", column.Name, compiler.placeholder(value)))
	}

	where, err := compiler.compile(filter)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s`,
		collection.schema.Table,
		strings.Join(assignments, ", "),
		where,
	)

	tag, err := collection.pool.Exec(ctx, query, compiler.args...)
	if err != nil {
		return 0, fmt.Errorf("postgres: bulk update %s: %w", collection.schema.Table, err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes every row matching the filter.
func (collection *Collection[T]) Delete(ctx context.Context, filter store.Filter) (int64, error) {
	compiler := newCompiler(collection.schema.Columns)

	where, err := compiler.compile(filter)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s`, collection.schema.Table, where)

	tag, err := collection.pool.Exec(ctx, query, compiler.args...)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete from %s: %w", collection.schema.Table, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByID removes the row with the given id.
func (collection *Collection[T]) DeleteByID(ctx context.Context, id string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		collection.schema.Table,
		collection.schema.InsertColumns[0],
	)

	tag, err := collection.pool.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete from %s: %w", collection.schema.Table, err)
	}
	return tag.RowsAffected(), nil
}
