// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package user

import (
	"github.com/jackc/pgx/v5"

	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/postgres"
)

// PostgresSchema maps the user collection onto the users table.
func PostgresSchema() postgres.Schema[User] {
	return postgres.Schema[User]{
		Table: "users",
		Columns: map[store.Field]postgres.Column{
			FieldID:   {Name: "id", Text: true},
			FieldName: {Name: "name", Text: true},
		},
		InsertColumns: []string{"id", "name"},
		Args: func(u *User) []any {
			return []any{u.ID, u.Name}
		},
		Scan: func(row pgx.CollectableRow) (User, error) {
			var u User
			err := row.Scan(&u.ID, &u.Name)
			return u, err
		},
	}
}
