// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package auth

import (
	"github.com/jackc/pgx/v5"

	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/postgres"
)

// PostgresSchema maps the credential collection onto the credentials table.
func PostgresSchema() postgres.Schema[Credential] {
	return postgres.Schema[Credential]{
		Table: "credentials",
		Columns: map[store.Field]postgres.Column{
			FieldID:           {Name: "id", Text: true},
			FieldUserID:       {Name: "user_id", Text: true},
			FieldUsername:     {Name: "username", Text: true},
			FieldPasswordHash: {Name: "password_hash", Text: true},
		},
		InsertColumns: []string{"id", "user_id", "username", "password_hash"},
		Args: func(c *Credential) []any {
			return []any{c.ID, c.UserID, c.Username, c.PasswordHash}
		},
		Scan: func(row pgx.CollectableRow) (Credential, error) {
			var c Credential
			err := row.Scan(&c.ID, &c.UserID, &c.Username, &c.PasswordHash)
			return c, err
		},
	}
}
