// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package category

import (
	"github.com/jackc/pgx/v5"

	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/postgres"
)

// PostgresSchema maps the category collection onto the categories table.
func PostgresSchema() postgres.Schema[Category] {
	return postgres.Schema[Category]{
		Table: "categories",
		Columns: map[store.Field]postgres.Column{
			FieldID:        {Name: "id", Text: true},
			FieldName:      {Name: "name", Text: true},
			FieldMediaType: {Name: "media_type", Text: true},
			FieldOwner:     {Name: "owner_id", Text: true},
		},
		InsertColumns: []string{"id", "name", "media_type", "owner_id"},
		Args: func(c *Category) []any {
			return []any{c.ID, c.Name, string(c.MediaType), c.Owner.ID()}
		},
		Scan: func(row pgx.CollectableRow) (Category, error) {
			var (
				c         Category
				mediaType string
				ownerID   string
			)
			if err := row.Scan(&c.ID, &c.Name, &mediaType, &ownerID); err != nil {
				return Category{}, err
			}
			c.MediaType = MediaType(mediaType)
			c.Owner = ref.FromID[user.User](ownerID)
			return c, nil
		},
	}
}
