// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package group

import (
	"github.com/jackc/pgx/v5"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/postgres"
)

// PostgresSchema maps the group collection onto the groups table.
func PostgresSchema() postgres.Schema[Group] {
	return postgres.Schema[Group]{
		Table: "groups",
		Columns: map[store.Field]postgres.Column{
			FieldID:       {Name: "id", Text: true},
			FieldName:     {Name: "name", Text: true},
			FieldOwner:    {Name: "owner_id", Text: true},
			FieldCategory: {Name: "category_id", Text: true},
		},
		InsertColumns: []string{"id", "name", "owner_id", "category_id"},
		Args: func(g *Group) []any {
			return []any{g.ID, g.Name, g.Owner.ID(), g.Category.ID()}
		},
		Scan: func(row pgx.CollectableRow) (Group, error) {
			var (
				g          Group
				ownerID    string
				categoryID string
			)
			if err := row.Scan(&g.ID, &g.Name, &ownerID, &categoryID); err != nil {
				return Group{}, err
			}
			g.Owner = ref.FromID[user.User](ownerID)
			g.Category = ref.FromID[category.Category](categoryID)
			return g, nil
		},
	}
}
