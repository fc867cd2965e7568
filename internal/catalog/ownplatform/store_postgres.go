// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package ownplatform

import (
	"github.com/jackc/pgx/v5"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/postgres"
)

// PostgresSchema maps the own platform collection onto the own_platforms table.
func PostgresSchema() postgres.Schema[OwnPlatform] {
	return postgres.Schema[OwnPlatform]{
		Table: "own_platforms",
		Columns: map[store.Field]postgres.Column{
			FieldID:       {Name: "id", Text: true},
			FieldName:     {Name: "name", Text: true},
			FieldColor:    {Name: "color", Text: true},
			FieldIcon:     {Name: "icon", Text: true},
			FieldOwner:    {Name: "owner_id", Text: true},
			FieldCategory: {Name: "category_id", Text: true},
		},
		InsertColumns: []string{"id", "name", "color", "icon", "owner_id", "category_id"},
		Args: func(p *OwnPlatform) []any {
			return []any{p.ID, p.Name, p.Color, p.Icon, p.Owner.ID(), p.Category.ID()}
		},
		Scan: func(row pgx.CollectableRow) (OwnPlatform, error) {
			var (
				p          OwnPlatform
				ownerID    string
				categoryID string
			)
			if err := row.Scan(&p.ID, &p.Name, &p.Color, &p.Icon, &ownerID, &categoryID); err != nil {
				return OwnPlatform{}, err
			}
			p.Owner = ref.FromID[user.User](ownerID)
			p.Category = ref.FromID[category.Category](categoryID)
			return p, nil
		},
	}
}
