// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package media

import (
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/group"
	"github.com/mediashelf/mediashelf/internal/catalog/ownplatform"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/postgres"
)

// Each subtype gets its own table sharing the core column block, so the
// per-subtype columns stay NOT NULL-able and no sparse supertable is needed.

func corePostgresColumns() map[store.Field]postgres.Column {
	return map[store.Field]postgres.Column{
		FieldID:              {Name: "id", Text: true},
		FieldName:            {Name: "name", Text: true},
		FieldOwner:           {Name: "owner_id", Text: true},
		FieldCategory:        {Name: "category_id", Text: true},
		FieldGroup:           {Name: "group_id", Text: true},
		FieldOrderInGroup:    {Name: "order_in_group"},
		FieldOwnPlatform:     {Name: "own_platform_id", Text: true},
		FieldImportance:      {Name: "importance"},
		FieldGenres:          {Name: "genres", Text: true, Array: true},
		FieldDescription:     {Name: "description", Text: true},
		FieldUserComment:     {Name: "user_comment", Text: true},
		FieldCompletedLastOn: {Name: "completed_last_on"},
		FieldActive:          {Name: "active"},
		FieldMarkedAsRedo:    {Name: "marked_as_redo"},
		FieldReleaseDate:     {Name: "release_date"},
		FieldCatalogID:       {Name: "catalog_id", Text: true},
		FieldImageURL:        {Name: "image_url", Text: true},
	}
}

func coreInsertColumns() []string {
	return []string{
		"id", "name", "owner_id", "category_id",
		"group_id", "order_in_group", "own_platform_id",
		"importance", "genres", "description", "user_comment",
		"completed_on", "completed_last_on",
		"active", "marked_as_redo",
		"release_date", "catalog_id", "image_url",
	}
}

func coreArgs(c *Core) []any {
	return []any{
		c.ID, c.Name, c.Owner.ID(), c.Category.ID(),
		c.Group.IDPtr(), c.OrderInGroup, c.OwnPlatform.IDPtr(),
		int(c.Importance), c.Genres, c.Description, c.UserComment,
		c.CompletedOn, c.CompletedLastOn,
		c.Active, c.MarkedAsRedo,
		c.ReleaseDate, c.CatalogID, c.ImageURL,
	}
}

// coreRow buffers the scanned core columns; subtype scans append their own
// targets behind it.
type coreRow struct {
	id              string
	name            string
	ownerID         string
	categoryID      string
	groupID         *string
	orderInGroup    int
	ownPlatformID   *string
	importance      int
	genres          []string
	description     string
	userComment     string
	completedOn     []time.Time
	completedLastOn *time.Time
	active          bool
	markedAsRedo    bool
	releaseDate     *time.Time
	catalogID       string
	imageURL        string
}

func (r *coreRow) targets() []any {
	return []any{
		&r.id, &r.name, &r.ownerID, &r.categoryID,
		&r.groupID, &r.orderInGroup, &r.ownPlatformID,
		&r.importance, &r.genres, &r.description, &r.userComment,
		&r.completedOn, &r.completedLastOn,
		&r.active, &r.markedAsRedo,
		&r.releaseDate, &r.catalogID, &r.imageURL,
	}
}

func (r *coreRow) core() Core {
	return Core{
		ID:              r.id,
		Name:            r.name,
		Owner:           ref.FromID[user.User](r.ownerID),
		Category:        ref.FromID[category.Category](r.categoryID),
		Group:           ref.FromIDPtr[group.Group](r.groupID),
		OrderInGroup:    r.orderInGroup,
		OwnPlatform:     ref.FromIDPtr[ownplatform.OwnPlatform](r.ownPlatformID),
		Importance:      Importance(r.importance),
		Genres:          r.genres,
		Description:     r.description,
		UserComment:     r.userComment,
		CompletedOn:     r.completedOn,
		CompletedLastOn: r.completedLastOn,
		Active:          r.active,
		MarkedAsRedo:    r.markedAsRedo,
		ReleaseDate:     r.releaseDate,
		CatalogID:       r.catalogID,
		ImageURL:        r.imageURL,
	}
}

// BookPostgresSchema maps the books collection onto the media_books table.
func BookPostgresSchema() postgres.Schema[Book] {
	columns := corePostgresColumns()
	columns[FieldAuthors] = postgres.Column{Name: "authors", Text: true, Array: true}
	columns[FieldPagesCount] = postgres.Column{Name: "pages_count"}

	return postgres.Schema[Book]{
		Table:         "media_books",
		Columns:       columns,
		InsertColumns: append(coreInsertColumns(), "authors", "pages_count"),
		Args: func(b *Book) []any {
			return append(coreArgs(&b.Core), b.Authors, b.PagesCount)
		},
		Scan: func(row pgx.CollectableRow) (Book, error) {
			var (
				r          coreRow
				authors    []string
				pagesCount int
			)
			if err := row.Scan(append(r.targets(), &authors, &pagesCount)...); err != nil {
				return Book{}, err
			}
			return Book{Core: r.core(), Authors: authors, PagesCount: pagesCount}, nil
		},
	}
}

// MoviePostgresSchema maps the movies collection onto the media_movies table.
func MoviePostgresSchema() postgres.Schema[Movie] {
	columns := corePostgresColumns()
	columns[FieldDirectors] = postgres.Column{Name: "directors", Text: true, Array: true}
	columns[FieldDurationMin] = postgres.Column{Name: "duration_min"}

	return postgres.Schema[Movie]{
		Table:         "media_movies",
		Columns:       columns,
		InsertColumns: append(coreInsertColumns(), "directors", "duration_min"),
		Args: func(m *Movie) []any {
			return append(coreArgs(&m.Core), m.Directors, m.DurationMin)
		},
		Scan: func(row pgx.CollectableRow) (Movie, error) {
			var (
				r           coreRow
				directors   []string
				durationMin int
			)
			if err := row.Scan(append(r.targets(), &directors, &durationMin)...); err != nil {
				return Movie{}, err
			}
			return Movie{Core: r.core(), Directors: directors, DurationMin: durationMin}, nil
		},
	}
}

// TvShowPostgresSchema maps the TV show collection onto the media_tv_shows
// table.
func TvShowPostgresSchema() postgres.Schema[TvShow] {
	columns := corePostgresColumns()
	columns[FieldCreators] = postgres.Column{Name: "creators", Text: true, Array: true}
	columns[FieldEpisodeRuntimeMin] = postgres.Column{Name: "average_episode_runtime_min"}
	columns[FieldEpisodesNumber] = postgres.Column{Name: "episodes_number"}
	columns[FieldSeasonsNumber] = postgres.Column{Name: "seasons_number"}
	columns[FieldInProduction] = postgres.Column{Name: "in_production"}
	columns[FieldNextEpisodeAirDate] = postgres.Column{Name: "next_episode_air_date"}

	return postgres.Schema[TvShow]{
		Table:   "media_tv_shows",
		Columns: columns,
		InsertColumns: append(coreInsertColumns(),
			"creators", "average_episode_runtime_min", "episodes_number",
			"seasons_number", "in_production", "next_episode_air_date",
		),
		Args: func(s *TvShow) []any {
			return append(coreArgs(&s.Core),
				s.Creators, s.AverageEpisodeRuntimeMin, s.EpisodesNumber,
				s.SeasonsNumber, s.InProduction, s.NextEpisodeAirDate,
			)
		},
		Scan: func(row pgx.CollectableRow) (TvShow, error) {
			var (
				r                  coreRow
				creators           []string
				episodeRuntimeMin  int
				episodesNumber     int
				seasonsNumber      int
				inProduction       bool
				nextEpisodeAirDate *time.Time
			)
			targets := append(r.targets(),
				&creators, &episodeRuntimeMin, &episodesNumber,
				&seasonsNumber, &inProduction, &nextEpisodeAirDate,
			)
			if err := row.Scan(targets...); err != nil {
				return TvShow{}, err
			}
			return TvShow{
				Core:                     r.core(),
				Creators:                 creators,
				AverageEpisodeRuntimeMin: episodeRuntimeMin,
				EpisodesNumber:           episodesNumber,
				SeasonsNumber:            seasonsNumber,
				InProduction:             inProduction,
				NextEpisodeAirDate:       nextEpisodeAirDate,
			}, nil
		},
	}
}

// VideogamePostgresSchema maps the videogame collection onto the
// media_videogames table.
func VideogamePostgresSchema() postgres.Schema[Videogame] {
	columns := corePostgresColumns()
	columns[FieldDevelopers] = postgres.Column{Name: "developers", Text: true, Array: true}
	columns[FieldPublishers] = postgres.Column{Name: "publishers", Text: true, Array: true}
	columns[FieldPlatforms] = postgres.Column{Name: "platforms", Text: true, Array: true}
	columns[FieldAverageLengthHours] = postgres.Column{Name: "average_length_hours"}

	return postgres.Schema[Videogame]{
		Table:   "media_videogames",
		Columns: columns,
		InsertColumns: append(coreInsertColumns(),
			"developers", "publishers", "platforms", "average_length_hours",
		),
		Args: func(v *Videogame) []any {
			return append(coreArgs(&v.Core),
				v.Developers, v.Publishers, v.Platforms, v.AverageLengthHours,
			)
		},
		Scan: func(row pgx.CollectableRow) (Videogame, error) {
			var (
				r                  coreRow
				developers         []string
				publishers         []string
				platforms          []string
				averageLengthHours float64
			)
			targets := append(r.targets(),
				&developers, &publishers, &platforms, &averageLengthHours,
			)
			if err := row.Scan(targets...); err != nil {
				return Videogame{}, err
			}
			return Videogame{
				Core:               r.core(),
				Developers:         developers,
				Publishers:         publishers,
				Platforms:          platforms,
				AverageLengthHours: averageLengthHours,
			}, nil
		},
	}
}
