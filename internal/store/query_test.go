// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/memory"
)

// track is a minimal throwaway entity exercising every schema capability:
// strings, an int, and a nullable reference field.
type track struct {
	ID     string
	Title  string
	Artist string
	Plays  int
	Label  *string
}

const (
	fieldID     store.Field = "id"
	fieldTitle  store.Field = "title"
	fieldArtist store.Field = "artist"
	fieldPlays  store.Field = "plays"
	fieldLabel  store.Field = "label"
)

func trackSchema() store.Schema[track] {
	return store.Schema[track]{
		Collection: "tracks",
		ID:         func(t *track) string { return t.ID },
		SetID:      func(t *track, id string) { t.ID = id },
		Value: func(t *track, field store.Field) (any, bool) {
			switch field {
			case fieldID:
				return t.ID, true
			case fieldTitle:
				return t.Title, true
			case fieldArtist:
				return t.Artist, true
			case fieldPlays:
				return t.Plays, true
			case fieldLabel:
				return t.Label, true
			default:
				return nil, false
			}
		},
		Apply: func(t *track, field store.Field, value any) error {
			switch field {
			case fieldArtist:
				artist, ok := value.(string)
				if !ok {
					return store.ErrBadFieldValue(field, value)
				}
				t.Artist = artist
				return nil
			case fieldLabel:
				switch typed := value.(type) {
				case nil:
					t.Label = nil
				case *string:
					t.Label = typed
				case string:
					t.Label = &typed
				default:
					return store.ErrBadFieldValue(field, value)
				}
				return nil
			default:
				return store.ErrUnknownField(field)
			}
		},
	}
}

func newTrackHelper() *store.QueryHelper[track] {
	return store.NewQueryHelper(memory.NewCollection(trackSchema(), nil), trackSchema(), "Track")
}

func seedTracks(t *testing.T, helper *store.QueryHelper[track], tracks ...track) {
	t.Helper()
	for i := range tracks {
		require.NoError(t, helper.Save(context.Background(), &tracks[i]))
	}
}

func label(name string) *string { return &name }

/*
TestQueryHelper_Save covers the insert/update split: a missing id inserts
under a fresh generated id, a set id updates, and updating an id nobody holds
is refused.
*/
func TestQueryHelper_Save(t *testing.T) {
	ctx := context.Background()
	helper := newTrackHelper()

	fresh := track{Title: "Holstentor", Artist: "Norden"}
	require.NoError(t, helper.Save(ctx, &fresh))
	assert.NotEmpty(t, fresh.ID, "insert must assign an id")

	fresh.Plays = 7
	require.NoError(t, helper.Save(ctx, &fresh))

	stored, err := helper.FindOne(ctx, store.Eq(fieldID, fresh.ID))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 7, stored.Plays)

	ghost := track{ID: "does-not-exist", Title: "Ghost"}
	err = helper.Save(ctx, &ghost)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSave, apperr.As(err).Code)
}

/*
TestQueryHelper_FindOne checks the cardinality contract: zero matches is a
nil result, more than one is an error instead of an arbitrary pick.
*/
func TestQueryHelper_FindOne(t *testing.T) {
	ctx := context.Background()
	helper := newTrackHelper()
	seedTracks(t, helper,
		track{Title: "Alpha", Artist: "Duo"},
		track{Title: "Beta", Artist: "Duo"},
	)

	missing, err := helper.FindOne(ctx, store.Eq(fieldTitle, "Gamma"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	single, err := helper.FindOne(ctx, store.Eq(fieldTitle, "Alpha"))
	require.NoError(t, err)
	require.NotNil(t, single)
	assert.Equal(t, "Alpha", single.Title)

	_, err = helper.FindOne(ctx, store.Eq(fieldArtist, "Duo"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeFind, apperr.As(err).Code)
}

/*
TestQueryHelper_CheckUniquenessAndSave verifies that duplicates are reported
with the conflicting ids before anything is written, and that an entity
re-saving its own unique values is not its own duplicate.
*/
func TestQueryHelper_CheckUniquenessAndSave(t *testing.T) {
	ctx := context.Background()
	helper := newTrackHelper()

	first := track{Title: "Unique"}
	require.NoError(t, helper.CheckUniquenessAndSave(ctx, &first, store.EqFold(fieldTitle, first.Title)))

	duplicate := track{Title: "UNIQUE"}
	err := helper.CheckUniquenessAndSave(ctx, &duplicate, store.EqFold(fieldTitle, duplicate.Title))
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeSaveUniqueness, ae.Code)
	assert.Equal(t, []string{first.ID}, ae.ConflictingIDs)
	assert.Empty(t, duplicate.ID, "a refused insert must not keep a generated id")

	// Same record, same title: an update is not a duplicate of itself.
	first.Plays = 1
	require.NoError(t, helper.CheckUniquenessAndSave(ctx, &first, store.EqFold(fieldTitle, first.Title)))
}

/*
TestQueryHelper_Deletes contrasts the two delete flavors: filter deletes
treat zero matches as normal, by-id deletes treat them as an error.
*/
func TestQueryHelper_Deletes(t *testing.T) {
	ctx := context.Background()
	helper := newTrackHelper()
	seedTracks(t, helper, track{Title: "Keep"}, track{Title: "Drop"})

	removed, err := helper.Delete(ctx, store.Eq(fieldTitle, "Nothing"))
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = helper.Delete(ctx, store.Eq(fieldTitle, "Drop"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	err = helper.DeleteByID(ctx, "unknown-id")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDelete, apperr.As(err).Code)
}

/*
TestQueryHelper_UpdateSelectiveMany applies a partial update to a matching
subset and leaves the rest untouched.
*/
func TestQueryHelper_UpdateSelectiveMany(t *testing.T) {
	ctx := context.Background()
	helper := newTrackHelper()
	seedTracks(t, helper,
		track{Title: "One", Artist: "Old", Label: label("indie")},
		track{Title: "Two", Artist: "Old", Label: label("indie")},
		track{Title: "Three", Artist: "Other"},
	)

	matched, err := helper.UpdateSelectiveMany(ctx,
		store.Update{fieldArtist: "New", fieldLabel: nil},
		store.Eq(fieldArtist, "Old"),
	)
	require.NoError(t, err)
	assert.EqualValues(t, 2, matched)

	updated, err := helper.Find(ctx, store.Eq(fieldArtist, "New"), nil)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	for _, tr := range updated {
		assert.Nil(t, tr.Label)
	}

	untouched, err := helper.FindOne(ctx, store.Eq(fieldTitle, "Three"))
	require.NoError(t, err)
	require.NotNil(t, untouched)
	assert.Equal(t, "Other", untouched.Artist)
}

/*
TestMemoryCollection_Filters evaluates every predicate node against the same
seeded data set.
*/
func TestMemoryCollection_Filters(t *testing.T) {
	ctx := context.Background()
	helper := newTrackHelper()
	seedTracks(t, helper,
		track{Title: "a.b", Artist: "Escaped", Plays: 1, Label: label("blue")},
		track{Title: "axb", Artist: "Plain", Plays: 2, Label: label("red")},
		track{Title: "Straße", Artist: "Umlaut", Plays: 3},
		track{Title: "Quiet", Artist: "Plain", Plays: 4},
	)

	tests := []struct {
		name       string
		filter     store.Filter
		wantTitles []string
	}{
		{"eq", store.Eq(fieldArtist, "Plain"), []string{"axb", "Quiet"}},
		{"eq_fold", store.EqFold(fieldTitle, "QUIET"), []string{"Quiet"}},
		{"ne", store.Ne(fieldArtist, "Plain"), []string{"a.b", "Straße"}},
		{"in", store.In(fieldPlays, 1, 3), []string{"a.b", "Straße"}},
		{"in_empty", store.In(fieldPlays), nil},
		{"not_in", store.NotIn(fieldPlays, 2, 4), []string{"a.b", "Straße"}},
		{"not_in_empty", store.NotIn(fieldPlays), []string{"a.b", "axb", "Straße", "Quiet"}},
		{"contains_is_literal", store.Contains(fieldTitle, "a.b"), []string{"a.b"}},
		{"contains_case_insensitive", store.Contains(fieldArtist, "plai"), []string{"axb", "Quiet"}},
		{"exists_true", store.Exists(fieldLabel, true), []string{"a.b", "axb"}},
		{"exists_false", store.Exists(fieldLabel, false), []string{"Straße", "Quiet"}},
		{"and", store.And(store.Eq(fieldArtist, "Plain"), store.Eq(fieldPlays, 2)), []string{"axb"}},
		{"or", store.Or(store.Eq(fieldTitle, "Quiet"), store.Eq(fieldPlays, 1)), []string{"a.b", "Quiet"}},
		{"all", store.All(), []string{"a.b", "axb", "Straße", "Quiet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := helper.Find(ctx, tt.filter, nil)
			require.NoError(t, err)

			titles := make([]string, 0, len(found))
			for _, tr := range found {
				titles = append(titles, tr.Title)
			}
			assert.ElementsMatch(t, tt.wantTitles, titles)
		})
	}
}

/*
TestMemoryCollection_Sorts checks case-insensitive string ordering and that
later sort specs break the ties of earlier ones.
*/
func TestMemoryCollection_Sorts(t *testing.T) {
	ctx := context.Background()
	helper := newTrackHelper()
	seedTracks(t, helper,
		track{Title: "banana", Artist: "Z", Plays: 2},
		track{Title: "Apple", Artist: "A", Plays: 2},
		track{Title: "cherry", Artist: "B", Plays: 5},
	)

	byTitle, err := helper.Find(ctx, nil, []store.SortSpec{store.Asc(fieldTitle)})
	require.NoError(t, err)
	require.Len(t, byTitle, 3)
	assert.Equal(t, "Apple", byTitle[0].Title)
	assert.Equal(t, "banana", byTitle[1].Title)
	assert.Equal(t, "cherry", byTitle[2].Title)

	byPlaysThenTitle, err := helper.Find(ctx, nil, []store.SortSpec{
		store.Desc(fieldPlays),
		store.Asc(fieldTitle),
	})
	require.NoError(t, err)
	require.Len(t, byPlaysThenTitle, 3)
	assert.Equal(t, "cherry", byPlaysThenTitle[0].Title)
	assert.Equal(t, "Apple", byPlaysThenTitle[1].Title)
	assert.Equal(t, "banana", byPlaysThenTitle[2].Title)
}

/*
TestMemoryCollection_CloneIsolation makes sure mutations of a returned record
never leak into stored state.
*/
func TestMemoryCollection_CloneIsolation(t *testing.T) {
	ctx := context.Background()
	helper := newTrackHelper()
	seedTracks(t, helper, track{Title: "Immutable", Artist: "Keeper"})

	first, err := helper.FindOne(ctx, store.Eq(fieldTitle, "Immutable"))
	require.NoError(t, err)
	first.Artist = "Mutated"

	second, err := helper.FindOne(ctx, store.Eq(fieldTitle, "Immutable"))
	require.NoError(t, err)
	assert.Equal(t, "Keeper", second.Artist)
}
