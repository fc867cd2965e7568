// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

// The tests in this file wire the full catalog — users, categories, groups,
// own platforms, the four media controllers and the factory — over the memory
// engine, exactly the way cmd/api assembles it, and exercise the cross-entity
// behavior end to end.
package media_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/group"
	"github.com/mediashelf/mediashelf/internal/catalog/media"
	"github.com/mediashelf/mediashelf/internal/catalog/ownplatform"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/memory"
)

type catalog struct {
	users      *user.Controller
	categories *category.Controller
	groups     *group.Controller
	platforms  *ownplatform.Controller
	factory    *media.Factory
	books      *media.Controller[media.Book, *media.Book]
	movies     *media.Controller[media.Movie, *media.Movie]

	owner   *user.User
	bookCat *category.Category
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userHelper := store.NewQueryHelper(memory.NewCollection(user.Schema(), user.Clone), user.Schema(), "User")
	categoryHelper := store.NewQueryHelper(memory.NewCollection(category.Schema(), category.Clone), category.Schema(), "Category")
	groupHelper := store.NewQueryHelper(memory.NewCollection(group.Schema(), group.Clone), group.Schema(), "Group")
	platformHelper := store.NewQueryHelper(memory.NewCollection(ownplatform.Schema(), ownplatform.Clone), ownplatform.Schema(), "OwnPlatform")
	bookHelper := store.NewQueryHelper(memory.NewCollection(media.BookSchema(), media.CloneBook), media.BookSchema(), "Book")
	movieHelper := store.NewQueryHelper(memory.NewCollection(media.MovieSchema(), media.CloneMovie), media.MovieSchema(), "Movie")
	tvShowHelper := store.NewQueryHelper(memory.NewCollection(media.TvShowSchema(), media.CloneTvShow), media.TvShowSchema(), "TvShow")
	videogameHelper := store.NewQueryHelper(memory.NewCollection(media.VideogameSchema(), media.CloneVideogame), media.VideogameSchema(), "Videogame")

	users := user.NewController(userHelper, logger)
	categories := category.NewController(categoryHelper, users, logger)
	groups := group.NewController(groupHelper, categories, logger)
	platforms := ownplatform.NewController(platformHelper, categories, logger)

	factory := media.NewFactory(categories)
	books := media.NewController[media.Book](bookHelper, media.BookType(), categories, groups, platforms, logger)
	movies := media.NewController[media.Movie](movieHelper, media.MovieType(), categories, groups, platforms, logger)
	factory.Register(books, nil)
	factory.Register(movies, nil)
	factory.Register(media.NewController[media.TvShow](tvShowHelper, media.TvShowType(), categories, groups, platforms, logger), nil)
	factory.Register(media.NewController[media.Videogame](videogameHelper, media.VideogameType(), categories, groups, platforms, logger), nil)

	categories.AttachItemCascader(factory)
	categories.AttachCascades(groups, platforms)
	groups.AttachItemDetacher(factory)
	platforms.AttachItemRewriter(factory)
	users.AttachCascades(categories, groups, platforms, factory)

	owner := &user.User{Name: "Reader"}
	require.NoError(t, users.SaveUser(ctx, owner))

	bookCat := &category.Category{
		Name:      "Books",
		MediaType: category.MediaTypeBook,
		Owner:     ref.FromID[user.User](owner.ID),
	}
	require.NoError(t, categories.SaveCategory(ctx, bookCat))

	return &catalog{
		users:      users,
		categories: categories,
		groups:     groups,
		platforms:  platforms,
		factory:    factory,
		books:      books,
		movies:     movies,
		owner:      owner,
		bookCat:    bookCat,
	}
}

func (c *catalog) addBook(t *testing.T, book media.Book) media.Book {
	t.Helper()
	book.Owner = ref.FromID[user.User](c.owner.ID)
	book.Category = ref.FromID[category.Category](c.bookCat.ID)
	if book.Importance == 0 {
		book.Importance = media.ImportanceImportant
	}
	require.NoError(t, c.books.SaveMediaItem(context.Background(), &book, false))
	return book
}

func (c *catalog) addGroup(t *testing.T, name string) *group.Group {
	t.Helper()
	g := &group.Group{
		Name:     name,
		Owner:    ref.FromID[user.User](c.owner.ID),
		Category: ref.FromID[category.Category](c.bookCat.ID),
	}
	require.NoError(t, c.groups.SaveGroup(context.Background(), g))
	return g
}

func (c *catalog) addPlatform(t *testing.T, name string) *ownplatform.OwnPlatform {
	t.Helper()
	p := &ownplatform.OwnPlatform{
		Name:     name,
		Owner:    ref.FromID[user.User](c.owner.ID),
		Category: ref.FromID[category.Category](c.bookCat.ID),
	}
	require.NoError(t, c.platforms.SaveOwnPlatform(context.Background(), p))
	return p
}

func bookNames(books []media.Book) []string {
	names := make([]string, 0, len(books))
	for _, b := range books {
		names = append(names, b.Name)
	}
	return names
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

/*
TestSaveMediaItem_Preconditions covers the integrity checks around a save:
the category's media type must match the subtype, references must resolve in
scope, and updates require the item to pre-exist.
*/
func TestSaveMediaItem_Preconditions(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	movieCat := &category.Category{
		Name:      "Movies",
		MediaType: category.MediaTypeMovie,
		Owner:     ref.FromID[user.User](c.owner.ID),
	}
	require.NoError(t, c.categories.SaveCategory(ctx, movieCat))

	t.Run("category_type_mismatch", func(t *testing.T) {
		misplaced := media.Book{Core: media.Core{
			Name:       "A Book Among Movies",
			Owner:      ref.FromID[user.User](c.owner.ID),
			Category:   ref.FromID[category.Category](movieCat.ID),
			Importance: media.ImportanceImportant,
		}}
		err := c.books.SaveMediaItem(ctx, &misplaced, false)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeSave, apperr.As(err).Code)
	})

	t.Run("missing_group", func(t *testing.T) {
		grouped := media.Book{Core: media.Core{
			Name:       "Grouped",
			Owner:      ref.FromID[user.User](c.owner.ID),
			Category:   ref.FromID[category.Category](c.bookCat.ID),
			Group:      ref.FromID[group.Group]("no-such-group"),
			Importance: media.ImportanceImportant,
		}}
		err := c.books.SaveMediaItem(ctx, &grouped, false)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeSave, apperr.As(err).Code)
	})

	t.Run("update_requires_existing_item", func(t *testing.T) {
		phantom := media.Book{Core: media.Core{
			ID:         "never-saved",
			Name:       "Phantom",
			Owner:      ref.FromID[user.User](c.owner.ID),
			Category:   ref.FromID[category.Category](c.bookCat.ID),
			Importance: media.ImportanceImportant,
		}}
		err := c.books.SaveMediaItem(ctx, &phantom, false)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeSave, apperr.As(err).Code)
	})

	t.Run("valid_insert_derives_completed_last_on", func(t *testing.T) {
		earlier := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		later := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
		book := c.addBook(t, media.Book{Core: media.Core{
			Name:        "Finished Twice",
			CompletedOn: []time.Time{later, earlier},
		}})

		require.NotEmpty(t, book.ID)
		stored, err := c.books.GetMediaItem(ctx, c.owner.ID, c.bookCat.ID, book.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.NotNil(t, stored.CompletedLastOn)
		assert.True(t, later.Equal(*stored.CompletedLastOn))
	})
}

/*
TestFilterMediaItems_Completed checks the three-valued completed filter: an
item counts as completed only when it was finished at least once and is not
marked for a redo.
*/
func TestFilterMediaItems_Completed(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	finished := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.addBook(t, media.Book{Core: media.Core{Name: "Done", CompletedOn: []time.Time{finished}}})
	c.addBook(t, media.Book{Core: media.Core{Name: "Redo", CompletedOn: []time.Time{finished}, MarkedAsRedo: true}})
	c.addBook(t, media.Book{Core: media.Core{Name: "Untouched"}})

	completed := true
	done, err := c.books.FilterAndOrderMediaItems(ctx, c.owner.ID, c.bookCat.ID, &media.ItemFilter{Completed: &completed}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Done"}, bookNames(done))

	completed = false
	pending, err := c.books.FilterAndOrderMediaItems(ctx, c.owner.ID, c.bookCat.ID, &media.ItemFilter{Completed: &completed}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Redo", "Untouched"}, bookNames(pending))

	all, err := c.books.FilterAndOrderMediaItems(ctx, c.owner.ID, c.bookCat.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

/*
TestFilterMediaItems_GroupSelection checks the reference selection states: an
explicit id list, "any group", "no group", and the no-constraint default.
*/
func TestFilterMediaItems_GroupSelection(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	saga := c.addGroup(t, "Saga")
	c.addBook(t, media.Book{Core: media.Core{Name: "In Saga", Group: ref.FromID[group.Group](saga.ID)}})
	c.addBook(t, media.Book{Core: media.Core{Name: "Loose"}})

	tests := []struct {
		name      string
		selection *media.RefSelection
		want      []string
	}{
		{"by_ids", &media.RefSelection{IDs: []string{saga.ID}}, []string{"In Saga"}},
		{"any_group", &media.RefSelection{AnyRef: true}, []string{"In Saga"}},
		{"no_group", &media.RefSelection{NoRef: true}, []string{"Loose"}},
		{"both_flags_mean_unconstrained", &media.RefSelection{AnyRef: true, NoRef: true}, []string{"In Saga", "Loose"}},
		{"nil_selection", nil, []string{"In Saga", "Loose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := c.books.FilterAndOrderMediaItems(ctx, c.owner.ID, c.bookCat.ID,
				&media.ItemFilter{Groups: tt.selection}, nil)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, bookNames(found))
		})
	}
}

/*
TestSearchMediaItems checks that the term matches name and credit fields as a
literal, case-insensitive substring and intersects the dynamic filter.
*/
func TestSearchMediaItems(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	c.addBook(t, media.Book{
		Core:    media.Core{Name: "The Silent Sea"},
		Authors: []string{"N. K. Ashore"},
	})
	c.addBook(t, media.Book{
		Core:    media.Core{Name: "Dotted i.s"},
		Authors: []string{"Someone Else"},
	})
	c.addBook(t, media.Book{
		Core: media.Core{Name: "ixs Unrelated", Importance: media.ImportanceUnimportant},
	})

	byName, err := c.books.SearchMediaItems(ctx, c.owner.ID, c.bookCat.ID, "silent", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Silent Sea"}, bookNames(byName))

	byAuthor, err := c.books.SearchMediaItems(ctx, c.owner.ID, c.bookCat.ID, "ashore", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Silent Sea"}, bookNames(byAuthor))

	// "i.s" is literal text: the dot must not act as a wildcard over "ixs".
	literal, err := c.books.SearchMediaItems(ctx, c.owner.ID, c.bookCat.ID, "i.s", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dotted i.s"}, bookNames(literal))

	intersected, err := c.books.SearchMediaItems(ctx, c.owner.ID, c.bookCat.ID, "silent",
		&media.ItemFilter{ImportanceLevels: []media.Importance{media.ImportanceUnimportant}})
	require.NoError(t, err)
	assert.Empty(t, bookNames(intersected), "filter must intersect the term match")
}

/*
TestMediaItemOrdering checks the default ordering (importance first, names
breaking ties) and a caller-supplied sort with an unknown-field rejection.
*/
func TestMediaItemOrdering(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	c.addBook(t, media.Book{Core: media.Core{Name: "beta", Importance: media.ImportanceVeryImportant, ReleaseDate: datePtr(2020, 5, 1)}})
	c.addBook(t, media.Book{Core: media.Core{Name: "Alpha", Importance: media.ImportanceVeryImportant, ReleaseDate: datePtr(2022, 5, 1)}})
	c.addBook(t, media.Book{Core: media.Core{Name: "Zeta", Importance: media.ImportanceUnimportant, ReleaseDate: datePtr(2018, 5, 1)}})

	byDefault, err := c.books.GetAllMediaItemsInCategory(ctx, c.owner.ID, c.bookCat.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "beta", "Zeta"}, bookNames(byDefault))

	byRelease, err := c.books.FilterAndOrderMediaItems(ctx, c.owner.ID, c.bookCat.ID, nil,
		[]media.SortRequest{{Field: media.SortByReleaseDate, Direction: store.Ascending}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "beta", "Alpha"}, bookNames(byRelease))

	_, err = c.books.FilterAndOrderMediaItems(ctx, c.owner.ID, c.bookCat.ID, nil,
		[]media.SortRequest{{Field: media.SortField("SHOE_SIZE"), Direction: store.Ascending}})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeGeneric, apperr.As(err).Code)
}

/*
TestDeleteGroup_DetachesItems: removing a group keeps its items, with the
group reference cleared and the manual position reset.
*/
func TestDeleteGroup_DetachesItems(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	saga := c.addGroup(t, "Trilogy")
	first := c.addBook(t, media.Book{Core: media.Core{Name: "Part One", Group: ref.FromID[group.Group](saga.ID), OrderInGroup: 1}})
	c.addBook(t, media.Book{Core: media.Core{Name: "Part Two", Group: ref.FromID[group.Group](saga.ID), OrderInGroup: 2}})

	removed, err := c.groups.DeleteGroup(ctx, c.owner.ID, c.bookCat.ID, saga.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	survivor, err := c.books.GetMediaItem(ctx, c.owner.ID, c.bookCat.ID, first.ID)
	require.NoError(t, err)
	require.NotNil(t, survivor)
	assert.True(t, survivor.Group.IsZero())
	assert.Zero(t, survivor.OrderInGroup)

	remaining, err := c.books.GetAllMediaItemsInCategory(ctx, c.owner.ID, c.bookCat.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 2, "items survive their group")
}

/*
TestDeleteOwnPlatform_ClearsReferences: removing an own platform clears the
reference from its items without deleting them.
*/
func TestDeleteOwnPlatform_ClearsReferences(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	shelf := c.addPlatform(t, "Paper")
	tagged := c.addBook(t, media.Book{Core: media.Core{Name: "Tagged", OwnPlatform: ref.FromID[ownplatform.OwnPlatform](shelf.ID)}})

	removed, err := c.platforms.DeleteOwnPlatform(ctx, c.owner.ID, c.bookCat.ID, shelf.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	stored, err := c.books.GetMediaItem(ctx, c.owner.ID, c.bookCat.ID, tagged.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.OwnPlatform.IsZero())
}

/*
TestMergeOwnPlatforms: the first id survives under the merged values, items
of the losers are re-pointed at it, and the losers are deleted.
*/
func TestMergeOwnPlatforms(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	keep := c.addPlatform(t, "Kindle")
	lose := c.addPlatform(t, "Kindle Paperwhite")
	tagged := c.addBook(t, media.Book{Core: media.Core{Name: "On Loser", OwnPlatform: ref.FromID[ownplatform.OwnPlatform](lose.ID)}})

	survivor, err := c.platforms.MergeOwnPlatforms(ctx, c.owner.ID, c.bookCat.ID,
		[]string{keep.ID, lose.ID},
		ownplatform.OwnPlatform{Name: "E-Reader", Color: "#112233"},
	)
	require.NoError(t, err)
	require.NotNil(t, survivor)
	assert.Equal(t, keep.ID, survivor.ID)
	assert.Equal(t, "E-Reader", survivor.Name)

	repointed, err := c.books.GetMediaItem(ctx, c.owner.ID, c.bookCat.ID, tagged.ID)
	require.NoError(t, err)
	require.NotNil(t, repointed)
	assert.Equal(t, keep.ID, repointed.OwnPlatform.ID())

	gone, err := c.platforms.GetOwnPlatform(ctx, c.owner.ID, c.bookCat.ID, lose.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, err = c.platforms.MergeOwnPlatforms(ctx, c.owner.ID, c.bookCat.ID, []string{keep.ID}, ownplatform.OwnPlatform{Name: "Solo"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSave, apperr.As(err).Code)

	_, err = c.platforms.MergeOwnPlatforms(ctx, c.owner.ID, c.bookCat.ID, []string{keep.ID, "missing"}, ownplatform.OwnPlatform{Name: "Broken"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSave, apperr.As(err).Code)
}

/*
TestDeleteUser_CascadesCatalog: deleting a user removes every record it owns
across all entity collections and leaves other tenants untouched.
*/
func TestDeleteUser_CascadesCatalog(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	saga := c.addGroup(t, "Cycle")
	c.addPlatform(t, "Shelf")
	c.addBook(t, media.Book{Core: media.Core{Name: "Owned", Group: ref.FromID[group.Group](saga.ID)}})

	bystander := &user.User{Name: "Bystander"}
	require.NoError(t, c.users.SaveUser(ctx, bystander))
	otherCat := &category.Category{
		Name:      "Books",
		MediaType: category.MediaTypeBook,
		Owner:     ref.FromID[user.User](bystander.ID),
	}
	require.NoError(t, c.categories.SaveCategory(ctx, otherCat))

	total, err := c.users.DeleteUser(ctx, c.owner.ID)
	require.NoError(t, err)
	// user + category + group + own platform + book
	assert.EqualValues(t, 5, total)

	leftover, err := c.categories.GetAllCategories(ctx, bystander.ID, nil)
	require.NoError(t, err)
	assert.Len(t, leftover, 1, "other tenants keep their records")

	orphans, err := c.books.DeleteAllMediaItemsForUser(ctx, c.owner.ID)
	require.NoError(t, err)
	assert.Zero(t, orphans)
}

/*
TestFactory_Dispatch: the factory resolves the right subtype controller from
a category and refuses categories that do not exist in scope.
*/
func TestFactory_Dispatch(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	itemController, cat, err := c.factory.ForUserCategory(ctx, c.owner.ID, c.bookCat.ID)
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, category.MediaTypeBook, itemController.MediaType())

	_, _, err = c.factory.ForUserCategory(ctx, c.owner.ID, "no-such-category")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeFind, apperr.As(err).Code)
}
