// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package category_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/memory"
)

// stubItems fakes the media item factory with a fixed item count.
type stubItems struct {
	count   int64
	deleted int64
}

func (s *stubItems) CountMediaItems(context.Context, string, string, category.MediaType) (int64, error) {
	return s.count, nil
}

func (s *stubItems) DeleteAllMediaItems(context.Context, string, string, category.MediaType) (int64, error) {
	s.deleted++
	return s.count, nil
}

type fixture struct {
	users      *user.Controller
	categories *category.Controller
	items      *stubItems
	owner      *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userHelper := store.NewQueryHelper(memory.NewCollection(user.Schema(), user.Clone), user.Schema(), "User")
	users := user.NewController(userHelper, logger)

	categoryHelper := store.NewQueryHelper(memory.NewCollection(category.Schema(), category.Clone), category.Schema(), "Category")
	categories := category.NewController(categoryHelper, users, logger)

	items := &stubItems{}
	categories.AttachItemCascader(items)

	owner := &user.User{Name: "Owner"}
	require.NoError(t, users.SaveUser(context.Background(), owner))

	return &fixture{users: users, categories: categories, items: items, owner: owner}
}

func (f *fixture) newCategory(t *testing.T, name string, mediaType category.MediaType) *category.Category {
	t.Helper()
	cat := &category.Category{
		Name:      name,
		MediaType: mediaType,
		Owner:     ref.FromID[user.User](f.owner.ID),
	}
	require.NoError(t, f.categories.SaveCategory(context.Background(), cat))
	return cat
}

/*
TestSaveCategory_RequiresOwner rejects inserts referencing a user that does
not exist.
*/
func TestSaveCategory_RequiresOwner(t *testing.T) {
	f := newFixture(t)

	orphan := &category.Category{
		Name:      "Nobody's Books",
		MediaType: category.MediaTypeBook,
		Owner:     ref.FromID[user.User]("missing-user"),
	}
	err := f.categories.SaveCategory(context.Background(), orphan)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSave, apperr.As(err).Code)
	assert.Empty(t, orphan.ID)
}

/*
TestGetCategory_TenantIsolation: a category is invisible under any owner but
its own, indistinguishable from one that never existed.
*/
func TestGetCategory_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cat := f.newCategory(t, "Books", category.MediaTypeBook)

	other := &user.User{Name: "Other"}
	require.NoError(t, f.users.SaveUser(ctx, other))

	found, err := f.categories.GetCategory(ctx, f.owner.ID, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	invisible, err := f.categories.GetCategory(ctx, other.ID, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, invisible)
}

/*
TestSaveCategory_MediaTypeFreeze: a category holding items keeps its media
type; once emptied the change is allowed.
*/
func TestSaveCategory_MediaTypeFreeze(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cat := f.newCategory(t, "Shelf", category.MediaTypeBook)

	f.items.count = 2
	cat.MediaType = category.MediaTypeMovie
	err := f.categories.SaveCategory(ctx, cat)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSave, apperr.As(err).Code)

	f.items.count = 0
	require.NoError(t, f.categories.SaveCategory(ctx, cat))

	stored, err := f.categories.GetCategory(ctx, f.owner.ID, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, category.MediaTypeMovie, stored.MediaType)
}

/*
TestDeleteCategory_ForceSemantics: deleting a non-empty category requires
force; an empty one deletes without it.
*/
func TestDeleteCategory_ForceSemantics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cat := f.newCategory(t, "Full", category.MediaTypeBook)

	f.items.count = 3
	_, err := f.categories.DeleteCategory(ctx, f.owner.ID, cat.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDeleteNotEmpty, apperr.As(err).Code)

	total, err := f.categories.DeleteCategory(ctx, f.owner.ID, cat.ID, true)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total, "category record plus its items")
	assert.EqualValues(t, 1, f.items.deleted)

	empty := f.newCategory(t, "Empty", category.MediaTypeMovie)
	f.items.count = 0
	total, err = f.categories.DeleteCategory(ctx, f.owner.ID, empty.ID, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
