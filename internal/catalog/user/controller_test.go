// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package user_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/memory"
)

func newController(t *testing.T) *user.Controller {
	t.Helper()
	helper := store.NewQueryHelper(memory.NewCollection(user.Schema(), user.Clone), user.Schema(), "User")
	return user.NewController(helper, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// countingCascade records the cascade fan-out of a user deletion.
type countingCascade struct {
	removed int64
	userID  string
}

func (c *countingCascade) DeleteAllForUser(_ context.Context, userID string) (int64, error) {
	c.userID = userID
	return c.removed, nil
}

/*
TestSaveUser_NameUniqueness checks that user names are unique under case
folding, and that renaming a user onto its own name is allowed.
*/
func TestSaveUser_NameUniqueness(t *testing.T) {
	ctx := context.Background()
	controller := newController(t)

	first := &user.User{Name: "Morgan"}
	require.NoError(t, controller.SaveUser(ctx, first))
	require.NotEmpty(t, first.ID)

	duplicate := &user.User{Name: "MORGAN"}
	err := controller.SaveUser(ctx, duplicate)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeSaveUniqueness, ae.Code)
	assert.Equal(t, []string{first.ID}, ae.ConflictingIDs)

	// Re-saving the same record under its own name is not a conflict.
	require.NoError(t, controller.SaveUser(ctx, first))
}

/*
TestGetAllUsers covers the optional exact-name filter and the name ordering.
*/
func TestGetAllUsers(t *testing.T) {
	ctx := context.Background()
	controller := newController(t)

	for _, name := range []string{"zoe", "Ada", "mallory"} {
		require.NoError(t, controller.SaveUser(ctx, &user.User{Name: name}))
	}

	all, err := controller.GetAllUsers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ada", all[0].Name)
	assert.Equal(t, "mallory", all[1].Name)
	assert.Equal(t, "zoe", all[2].Name)

	name := "ADA"
	filtered, err := controller.GetAllUsers(ctx, &name)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Ada", filtered[0].Name)
}

/*
TestDeleteUser verifies the cascade fan-out: the total sums the user record
and every branch, each branch receives the right user id, and deleting an
unknown user is refused.
*/
func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	controller := newController(t)

	account := &user.User{Name: "Cascade"}
	require.NoError(t, controller.SaveUser(ctx, account))

	branchA := &countingCascade{removed: 3}
	branchB := &countingCascade{removed: 2}
	controller.AttachCascades(branchA, branchB)

	total, err := controller.DeleteUser(ctx, account.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 6, total, "user record plus both branches")
	assert.Equal(t, account.ID, branchA.userID)
	assert.Equal(t, account.ID, branchB.userID)

	gone, err := controller.GetUser(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, err = controller.DeleteUser(ctx, account.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDelete, apperr.As(err).Code)
}
