// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package controller_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediashelf/mediashelf/internal/catalog/controller"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
)

/*
TestRequireAll distinguishes the three outcomes: all found, a storage error
(propagated unchanged), and a missing reference (converted into the caller's
error).
*/
func TestRequireAll(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("storage down")
	refused := apperr.Save("Reference does not exist", nil)

	found := func(context.Context) (bool, error) { return true, nil }
	missing := func(context.Context) (bool, error) { return false, nil }
	failing := func(context.Context) (bool, error) { return false, boom }

	assert.NoError(t, controller.RequireAll(ctx, refused))
	assert.NoError(t, controller.RequireAll(ctx, refused, found, found))

	err := controller.RequireAll(ctx, refused, found, missing)
	assert.Same(t, refused, err)

	err = controller.RequireAll(ctx, refused, missing, failing)
	assert.ErrorIs(t, err, boom, "storage errors win over the not-found conversion")
}

/*
TestParallel_EarliestDeclaredErrorWins: when several steps fail, the error of
the earliest-declared step is returned regardless of completion order.
*/
func TestParallel_EarliestDeclaredErrorWins(t *testing.T) {
	ctx := context.Background()
	first := errors.New("first declared")
	second := errors.New("second declared")

	err := controller.Parallel(ctx,
		func(context.Context) error {
			time.Sleep(20 * time.Millisecond)
			return first
		},
		func(context.Context) error { return second },
	)
	assert.ErrorIs(t, err, first)

	assert.NoError(t, controller.Parallel(ctx))
	assert.NoError(t, controller.Parallel(ctx, func(context.Context) error { return nil }))
}

/*
TestCascadeDelete covers the safe-vs-forced policy and the count summing.
*/
func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()

	countTwo := func(context.Context) (int64, error) { return 2, nil }
	countZero := func(context.Context) (int64, error) { return 0, nil }
	removeThree := func(context.Context) (int64, error) { return 3, nil }
	removeOne := func(context.Context) (int64, error) { return 1, nil }

	t.Run("refused_while_dependents_exist", func(t *testing.T) {
		_, err := controller.CascadeDelete(ctx, false, "Container is not empty", countTwo, removeOne)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.CodeDeleteNotEmpty, ae.Code)
		assert.Equal(t, "Container is not empty", ae.Message)
	})

	t.Run("empty_deletes_without_force", func(t *testing.T) {
		total, err := controller.CascadeDelete(ctx, false, "unused", countZero, removeOne)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("forced_sums_all_branches", func(t *testing.T) {
		total, err := controller.CascadeDelete(ctx, true, "unused", countTwo, removeOne, removeThree)
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
	})

	t.Run("first_branch_error_reported", func(t *testing.T) {
		boom := errors.New("branch failed")
		_, err := controller.CascadeDelete(ctx, true, "", nil,
			removeOne,
			func(context.Context) (int64, error) { return 0, boom },
		)
		assert.ErrorIs(t, err, boom)
	})
}
