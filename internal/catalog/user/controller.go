// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package user

import (
	"context"
	"log/slog"

	"github.com/mediashelf/mediashelf/internal/catalog/controller"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/store"
)

// CascadeDeleter is one branch of the user deletion cascade. Category, group
// and own-platform controllers implement it, as does the media item factory.
type CascadeDeleter interface {
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// Controller owns the user lifecycle and the root of all deletion cascades.
type Controller struct {
	helper   *store.QueryHelper[User]
	cascades []CascadeDeleter
	logger   *slog.Logger
}

// NewController constructs the user controller.
func NewController(helper *store.QueryHelper[User], logger *slog.Logger) *Controller {
	return &Controller{helper: helper, logger: logger}
}

// AttachCascades registers the delete branches fanned out by [Controller.DeleteUser].
// Called once at assembly, after the dependent controllers exist.
func (c *Controller) AttachCascades(cascades ...CascadeDeleter) {
	c.cascades = append(c.cascades, cascades...)
}

// GetUser returns the user with the given id, or nil when it does not exist.
func (c *Controller) GetUser(ctx context.Context, userID string) (*User, error) {
	return c.helper.FindOne(ctx, store.Eq(FieldID, userID))
}

// GetAllUsers lists users, optionally filtered by case-insensitive exact
// name, always sorted by name ascending.
func (c *Controller) GetAllUsers(ctx context.Context, name *string) ([]User, error) {
	conditions := store.All()
	if name != nil {
		conditions = store.EqFold(FieldName, *name)
	}
	return c.helper.Find(ctx, conditions, []store.SortSpec{store.Asc(FieldName)})
}

// SaveUser inserts or updates a user, enforcing name uniqueness across all
// users. Re-saving a user under its own unchanged name is not a duplicate.
func (c *Controller) SaveUser(ctx context.Context, u *User) error {
	return c.helper.CheckUniquenessAndSave(ctx, u, store.EqFold(FieldName, u.Name))
}

// DeleteUser removes the user and transitively everything it owns:
// categories, groups, own platforms and media items of every type. All
// branches run concurrently; the returned count sums the user record and
// every cascaded record.
func (c *Controller) DeleteUser(ctx context.Context, userID string) (int64, error) {
	existing, err := c.helper.FindOne(ctx, store.Eq(FieldID, userID))
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, apperr.Delete("User does not exist", nil)
	}

	deletes := []controller.DeleteFn{
		func(ctx context.Context) (int64, error) {
			if err := c.helper.DeleteByID(ctx, userID); err != nil {
				return 0, err
			}
			return 1, nil
		},
	}
	for _, cascade := range c.cascades {
		cascade := cascade
		deletes = append(deletes, func(ctx context.Context) (int64, error) {
			return cascade.DeleteAllForUser(ctx, userID)
		})
	}

	total, err := controller.CascadeDelete(ctx, true, "", nil, deletes...)
	if err != nil {
		return total, err
	}

	c.logger.Info("user_deleted",
		slog.String("user_id", userID),
		slog.Int64("records_removed", total),
	)
	return total, nil
}
