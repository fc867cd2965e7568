// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package group

import (
	"context"
	"log/slog"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/controller"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/store"
)

// CategoryReader resolves category references during save preconditions.
type CategoryReader interface {
	GetCategory(ctx context.Context, userID, categoryID string) (*category.Category, error)
}

// ItemDetacher clears group references from media items when a group goes
// away. The media item factory implements it across all media subtypes.
type ItemDetacher interface {
	ClearGroupInAllMediaItems(ctx context.Context, userID, categoryID, groupID string) (int64, error)
}

// Controller owns the group lifecycle.
type Controller struct {
	helper     *store.QueryHelper[Group]
	categories CategoryReader
	items      ItemDetacher
	logger     *slog.Logger
}

// NewController constructs the group controller.
func NewController(helper *store.QueryHelper[Group], categories CategoryReader, logger *slog.Logger) *Controller {
	return &Controller{helper: helper, categories: categories, logger: logger}
}

// AttachItemDetacher wires the media item factory in after assembly.
func (c *Controller) AttachItemDetacher(items ItemDetacher) {
	c.items = items
}

func scope(userID, categoryID string) store.Filter {
	return store.And(store.Eq(FieldOwner, userID), store.Eq(FieldCategory, categoryID))
}

// GetGroup returns the group under the given (owner, category) pair, or nil
// when it does not exist in that scope.
func (c *Controller) GetGroup(ctx context.Context, userID, categoryID, groupID string) (*Group, error) {
	return c.helper.FindOne(ctx, store.And(store.Eq(FieldID, groupID), scope(userID, categoryID)))
}

// GetGroupsByIDs returns the groups with the given ids inside one
// (owner, category) scope. Ids outside the scope are silently absent.
func (c *Controller) GetGroupsByIDs(ctx context.Context, userID, categoryID string, groupIDs []string) ([]Group, error) {
	return c.helper.Find(ctx, store.And(store.InStrings(FieldID, groupIDs), scope(userID, categoryID)), nil)
}

// GetAllGroups lists the groups of a category, optionally filtered by
// case-insensitive exact name, sorted by name ascending.
func (c *Controller) GetAllGroups(ctx context.Context, userID, categoryID string, name *string) ([]Group, error) {
	conditions := []store.Filter{scope(userID, categoryID)}
	if name != nil {
		conditions = append(conditions, store.EqFold(FieldName, *name))
	}
	return c.helper.Find(ctx, store.And(conditions...), []store.SortSpec{store.Asc(FieldName)})
}

// SaveGroup inserts or updates a group.
//
// Preconditions: on insert the category must exist for the owner; on update
// the group itself must already exist under that (owner, category).
func (c *Controller) SaveGroup(ctx context.Context, g *Group) error {
	if g.ID == "" {
		return c.saveNew(ctx, g)
	}

	existing, err := c.GetGroup(ctx, g.Owner.ID(), g.Category.ID(), g.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.Save("Group does not exist for given user and category", nil)
	}
	return c.helper.Save(ctx, g)
}

func (c *Controller) saveNew(ctx context.Context, g *Group) error {
	err := controller.RequireAll(ctx,
		apperr.Save("Category does not exist for given user", nil),
		func(ctx context.Context) (bool, error) {
			cat, err := c.categories.GetCategory(ctx, g.Owner.ID(), g.Category.ID())
			return cat != nil, err
		},
	)
	if err != nil {
		return err
	}
	return c.helper.Save(ctx, g)
}

// DeleteGroup removes the group and, concurrently, detaches every media item
// that pointed at it. Items themselves are never deleted by a group removal.
// The returned count covers the group record only.
func (c *Controller) DeleteGroup(ctx context.Context, userID, categoryID, groupID string) (int64, error) {
	existing, err := c.GetGroup(ctx, userID, categoryID, groupID)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, apperr.Delete("Group does not exist for given user and category", nil)
	}

	_, err = controller.CascadeDelete(ctx, true, "", nil,
		func(ctx context.Context) (int64, error) {
			if err := c.helper.DeleteByID(ctx, groupID); err != nil {
				return 0, err
			}
			return 1, nil
		},
		func(ctx context.Context) (int64, error) {
			detached, err := c.items.ClearGroupInAllMediaItems(ctx, userID, categoryID, groupID)
			if err == nil && detached > 0 {
				c.logger.Info("group_items_detached",
					slog.String("group_id", groupID),
					slog.Int64("items", detached),
				)
			}
			return 0, err
		},
	)
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// DeleteAllInCategory removes every group record of a category.
func (c *Controller) DeleteAllInCategory(ctx context.Context, userID, categoryID string) (int64, error) {
	return c.helper.Delete(ctx, scope(userID, categoryID))
}

// DeleteAllForUser removes every group record owned by the user.
func (c *Controller) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return c.helper.Delete(ctx, store.Eq(FieldOwner, userID))
}
