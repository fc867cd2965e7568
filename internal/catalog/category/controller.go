// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package category

import (
	"context"
	"log/slog"

	"github.com/mediashelf/mediashelf/internal/catalog/controller"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/store"
)

// UserReader resolves owner references during save preconditions.
type UserReader interface {
	GetUser(ctx context.Context, userID string) (*user.User, error)
}

// ItemCascader reaches the media items of a category without a compile-time
// dependency on any media subtype: the media item factory implements it.
type ItemCascader interface {
	CountMediaItems(ctx context.Context, userID, categoryID string, mediaType MediaType) (int64, error)
	DeleteAllMediaItems(ctx context.Context, userID, categoryID string, mediaType MediaType) (int64, error)
}

// CategoryCascader is one branch of the category deletion cascade. The group
// and own-platform controllers implement it.
type CategoryCascader interface {
	DeleteAllInCategory(ctx context.Context, userID, categoryID string) (int64, error)
}

// Controller owns the category lifecycle.
type Controller struct {
	helper   *store.QueryHelper[Category]
	users    UserReader
	items    ItemCascader
	cascades []CategoryCascader
	logger   *slog.Logger
}

// NewController constructs the category controller.
func NewController(helper *store.QueryHelper[Category], users UserReader, logger *slog.Logger) *Controller {
	return &Controller{helper: helper, users: users, logger: logger}
}

// AttachItemCascader wires the media item factory in after assembly.
func (c *Controller) AttachItemCascader(items ItemCascader) {
	c.items = items
}

// AttachCascades registers the sub-entity delete branches fanned out by
// [Controller.DeleteCategory].
func (c *Controller) AttachCascades(cascades ...CategoryCascader) {
	c.cascades = append(c.cascades, cascades...)
}

func scope(userID string) store.Filter {
	return store.Eq(FieldOwner, userID)
}

// GetCategory returns the category under the given owner, or nil when no
// such category exists for that user (tenant isolation: a category owned by
// another user is invisible, not forbidden).
func (c *Controller) GetCategory(ctx context.Context, userID, categoryID string) (*Category, error) {
	return c.helper.FindOne(ctx, store.And(store.Eq(FieldID, categoryID), scope(userID)))
}

// GetAllCategories lists the user's categories, optionally filtered by
// case-insensitive exact name, sorted by name ascending.
func (c *Controller) GetAllCategories(ctx context.Context, userID string, name *string) ([]Category, error) {
	conditions := []store.Filter{scope(userID)}
	if name != nil {
		conditions = append(conditions, store.EqFold(FieldName, *name))
	}
	return c.helper.Find(ctx, store.And(conditions...), []store.SortSpec{store.Asc(FieldName)})
}

// SaveCategory inserts or updates a category.
//
// Preconditions: on insert the owner must exist; on update the category must
// already exist under that owner, and its media type may only change while
// the category holds no media items.
func (c *Controller) SaveCategory(ctx context.Context, cat *Category) error {
	if cat.ID == "" {
		err := controller.RequireAll(ctx,
			apperr.Save("User does not exist", nil),
			func(ctx context.Context) (bool, error) {
				owner, err := c.users.GetUser(ctx, cat.Owner.ID())
				return owner != nil, err
			},
		)
		if err != nil {
			return err
		}
		return c.helper.Save(ctx, cat)
	}

	existing, err := c.GetCategory(ctx, cat.Owner.ID(), cat.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.Save("Category does not exist for given user", nil)
	}

	if existing.MediaType != cat.MediaType {
		// The old type's controller governs the stored items.
		count, err := c.items.CountMediaItems(ctx, cat.Owner.ID(), cat.ID, existing.MediaType)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.Save("Cannot change the media type of a category that contains media items", nil)
		}
	}

	return c.helper.Save(ctx, cat)
}

// DeleteCategory removes a category. Without force it is refused while any
// media item exists inside. With force (or when empty) the category record,
// its groups, its own platforms and its media items are deleted concurrently
// and the removed counts are summed.
func (c *Controller) DeleteCategory(ctx context.Context, userID, categoryID string, force bool) (int64, error) {
	existing, err := c.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, apperr.Delete("Category does not exist for given user", nil)
	}

	deletes := []controller.DeleteFn{
		func(ctx context.Context) (int64, error) {
			if err := c.helper.DeleteByID(ctx, categoryID); err != nil {
				return 0, err
			}
			return 1, nil
		},
		func(ctx context.Context) (int64, error) {
			return c.items.DeleteAllMediaItems(ctx, userID, categoryID, existing.MediaType)
		},
	}
	for _, cascade := range c.cascades {
		cascade := cascade
		deletes = append(deletes, func(ctx context.Context) (int64, error) {
			return cascade.DeleteAllInCategory(ctx, userID, categoryID)
		})
	}

	total, err := controller.CascadeDelete(ctx, force,
		"Category still contains media items",
		func(ctx context.Context) (int64, error) {
			return c.items.CountMediaItems(ctx, userID, categoryID, existing.MediaType)
		},
		deletes...,
	)
	if err != nil {
		return total, err
	}

	c.logger.Info("category_deleted",
		slog.String("user_id", userID),
		slog.String("category_id", categoryID),
		slog.Bool("forced", force),
		slog.Int64("records_removed", total),
	)
	return total, nil
}

// DeleteAllForUser removes every category record owned by the user. It only
// touches category records; the full tree cascade is coordinated by the user
// controller, which fans out to every entity in parallel.
func (c *Controller) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return c.helper.Delete(ctx, scope(userID))
}
