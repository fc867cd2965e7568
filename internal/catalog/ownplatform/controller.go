// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package ownplatform

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

// ItemRewriter re-points or clears own platform references inside media
// items. The media item factory implements it across all media subtypes.
// A nil newID clears the reference.
type ItemRewriter interface {
	ReplaceOwnPlatformInAllMediaItems(ctx context.Context, userID, categoryID string, oldIDs []string, newID *string) (int64, error)
}

// Controller owns the own platform lifecycle, including the multi-step
// merge workflow.
type Controller struct {
	helper     *store.QueryHelper[OwnPlatform]
	categories CategoryReader
	items      ItemRewriter
	logger     *slog.Logger
}

// NewController constructs the own platform controller.
func NewController(helper *store.QueryHelper[OwnPlatform], categories CategoryReader, logger *slog.Logger) *Controller {
	return &Controller{helper: helper, categories: categories, logger: logger}
}

// AttachItemRewriter wires the media item factory in after assembly.
func (c *Controller) AttachItemRewriter(items ItemRewriter) {
	c.items = items
}

func scope(userID, categoryID string) store.Filter {
	return store.And(store.Eq(FieldOwner, userID), store.Eq(FieldCategory, categoryID))
}

// GetOwnPlatform returns the own platform under the given (owner, category)
// pair, or nil when it does not exist in that scope.
func (c *Controller) GetOwnPlatform(ctx context.Context, userID, categoryID, ownPlatformID string) (*OwnPlatform, error) {
	return c.helper.FindOne(ctx, store.And(store.Eq(FieldID, ownPlatformID), scope(userID, categoryID)))
}

// GetOwnPlatformsByIDs returns the own platforms with the given ids inside
// one (owner, category) scope. Ids outside the scope are silently absent.
func (c *Controller) GetOwnPlatformsByIDs(ctx context.Context, userID, categoryID string, ownPlatformIDs []string) ([]OwnPlatform, error) {
	return c.helper.Find(ctx, store.And(store.InStrings(FieldID, ownPlatformIDs), scope(userID, categoryID)), nil)
}

// GetAllOwnPlatforms lists the own platforms of a category, optionally
// filtered by case-insensitive exact name, sorted by name ascending.
func (c *Controller) GetAllOwnPlatforms(ctx context.Context, userID, categoryID string, name *string) ([]OwnPlatform, error) {
	conditions := []store.Filter{scope(userID, categoryID)}
	if name != nil {
		conditions = append(conditions, store.EqFold(FieldName, *name))
	}
	return c.helper.Find(ctx, store.And(conditions...), []store.SortSpec{store.Asc(FieldName)})
}

// SaveOwnPlatform inserts or updates an own platform.
//
// Preconditions: on insert the category must exist for the owner; on update
// the own platform itself must already exist under that (owner, category).
func (c *Controller) SaveOwnPlatform(ctx context.Context, p *OwnPlatform) error {
	if p.ID == "" {
		err := controller.RequireAll(ctx,
			apperr.Save("Category does not exist for given user", nil),
			func(ctx context.Context) (bool, error) {
				cat, err := c.categories.GetCategory(ctx, p.Owner.ID(), p.Category.ID())
				return cat != nil, err
			},
		)
		if err != nil {
			return err
		}
		return c.helper.Save(ctx, p)
	}

	existing, err := c.GetOwnPlatform(ctx, p.Owner.ID(), p.Category.ID(), p.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.Save("Own platform does not exist for given user and category", nil)
	}
	return c.helper.Save(ctx, p)
}

// DeleteOwnPlatform removes the own platform and, concurrently, clears the
// reference from every media item that pointed at it. The returned count
// covers the own platform record only.
func (c *Controller) DeleteOwnPlatform(ctx context.Context, userID, categoryID, ownPlatformID string) (int64, error) {
	existing, err := c.GetOwnPlatform(ctx, userID, categoryID, ownPlatformID)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, apperr.Delete("Own platform does not exist for given user and category", nil)
	}

	_, err = controller.CascadeDelete(ctx, true, "", nil,
		func(ctx context.Context) (int64, error) {
			if err := c.helper.DeleteByID(ctx, ownPlatformID); err != nil {
				return 0, err
			}
			return 1, nil
		},
		func(ctx context.Context) (int64, error) {
			cleared, err := c.items.ReplaceOwnPlatformInAllMediaItems(ctx, userID, categoryID, []string{ownPlatformID}, nil)
			if err == nil && cleared > 0 {
				c.logger.Info("own_platform_items_cleared",
					slog.String("own_platform_id", ownPlatformID),
					slog.Int64("items", cleared),
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

// MergeOwnPlatforms collapses two or more own platforms into one. The first
// id survives and takes over the merged name, color and icon; media items of
// the losing platforms are re-pointed at the survivor before the losers are
// deleted.
//
// The steps run sequentially without a transactional envelope: a failure in
// the middle leaves the earlier steps applied. Each step is logged so an
// operator can see how far a failed merge got.
func (c *Controller) MergeOwnPlatforms(ctx context.Context, userID, categoryID string, ownPlatformIDs []string, merged OwnPlatform) (*OwnPlatform, error) {
	if len(ownPlatformIDs) < 2 {
		return nil, apperr.Save("At least two own platforms are required for a merge", nil)
	}

	found, err := c.GetOwnPlatformsByIDs(ctx, userID, categoryID, ownPlatformIDs)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ownPlatformIDs) {
		return nil, apperr.Save("One or more own platforms do not exist for given user and category", nil)
	}

	survivorID, loserIDs := ownPlatformIDs[0], ownPlatformIDs[1:]
	log := c.logger.With(
		slog.String("user_id", userID),
		slog.String("category_id", categoryID),
		slog.String("survivor_id", survivorID),
	)

	survivor := merged
	survivor.ID = survivorID
	survivor.Owner = found[0].Owner
	survivor.Category = found[0].Category
	if err := c.helper.Save(ctx, &survivor); err != nil {
		return nil, err
	}
	log.Info("own_platform_merge_survivor_saved")

	repointed, err := c.items.ReplaceOwnPlatformInAllMediaItems(ctx, userID, categoryID, loserIDs, &survivorID)
	if err != nil {
		return nil, err
	}
	log.Info("own_platform_merge_items_repointed", slog.Int64("items", repointed))

	removed, err := c.helper.Delete(ctx, store.And(store.InStrings(FieldID, loserIDs), scope(userID, categoryID)))
	if err != nil {
		return nil, err
	}
	log.Info("own_platform_merge_completed", slog.Int64("merged", removed))

	return &survivor, nil
}

// DeleteAllInCategory removes every own platform record of a category.
func (c *Controller) DeleteAllInCategory(ctx context.Context, userID, categoryID string) (int64, error) {
	return c.helper.Delete(ctx, scope(userID, categoryID))
}

// DeleteAllForUser removes every own platform record owned by the user.
func (c *Controller) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return c.helper.Delete(ctx, store.Eq(FieldOwner, userID))
}
