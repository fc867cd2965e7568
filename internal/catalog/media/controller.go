// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package media

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/controller"
	"github.com/mediashelf/mediashelf/internal/catalog/group"
	"github.com/mediashelf/mediashelf/internal/catalog/ownplatform"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/store"
)

// Descriptor is the behavior one media subtype contributes to the generic
// controller: its identity, its default ordering, and the sortable and
// searchable fields beyond the shared core.
type Descriptor interface {
	// MediaType tags which category media type this subtype serves.
	MediaType() category.MediaType

	// EntityName is the display name used in error messages ("Book").
	EntityName() string

	// DefaultSort orders results when the caller supplies no sort request.
	DefaultSort() []store.SortSpec

	// SortColumn maps a wire-level sort field onto a stored field. It must
	// delegate the shared fields to the common mapping and add only the
	// subtype's own.
	SortColumn(field SortField) (store.Field, bool)

	// SearchFields lists the subtype fields matched by a term search in
	// addition to the item name (authors, directors, creators, ...).
	SearchFields() []store.Field
}

// CategoryReader resolves the owning category during save preconditions and
// factory lookups.
type CategoryReader interface {
	GetCategory(ctx context.Context, userID, categoryID string) (*category.Category, error)
}

// GroupReader resolves group references, both one-by-one for preconditions
// and in batch for populating results.
type GroupReader interface {
	GetGroup(ctx context.Context, userID, categoryID, groupID string) (*group.Group, error)
	GetGroupsByIDs(ctx context.Context, userID, categoryID string, groupIDs []string) ([]group.Group, error)
}

// PlatformReader resolves own platform references the same two ways.
type PlatformReader interface {
	GetOwnPlatform(ctx context.Context, userID, categoryID, ownPlatformID string) (*ownplatform.OwnPlatform, error)
	GetOwnPlatformsByIDs(ctx context.Context, userID, categoryID string, ownPlatformIDs []string) ([]ownplatform.OwnPlatform, error)
}

// Controller carries all media item semantics for one concrete subtype T.
// PT constrains T's pointer type to expose the embedded [Core], which is the
// only part of T the shared logic ever touches.
type Controller[T any, PT interface {
	*T
	Entry
}] struct {
	helper     *store.QueryHelper[T]
	descriptor Descriptor
	categories CategoryReader
	groups     GroupReader
	platforms  PlatformReader
	logger     *slog.Logger
}

// NewController constructs the controller for one subtype and registers the
// group and own platform populators on its query helper.
func NewController[T any, PT interface {
	*T
	Entry
}](
	helper *store.QueryHelper[T],
	descriptor Descriptor,
	categories CategoryReader,
	groups GroupReader,
	platforms PlatformReader,
	logger *slog.Logger,
) *Controller[T, PT] {
	c := &Controller[T, PT]{
		helper:     helper,
		descriptor: descriptor,
		categories: categories,
		groups:     groups,
		platforms:  platforms,
		logger:     logger,
	}
	helper.WithPopulator(FieldGroup, c.populateGroups)
	helper.WithPopulator(FieldOwnPlatform, c.populatePlatforms)
	return c
}

// MediaType reports which category media type this controller governs.
func (c *Controller[T, PT]) MediaType() category.MediaType {
	return c.descriptor.MediaType()
}

// # Reads

// GetMediaItem returns the item under the given (owner, category) pair with
// its group and own platform references resolved, or nil when it does not
// exist in that scope.
func (c *Controller[T, PT]) GetMediaItem(ctx context.Context, userID, categoryID, itemID string) (*T, error) {
	return c.helper.FindOne(ctx,
		store.And(store.Eq(FieldID, itemID), itemScope(userID, categoryID)),
		FieldGroup, FieldOwnPlatform,
	)
}

// GetAllMediaItemsInCategory lists every item of the category in the
// subtype's default order.
func (c *Controller[T, PT]) GetAllMediaItemsInCategory(ctx context.Context, userID, categoryID string) ([]T, error) {
	return c.helper.Find(ctx, itemScope(userID, categoryID), c.descriptor.DefaultSort(), FieldGroup, FieldOwnPlatform)
}

// GetAllMediaItemsInGroup lists the items of one group, ordered by their
// manual in-group position.
func (c *Controller[T, PT]) GetAllMediaItemsInGroup(ctx context.Context, userID, categoryID, groupID string) ([]T, error) {
	return c.helper.Find(ctx,
		store.And(itemScope(userID, categoryID), store.Eq(FieldGroup, groupID)),
		[]store.SortSpec{store.Asc(FieldOrderInGroup), store.Asc(FieldName)},
		FieldGroup, FieldOwnPlatform,
	)
}

// GetAllMediaItemsInOwnPlatform lists the items tagged with one own platform
// in the subtype's default order.
func (c *Controller[T, PT]) GetAllMediaItemsInOwnPlatform(ctx context.Context, userID, categoryID, ownPlatformID string) ([]T, error) {
	return c.helper.Find(ctx,
		store.And(itemScope(userID, categoryID), store.Eq(FieldOwnPlatform, ownPlatformID)),
		c.descriptor.DefaultSort(),
		FieldGroup, FieldOwnPlatform,
	)
}

// FilterAndOrderMediaItems runs the dynamic filter with a caller-supplied
// ordering. A nil filter matches the whole category; empty sorts fall back
// to the subtype default. Unknown sort fields are a GENERIC contract error,
// not a user-facing outcome.
func (c *Controller[T, PT]) FilterAndOrderMediaItems(ctx context.Context, userID, categoryID string, filter *ItemFilter, sorts []SortRequest) ([]T, error) {
	specs, err := c.resolveSorts(sorts)
	if err != nil {
		return nil, err
	}
	return c.helper.Find(ctx, buildConditions(userID, categoryID, filter), specs, FieldGroup, FieldOwnPlatform)
}

// SearchMediaItems intersects the dynamic filter with a term match over the
// item name and the subtype's searchable fields. The term is matched as a
// literal, case-insensitive substring; it is never interpreted as a pattern.
func (c *Controller[T, PT]) SearchMediaItems(ctx context.Context, userID, categoryID, term string, filter *ItemFilter) ([]T, error) {
	matches := []store.Filter{store.Contains(FieldName, term)}
	for _, field := range c.descriptor.SearchFields() {
		matches = append(matches, store.Contains(field, term))
	}

	return c.helper.Find(ctx,
		store.And(buildConditions(userID, categoryID, filter), store.Or(matches...)),
		c.descriptor.DefaultSort(),
		FieldGroup, FieldOwnPlatform,
	)
}

// CountMediaItems reports how many items the category holds.
func (c *Controller[T, PT]) CountMediaItems(ctx context.Context, userID, categoryID string) (int64, error) {
	items, err := c.helper.Find(ctx, itemScope(userID, categoryID), nil)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

// # Writes

// SaveMediaItem inserts or updates an item after recomputing its derived
// fields. Unless skipPreconditions is set (trusted internal writes), the
// independent integrity checks run in parallel:
//
//   - insert: the category exists and its media type matches this subtype
//   - update: the item itself pre-exists under (owner, category)
//   - a set group reference resolves under the same (owner, category)
//   - a set own platform reference resolves the same way
func (c *Controller[T, PT]) SaveMediaItem(ctx context.Context, item PT, skipPreconditions bool) error {
	core := item.ItemCore()
	normalize(core)

	if !skipPreconditions {
		steps := make([]controller.Step, 0, 3)
		if core.ID == "" {
			steps = append(steps, c.requireMatchingCategory(core))
		} else {
			steps = append(steps, c.requireExistingItem(core))
		}
		if groupID := core.Group.ID(); groupID != "" {
			steps = append(steps, c.requireGroup(core, groupID))
		}
		if ownPlatformID := core.OwnPlatform.ID(); ownPlatformID != "" {
			steps = append(steps, c.requireOwnPlatform(core, ownPlatformID))
		}

		if err := controller.Parallel(ctx, steps...); err != nil {
			return err
		}
	}

	return c.helper.Save(ctx, item)
}

func (c *Controller[T, PT]) requireMatchingCategory(core *Core) controller.Step {
	return func(ctx context.Context) error {
		cat, err := c.categories.GetCategory(ctx, core.Owner.ID(), core.Category.ID())
		if err != nil {
			return err
		}
		if cat == nil {
			return apperr.Save("Category does not exist for given user", nil)
		}
		if cat.MediaType != c.descriptor.MediaType() {
			return apperr.Save(fmt.Sprintf("Category media type %s does not accept %s items", cat.MediaType, c.descriptor.EntityName()), nil)
		}
		return nil
	}
}

func (c *Controller[T, PT]) requireExistingItem(core *Core) controller.Step {
	return func(ctx context.Context) error {
		existing, err := c.helper.FindOne(ctx, store.And(store.Eq(FieldID, core.ID), itemScope(core.Owner.ID(), core.Category.ID())))
		if err != nil {
			return err
		}
		if existing == nil {
			return apperr.Save("Media item does not exist for given user and category", nil)
		}
		return nil
	}
}

func (c *Controller[T, PT]) requireGroup(core *Core, groupID string) controller.Step {
	return func(ctx context.Context) error {
		found, err := c.groups.GetGroup(ctx, core.Owner.ID(), core.Category.ID(), groupID)
		if err != nil {
			return err
		}
		if found == nil {
			return apperr.Save("Group does not exist for given user and category", nil)
		}
		return nil
	}
}

func (c *Controller[T, PT]) requireOwnPlatform(core *Core, ownPlatformID string) controller.Step {
	return func(ctx context.Context) error {
		found, err := c.platforms.GetOwnPlatform(ctx, core.Owner.ID(), core.Category.ID(), ownPlatformID)
		if err != nil {
			return err
		}
		if found == nil {
			return apperr.Save("Own platform does not exist for given user and category", nil)
		}
		return nil
	}
}

// # Deletes

// DeleteMediaItem removes one item after verifying it exists in scope.
func (c *Controller[T, PT]) DeleteMediaItem(ctx context.Context, userID, categoryID, itemID string) error {
	existing, err := c.helper.FindOne(ctx, store.And(store.Eq(FieldID, itemID), itemScope(userID, categoryID)))
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.Delete("Media item does not exist for given user and category", nil)
	}
	return c.helper.DeleteByID(ctx, itemID)
}

// DeleteAllMediaItemsInGroup removes every item of one group.
func (c *Controller[T, PT]) DeleteAllMediaItemsInGroup(ctx context.Context, userID, categoryID, groupID string) (int64, error) {
	return c.helper.Delete(ctx, store.And(itemScope(userID, categoryID), store.Eq(FieldGroup, groupID)))
}

// DeleteAllMediaItemsInCategory removes every item of the category.
func (c *Controller[T, PT]) DeleteAllMediaItemsInCategory(ctx context.Context, userID, categoryID string) (int64, error) {
	return c.helper.Delete(ctx, itemScope(userID, categoryID))
}

// DeleteAllMediaItemsForUser removes every item the user owns in this
// subtype's collection.
func (c *Controller[T, PT]) DeleteAllMediaItemsForUser(ctx context.Context, userID string) (int64, error) {
	return c.helper.Delete(ctx, store.Eq(FieldOwner, userID))
}

// # Bulk Reference Rewrites

// ReplaceOwnPlatformInAllMediaItems re-points every item referencing one of
// oldIDs at newID, or clears the reference when newID is nil. Own platform
// merge and delete are both built on it.
func (c *Controller[T, PT]) ReplaceOwnPlatformInAllMediaItems(ctx context.Context, userID, categoryID string, oldIDs []string, newID *string) (int64, error) {
	return c.helper.UpdateSelectiveMany(ctx,
		store.Update{FieldOwnPlatform: newID},
		store.And(itemScope(userID, categoryID), store.InStrings(FieldOwnPlatform, oldIDs)),
	)
}

// ClearGroupInAllMediaItems detaches every item of one group: the group
// reference is cleared and the manual position reset.
func (c *Controller[T, PT]) ClearGroupInAllMediaItems(ctx context.Context, userID, categoryID, groupID string) (int64, error) {
	return c.helper.UpdateSelectiveMany(ctx,
		store.Update{FieldGroup: (*string)(nil), FieldOrderInGroup: 0},
		store.And(itemScope(userID, categoryID), store.Eq(FieldGroup, groupID)),
	)
}

// # Sorting

func (c *Controller[T, PT]) resolveSorts(requests []SortRequest) ([]store.SortSpec, error) {
	if len(requests) == 0 {
		return c.descriptor.DefaultSort(), nil
	}

	specs := make([]store.SortSpec, 0, len(requests))
	for _, request := range requests {
		field, known := c.descriptor.SortColumn(request.Field)
		if !known {
			return nil, apperr.Generic(fmt.Sprintf("Unhandled %s sort field %q", c.descriptor.EntityName(), request.Field), nil)
		}
		specs = append(specs, store.SortSpec{Field: field, Direction: request.Direction})
	}
	return specs, nil
}

// # Populators

type populateScope struct {
	userID     string
	categoryID string
}

func (c *Controller[T, PT]) populateGroups(ctx context.Context, items []T) error {
	wanted := make(map[populateScope][]string)
	for i := range items {
		core := PT(&items[i]).ItemCore()
		groupID := core.Group.ID()
		if groupID == "" || core.Group.IsResolved() {
			continue
		}
		scope := populateScope{userID: core.Owner.ID(), categoryID: core.Category.ID()}
		wanted[scope] = appendUnique(wanted[scope], groupID)
	}

	resolved := make(map[string]group.Group)
	for scope, groupIDs := range wanted {
		groups, err := c.groups.GetGroupsByIDs(ctx, scope.userID, scope.categoryID, groupIDs)
		if err != nil {
			return err
		}
		for _, g := range groups {
			resolved[g.ID] = g
		}
	}

	for i := range items {
		core := PT(&items[i]).ItemCore()
		if g, found := resolved[core.Group.ID()]; found {
			core.Group = ref.Resolved(g.ID, g)
		}
	}
	return nil
}

func (c *Controller[T, PT]) populatePlatforms(ctx context.Context, items []T) error {
	wanted := make(map[populateScope][]string)
	for i := range items {
		core := PT(&items[i]).ItemCore()
		ownPlatformID := core.OwnPlatform.ID()
		if ownPlatformID == "" || core.OwnPlatform.IsResolved() {
			continue
		}
		scope := populateScope{userID: core.Owner.ID(), categoryID: core.Category.ID()}
		wanted[scope] = appendUnique(wanted[scope], ownPlatformID)
	}

	resolved := make(map[string]ownplatform.OwnPlatform)
	for scope, ownPlatformIDs := range wanted {
		platforms, err := c.platforms.GetOwnPlatformsByIDs(ctx, scope.userID, scope.categoryID, ownPlatformIDs)
		if err != nil {
			return err
		}
		for _, p := range platforms {
			resolved[p.ID] = p
		}
	}

	for i := range items {
		core := PT(&items[i]).ItemCore()
		if p, found := resolved[core.OwnPlatform.ID()]; found {
			core.OwnPlatform = ref.Resolved(p.ID, p)
		}
	}
	return nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
