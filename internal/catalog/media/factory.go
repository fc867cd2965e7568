// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package media

import (
	"context"
	"fmt"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/controller"
	"github.com/mediashelf/mediashelf/internal/catalog/search"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
)

// ItemController is the subtype-erased surface of a media item controller.
// The factory, the sibling entity controllers and the HTTP layer all reach
// media items through it without compile-time knowledge of the concrete item
// type; the REST methods carry items as `any` for the same reason.
type ItemController interface {
	MediaType() category.MediaType
	CountMediaItems(ctx context.Context, userID, categoryID string) (int64, error)
	DeleteAllMediaItemsInCategory(ctx context.Context, userID, categoryID string) (int64, error)
	DeleteAllMediaItemsForUser(ctx context.Context, userID string) (int64, error)
	ClearGroupInAllMediaItems(ctx context.Context, userID, categoryID, groupID string) (int64, error)
	ReplaceOwnPlatformInAllMediaItems(ctx context.Context, userID, categoryID string, oldIDs []string, newID *string) (int64, error)

	// REST surface, implemented by the generic controller's erased adapters.
	ListItems(ctx context.Context, userID, categoryID string) (any, error)
	ListItemsInGroup(ctx context.Context, userID, categoryID, groupID string) (any, error)
	ListItemsInOwnPlatform(ctx context.Context, userID, categoryID, ownPlatformID string) (any, error)
	GetItem(ctx context.Context, userID, categoryID, itemID string) (any, error)
	FilterItems(ctx context.Context, userID, categoryID string, filter *ItemFilter, sorts []SortRequest) (any, error)
	SearchItems(ctx context.Context, userID, categoryID, term string, filter *ItemFilter) (any, error)
	SaveItemJSON(ctx context.Context, userID, categoryID, itemID string, payload []byte) (any, error)
	DeleteItem(ctx context.Context, userID, categoryID, itemID string) error
}

// Factory resolves which media item controller governs a media type or a
// category. It is the single dispatch point behind every cross-subtype
// cascade, and the one place to extend when a new media type is added.
//
// The factory also implements the cascade interfaces the user, category,
// group and own platform controllers declare, so wiring it in closes the
// dependency cycle between those controllers and the media layer.
type Factory struct {
	categories  CategoryReader
	controllers map[category.MediaType]ItemController
	searchers   map[category.MediaType]search.Client
}

// NewFactory constructs an empty factory; subtypes register afterwards
// during assembly.
func NewFactory(categories CategoryReader) *Factory {
	return &Factory{
		categories:  categories,
		controllers: make(map[category.MediaType]ItemController),
		searchers:   make(map[category.MediaType]search.Client),
	}
}

// Register binds one subtype's controller and its catalog search client. A
// nil client falls back to [search.Noop].
func (f *Factory) Register(itemController ItemController, searcher search.Client) {
	if searcher == nil {
		searcher = search.Noop{}
	}
	f.controllers[itemController.MediaType()] = itemController
	f.searchers[itemController.MediaType()] = searcher
}

// # Lookups

// ForMediaType returns the controller governing one media type. An
// unregistered type is a GENERIC contract error: the registry and the media
// type enumeration must never disagree.
func (f *Factory) ForMediaType(mediaType category.MediaType) (ItemController, error) {
	itemController, registered := f.controllers[mediaType]
	if !registered {
		return nil, apperr.Generic(fmt.Sprintf("No media item controller registered for media type %q", mediaType), nil)
	}
	return itemController, nil
}

// ForCategory returns the controller governing a category's items.
func (f *Factory) ForCategory(cat *category.Category) (ItemController, error) {
	return f.ForMediaType(cat.MediaType)
}

// ForUserCategory loads the category and returns its controller alongside.
// A category missing under the given owner is a FIND_ERROR.
func (f *Factory) ForUserCategory(ctx context.Context, userID, categoryID string) (ItemController, *category.Category, error) {
	cat, err := f.categories.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, nil, err
	}
	if cat == nil {
		return nil, nil, apperr.Find("Category does not exist for given user", nil)
	}

	itemController, err := f.ForCategory(cat)
	if err != nil {
		return nil, nil, err
	}
	return itemController, cat, nil
}

// SearchClient returns the catalog search client bound to one media type.
func (f *Factory) SearchClient(mediaType category.MediaType) (search.Client, error) {
	searcher, registered := f.searchers[mediaType]
	if !registered {
		return nil, apperr.Generic(fmt.Sprintf("No catalog search client registered for media type %q", mediaType), nil)
	}
	return searcher, nil
}

// # Cascade Adapters

// CountMediaItems implements the category controller's item cascade.
func (f *Factory) CountMediaItems(ctx context.Context, userID, categoryID string, mediaType category.MediaType) (int64, error) {
	itemController, err := f.ForMediaType(mediaType)
	if err != nil {
		return 0, err
	}
	return itemController.CountMediaItems(ctx, userID, categoryID)
}

// DeleteAllMediaItems implements the category controller's item cascade.
func (f *Factory) DeleteAllMediaItems(ctx context.Context, userID, categoryID string, mediaType category.MediaType) (int64, error) {
	itemController, err := f.ForMediaType(mediaType)
	if err != nil {
		return 0, err
	}
	return itemController.DeleteAllMediaItemsInCategory(ctx, userID, categoryID)
}

// ClearGroupInAllMediaItems implements the group controller's item detach.
func (f *Factory) ClearGroupInAllMediaItems(ctx context.Context, userID, categoryID, groupID string) (int64, error) {
	itemController, _, err := f.ForUserCategory(ctx, userID, categoryID)
	if err != nil {
		return 0, err
	}
	return itemController.ClearGroupInAllMediaItems(ctx, userID, categoryID, groupID)
}

// ReplaceOwnPlatformInAllMediaItems implements the own platform controller's
// item rewrite.
func (f *Factory) ReplaceOwnPlatformInAllMediaItems(ctx context.Context, userID, categoryID string, oldIDs []string, newID *string) (int64, error) {
	itemController, _, err := f.ForUserCategory(ctx, userID, categoryID)
	if err != nil {
		return 0, err
	}
	return itemController.ReplaceOwnPlatformInAllMediaItems(ctx, userID, categoryID, oldIDs, newID)
}

// DeleteAllForUser implements the user controller's cascade: every subtype
// collection drops the user's items concurrently and the counts are summed.
func (f *Factory) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	deletes := make([]controller.DeleteFn, 0, len(f.controllers))
	for _, itemController := range f.controllers {
		itemController := itemController
		deletes = append(deletes, func(ctx context.Context) (int64, error) {
			return itemController.DeleteAllMediaItemsForUser(ctx, userID)
		})
	}
	return controller.CascadeDelete(ctx, true, "", nil, deletes...)
}
