// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package media

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	requestutil "github.com/mediashelf/mediashelf/internal/platform/request"
	"github.com/mediashelf/mediashelf/internal/platform/respond"
	"github.com/mediashelf/mediashelf/internal/platform/validate"
	queryutil "github.com/mediashelf/mediashelf/pkg/query"
)

// # REST Adapters
//
// The HTTP handler serves four item subtypes behind one route tree, so it
// cannot name a concrete item type. These erased adapters on the generic
// controller carry items as `any` and absorb the JSON decode that the
// handler cannot perform generically.

// ListItems returns the category's items in the subtype's default order.
func (c *Controller[T, PT]) ListItems(ctx context.Context, userID, categoryID string) (any, error) {
	return c.GetAllMediaItemsInCategory(ctx, userID, categoryID)
}

// ListItemsInGroup returns the items of one group in manual order.
func (c *Controller[T, PT]) ListItemsInGroup(ctx context.Context, userID, categoryID, groupID string) (any, error) {
	return c.GetAllMediaItemsInGroup(ctx, userID, categoryID, groupID)
}

// ListItemsInOwnPlatform returns the items tagged with one own platform.
func (c *Controller[T, PT]) ListItemsInOwnPlatform(ctx context.Context, userID, categoryID, ownPlatformID string) (any, error) {
	return c.GetAllMediaItemsInOwnPlatform(ctx, userID, categoryID, ownPlatformID)
}

// GetItem returns one item, or a nil interface when it does not exist.
func (c *Controller[T, PT]) GetItem(ctx context.Context, userID, categoryID, itemID string) (any, error) {
	item, err := c.GetMediaItem(ctx, userID, categoryID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return item, nil
}

// FilterItems runs the dynamic filter with a caller-supplied ordering.
func (c *Controller[T, PT]) FilterItems(ctx context.Context, userID, categoryID string, filter *ItemFilter, sorts []SortRequest) (any, error) {
	return c.FilterAndOrderMediaItems(ctx, userID, categoryID, filter, sorts)
}

// SearchItems runs a term search intersected with the dynamic filter.
func (c *Controller[T, PT]) SearchItems(ctx context.Context, userID, categoryID, term string, filter *ItemFilter) (any, error) {
	return c.SearchMediaItems(ctx, userID, categoryID, term, filter)
}

// SaveItemJSON decodes the payload into this subtype, pins the identity
// fields from the URL, and saves with full preconditions. An empty itemID
// inserts; a set one updates.
func (c *Controller[T, PT]) SaveItemJSON(ctx context.Context, userID, categoryID, itemID string, payload []byte) (any, error) {
	var item T
	if err := json.Unmarshal(payload, PT(&item)); err != nil {
		return nil, validate.ErrInvalidJSON
	}

	core := PT(&item).ItemCore()
	if strings.TrimSpace(core.Name) == "" {
		return nil, validate.RequiredError("name", "This field is required")
	}

	core.ID = itemID
	core.Owner = ref.FromID[user.User](userID)
	core.Category = ref.FromID[category.Category](categoryID)

	if err := c.SaveMediaItem(ctx, PT(&item), false); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes one item.
func (c *Controller[T, PT]) DeleteItem(ctx context.Context, userID, categoryID, itemID string) error {
	return c.DeleteMediaItem(ctx, userID, categoryID, itemID)
}

// # Handler Implementation

// Handler implements the HTTP layer for media items of every subtype. The
// category in the URL decides which subtype controller serves the request.
type Handler struct {
	factory *Factory
}

// NewHandler constructs a new media item [Handler].
func NewHandler(factory *Factory) *Handler {
	return &Handler{factory: factory}
}

// Routes returns a [chi.Router] configured with media item endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listItems)
	router.Post("/", handler.createItem)
	router.Post("/filter", handler.filterItems)
	router.Post("/search", handler.searchItems)
	router.Get("/catalog-search", handler.catalogSearch)

	router.Route("/{itemId}", func(subRouter chi.Router) {
		subRouter.Get("/", handler.getItem)
		subRouter.Put("/", handler.updateItem)
		subRouter.Delete("/", handler.deleteItem)
	})

	return router
}

// resolve picks the subtype controller governing the category in the URL.
func (handler *Handler) resolve(request *http.Request) (ItemController, string, string, error) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")

	itemController, _, err := handler.factory.ForUserCategory(request.Context(), userID, categoryID)
	return itemController, userID, categoryID, err
}

// # Request Payloads

type filterItemsRequest struct {
	Filter *ItemFilter   `json:"filter"`
	SortBy []SortRequest `json:"sort_by"`
}

type searchItemsRequest struct {
	Term   string      `json:"term"`
	Filter *ItemFilter `json:"filter"`
}

// # Media Item Endpoints

/*
GET /api/v1/users/{userId}/categories/{categoryId}/media-items.

Description: Lists the category's items in the subtype's default order
(importance first, names breaking ties). Optionally narrows to one group
(manual in-group order) or one own platform.

Request:
  - group_id: string (optional; items of one group, in manual order)
  - own_platform_id: string (optional; items tagged with one own platform)
  - importance: string (optional; comma-separated importance level names)

Response:
  - 200: []MediaItem: Success (concrete subtype decided by the category)
*/
func (handler *Handler) listItems(writer http.ResponseWriter, request *http.Request) {
	itemController, userID, categoryID, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	queryParams := request.URL.Query()

	var items any
	switch {
	case queryParams.Get("group_id") != "":
		items, err = itemController.ListItemsInGroup(request.Context(), userID, categoryID, queryParams.Get("group_id"))
	case queryParams.Get("own_platform_id") != "":
		items, err = itemController.ListItemsInOwnPlatform(request.Context(), userID, categoryID, queryParams.Get("own_platform_id"))
	case queryParams.Get("importance") != "":
		var filter ItemFilter
		for _, name := range queryutil.StringSlice(queryParams.Get("importance")) {
			level, parseErr := ParseImportance(name)
			if parseErr != nil {
				respond.Error(writer, request, validate.RequiredError("importance", "Unknown importance level: "+name))
				return
			}
			filter.ImportanceLevels = append(filter.ImportanceLevels, level)
		}
		items, err = itemController.FilterItems(request.Context(), userID, categoryID, &filter, nil)
	default:
		items, err = itemController.ListItems(request.Context(), userID, categoryID)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

/*
POST /api/v1/users/{userId}/categories/{categoryId}/media-items.

Description: Creates a media item of the category's subtype. Group and own
platform references must resolve inside the same category.

Request (Body):
  - MediaItem JSON object (subtype fields per the category's media type)

Response:
  - 201: MediaItem: Created object
  - 400: SAVE_ERROR: Broken reference or category mismatch
*/
func (handler *Handler) createItem(writer http.ResponseWriter, request *http.Request) {
	itemController, userID, categoryID, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := io.ReadAll(request.Body)
	if err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	item, err := itemController.SaveItemJSON(request.Context(), userID, categoryID, "", payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, item)
}

/*
POST /api/v1/users/{userId}/categories/{categoryId}/media-items/filter.

Description: Runs the dynamic filter with a caller-supplied ordering. All
filter fields are optional; omitted sort falls back to the subtype default.

Request (Body):
  - filter: ItemFilter (importance_levels, name, completed, groups, own_platforms)
  - sort_by: []SortRequest (field, direction)

Response:
  - 200: []MediaItem: Matching items in requested order
*/
func (handler *Handler) filterItems(writer http.ResponseWriter, request *http.Request) {
	itemController, userID, categoryID, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input filterItemsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := itemController.FilterItems(request.Context(), userID, categoryID, input.Filter, input.SortBy)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

/*
POST /api/v1/users/{userId}/categories/{categoryId}/media-items/search.

Description: Matches a literal, case-insensitive term against the item name
and the subtype's credit fields (authors, directors, creators, developers,
publishers), intersected with the optional dynamic filter.

Request (Body):
  - term: string (required)
  - filter: ItemFilter (optional)

Response:
  - 200: []MediaItem: Matching items in default order
  - 400: Validation: Missing term
*/
func (handler *Handler) searchItems(writer http.ResponseWriter, request *http.Request) {
	itemController, userID, categoryID, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input searchItemsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("term", input.Term)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := itemController.SearchItems(request.Context(), userID, categoryID, input.Term, input.Filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

/*
GET /api/v1/users/{userId}/categories/{categoryId}/media-items/catalog-search.

Description: Queries the external catalog provider bound to the category's
media type. Deployments without provider credentials answer with an empty
list.

Request:
  - term: string (required)

Response:
  - 200: []search.Result: Provider matches
  - 400: Validation: Missing term
*/
func (handler *Handler) catalogSearch(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")

	_, cat, err := handler.factory.ForUserCategory(request.Context(), userID, categoryID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	term := request.URL.Query().Get("term")
	validator := &validate.Validator{}
	validator.Required("term", term)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	searcher, err := handler.factory.SearchClient(cat.MediaType)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	results, err := searcher.SearchByTerm(request.Context(), term)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, results)
}

/*
GET /api/v1/users/{userId}/categories/{categoryId}/media-items/{itemId}.

Description: Retrieves one media item with its group and own platform
references resolved to full entities.

Response:
  - 200: MediaItem: Success
  - 404: ErrNotFound: Media item not found
*/
func (handler *Handler) getItem(writer http.ResponseWriter, request *http.Request) {
	itemController, userID, categoryID, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := itemController.GetItem(request.Context(), userID, categoryID, requestutil.ID(request, "itemId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if item == nil {
		respond.Error(writer, request, apperr.NotFound("Media item"))
		return
	}

	respond.OK(writer, item)
}

/*
PUT /api/v1/users/{userId}/categories/{categoryId}/media-items/{itemId}.

Description: Updates a media item. The item must already exist in the
category; identity fields in the body are overridden by the URL.

Request (Body):
  - MediaItem JSON object

Response:
  - 200: MediaItem: Updated entity
  - 400: SAVE_ERROR: Item missing or broken reference
*/
func (handler *Handler) updateItem(writer http.ResponseWriter, request *http.Request) {
	itemController, userID, categoryID, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := io.ReadAll(request.Body)
	if err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	item, err := itemController.SaveItemJSON(request.Context(), userID, categoryID, requestutil.ID(request, "itemId"), payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, item)
}

/*
DELETE /api/v1/users/{userId}/categories/{categoryId}/media-items/{itemId}.

Description: Deletes one media item. Groups and own platforms it referenced
are untouched.

Response:
  - 204: No Content: Success
  - 400: DELETE_ERROR: Media item not found
*/
func (handler *Handler) deleteItem(writer http.ResponseWriter, request *http.Request) {
	itemController, userID, categoryID, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := itemController.DeleteItem(request.Context(), userID, categoryID, requestutil.ID(request, "itemId")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
