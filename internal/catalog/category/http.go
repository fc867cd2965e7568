// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	requestutil "github.com/mediashelf/mediashelf/internal/platform/request"
	"github.com/mediashelf/mediashelf/internal/platform/respond"
	"github.com/mediashelf/mediashelf/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for categories and anchors the
// per-category subtree (groups, own platforms, media items).
type Handler struct {
	controller     *Controller
	groupRoutes    chi.Router
	platformRoutes chi.Router
	itemRoutes     chi.Router
}

// NewHandler constructs a new category [Handler]. The sub-routers are mounted
// under /{categoryId}.
func NewHandler(controller *Controller, groupRoutes, platformRoutes, itemRoutes chi.Router) *Handler {
	return &Handler{
		controller:     controller,
		groupRoutes:    groupRoutes,
		platformRoutes: platformRoutes,
		itemRoutes:     itemRoutes,
	}
}

// Routes returns a [chi.Router] configured with category endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Post("/", handler.createCategory)

	router.Route("/{categoryId}", func(subRouter chi.Router) {
		subRouter.Get("/", handler.getCategory)
		subRouter.Put("/", handler.updateCategory)
		subRouter.Delete("/", handler.deleteCategory)
		subRouter.Mount("/groups", handler.groupRoutes)
		subRouter.Mount("/own-platforms", handler.platformRoutes)
		subRouter.Mount("/media-items", handler.itemRoutes)
	})

	return router
}

func validateCategory(input *Category) error {
	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		Required("media_type", string(input.MediaType))

	if _, err := ParseMediaType(string(input.MediaType)); input.MediaType != "" && err != nil {
		validator.Custom("media_type", true, "Unknown media type")
	}

	return validator.Err()
}

// # Category Endpoints

/*
GET /api/v1/users/{userId}/categories.

Description: Lists the user's categories sorted by name. Supports exact,
case-insensitive name lookup.

Request:
  - name: string (optional exact name filter)

Response:
  - 200: []Category: Success
*/
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")

	var name *string
	if raw := request.URL.Query().Get("name"); raw != "" {
		name = &raw
	}

	categories, err := handler.controller.GetAllCategories(request.Context(), userID, name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, categories)
}

/*
POST /api/v1/users/{userId}/categories.

Description: Creates a category. The media type decides which media item
subtype the category will hold and cannot change once items exist.

Request (Body):
  - Category JSON object (name, media_type)

Response:
  - 201: Category: Created object
  - 400: ErrInvalidJSON/Validation: Invalid input data
*/
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")

	var input Category
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validateCategory(&input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = ""
	input.Owner = ref.FromID[user.User](userID)
	if err := handler.controller.SaveCategory(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
GET /api/v1/users/{userId}/categories/{categoryId}.

Description: Retrieves one category of the user. Categories owned by other
users are invisible, not forbidden.

Response:
  - 200: Category: Success
  - 404: ErrNotFound: Category not found
*/
func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")

	category, err := handler.controller.GetCategory(request.Context(), userID, categoryID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if category == nil {
		respond.Error(writer, request, apperr.NotFound("Category"))
		return
	}

	respond.OK(writer, category)
}

/*
PUT /api/v1/users/{userId}/categories/{categoryId}.

Description: Updates a category. Changing the media type is refused while the
category still contains media items.

Request (Body):
  - Category JSON object

Response:
  - 200: Category: Updated entity
  - 400: SAVE_ERROR: Category missing or media type frozen
*/
func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")

	var input Category
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validateCategory(&input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = categoryID
	input.Owner = ref.FromID[user.User](userID)
	if err := handler.controller.SaveCategory(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, input)
}

/*
DELETE /api/v1/users/{userId}/categories/{categoryId}.

Description: Deletes a category. Refused while media items exist inside,
unless force=true also removes the items, groups and own platforms.

Request:
  - force: bool (optional, delete a non-empty category)

Response:
  - 200: {"records_removed": N}: Success
  - 400: DELETE_ERROR: Category not found
  - 409: DELETE_NOT_EMPTY_ERROR: Category still contains media items
*/
func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")
	force := request.URL.Query().Get("force") == "true"

	removed, err := handler.controller.DeleteCategory(request.Context(), userID, categoryID, force)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int64{"records_removed": removed})
}
