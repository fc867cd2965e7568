// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package group

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/ref"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	requestutil "github.com/mediashelf/mediashelf/internal/platform/request"
	"github.com/mediashelf/mediashelf/internal/platform/respond"
	"github.com/mediashelf/mediashelf/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for media item groups.
type Handler struct {
	controller *Controller
}

// NewHandler constructs a new group [Handler].
func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

// Routes returns a [chi.Router] configured with group endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listGroups)
	router.Post("/", handler.createGroup)

	router.Route("/{groupId}", func(subRouter chi.Router) {
		subRouter.Get("/", handler.getGroup)
		subRouter.Put("/", handler.updateGroup)
		subRouter.Delete("/", handler.deleteGroup)
	})

	return router
}

func validateGroup(input *Group) error {
	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 100)
	return validator.Err()
}

// # Group Endpoints

/*
GET /api/v1/users/{userId}/categories/{categoryId}/groups.

Description: Lists the category's groups sorted by name. Supports exact,
case-insensitive name lookup.

Request:
  - name: string (optional exact name filter)

Response:
  - 200: []Group: Success
*/
func (handler *Handler) listGroups(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")

	var name *string
	if raw := request.URL.Query().Get("name"); raw != "" {
		name = &raw
	}

	groups, err := handler.controller.GetAllGroups(request.Context(), userID, categoryID, name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, groups)
}

/*
POST /api/v1/users/{userId}/categories/{categoryId}/groups.

Description: Creates a group inside the category.

Request (Body):
  - Group JSON object (name)

Response:
  - 201: Group: Created object
  - 400: SAVE_ERROR: Category does not exist for given user
*/
func (handler *Handler) createGroup(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")

	var input Group
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validateGroup(&input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = ""
	input.Owner = ref.FromID[user.User](userID)
	input.Category = ref.FromID[category.Category](categoryID)
	if err := handler.controller.SaveGroup(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
GET /api/v1/users/{userId}/categories/{categoryId}/groups/{groupId}.

Description: Retrieves one group of the category.

Response:
  - 200: Group: Success
  - 404: ErrNotFound: Group not found
*/
func (handler *Handler) getGroup(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")
	groupID := requestutil.ID(request, "groupId")

	group, err := handler.controller.GetGroup(request.Context(), userID, categoryID, groupID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if group == nil {
		respond.Error(writer, request, apperr.NotFound("Group"))
		return
	}

	respond.OK(writer, group)
}

/*
PUT /api/v1/users/{userId}/categories/{categoryId}/groups/{groupId}.

Description: Renames a group.

Request (Body):
  - Group JSON object

Response:
  - 200: Group: Updated entity
  - 400: SAVE_ERROR: Group does not exist for given user and category
*/
func (handler *Handler) updateGroup(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")
	groupID := requestutil.ID(request, "groupId")

	var input Group
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validateGroup(&input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = groupID
	input.Owner = ref.FromID[user.User](userID)
	input.Category = ref.FromID[category.Category](categoryID)
	if err := handler.controller.SaveGroup(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, input)
}

/*
DELETE /api/v1/users/{userId}/categories/{categoryId}/groups/{groupId}.

Description: Deletes a group. Media items that pointed at it are detached
(group reference cleared, in-group position reset) but never deleted.

Response:
  - 200: {"records_removed": 1}: Success
  - 400: DELETE_ERROR: Group not found
*/
func (handler *Handler) deleteGroup(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")
	groupID := requestutil.ID(request, "groupId")

	removed, err := handler.controller.DeleteGroup(request.Context(), userID, categoryID, groupID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int64{"records_removed": removed})
}
