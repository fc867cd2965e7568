// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package ownplatform

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

// Handler implements the HTTP layer for own platforms, including the
// multi-step merge workflow.
type Handler struct {
	controller *Controller
}

// NewHandler constructs a new own platform [Handler].
func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

// Routes returns a [chi.Router] configured with own platform endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listOwnPlatforms)
	router.Post("/", handler.createOwnPlatform)
	router.Post("/merge", handler.mergeOwnPlatforms)

	router.Route("/{ownPlatformId}", func(subRouter chi.Router) {
		subRouter.Get("/", handler.getOwnPlatform)
		subRouter.Put("/", handler.updateOwnPlatform)
		subRouter.Delete("/", handler.deleteOwnPlatform)
	})

	return router
}

func validateOwnPlatform(input *OwnPlatform) error {
	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		MaxLen("color", input.Color, 20).
		MaxLen("icon", input.Icon, 100)
	return validator.Err()
}

// # Own Platform Endpoints

/*
GET /api/v1/users/{userId}/categories/{categoryId}/own-platforms.

Description: Lists the category's own platforms sorted by name. Supports
exact, case-insensitive name lookup.

Request:
  - name: string (optional exact name filter)

Response:
  - 200: []OwnPlatform: Success
*/
func (handler *Handler) listOwnPlatforms(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")

	var name *string
	if raw := request.URL.Query().Get("name"); raw != "" {
		name = &raw
	}

	platforms, err := handler.controller.GetAllOwnPlatforms(request.Context(), userID, categoryID, name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, platforms)
}

/*
POST /api/v1/users/{userId}/categories/{categoryId}/own-platforms.

Description: Creates an own platform inside the category.

Request (Body):
  - OwnPlatform JSON object (name, color, icon)

Response:
  - 201: OwnPlatform: Created object
  - 400: SAVE_ERROR: Category does not exist for given user
*/
func (handler *Handler) createOwnPlatform(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")

	var input OwnPlatform
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validateOwnPlatform(&input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = ""
	input.Owner = ref.FromID[user.User](userID)
	input.Category = ref.FromID[category.Category](categoryID)
	if err := handler.controller.SaveOwnPlatform(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
GET /api/v1/users/{userId}/categories/{categoryId}/own-platforms/{ownPlatformId}.

Description: Retrieves one own platform of the category.

Response:
  - 200: OwnPlatform: Success
  - 404: ErrNotFound: Own platform not found
*/
func (handler *Handler) getOwnPlatform(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")
	ownPlatformID := requestutil.ID(request, "ownPlatformId")

	platform, err := handler.controller.GetOwnPlatform(request.Context(), userID, categoryID, ownPlatformID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if platform == nil {
		respond.Error(writer, request, apperr.NotFound("Own platform"))
		return
	}

	respond.OK(writer, platform)
}

/*
PUT /api/v1/users/{userId}/categories/{categoryId}/own-platforms/{ownPlatformId}.

Description: Updates an own platform's name, color and icon.

Request (Body):
  - OwnPlatform JSON object

Response:
  - 200: OwnPlatform: Updated entity
  - 400: SAVE_ERROR: Own platform does not exist for given user and category
*/
func (handler *Handler) updateOwnPlatform(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")
	ownPlatformID := requestutil.ID(request, "ownPlatformId")

	var input OwnPlatform
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validateOwnPlatform(&input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = ownPlatformID
	input.Owner = ref.FromID[user.User](userID)
	input.Category = ref.FromID[category.Category](categoryID)
	if err := handler.controller.SaveOwnPlatform(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, input)
}

/*
DELETE /api/v1/users/{userId}/categories/{categoryId}/own-platforms/{ownPlatformId}.

Description: Deletes an own platform. Media items that pointed at it keep
existing with the reference cleared.

Response:
  - 200: {"records_removed": 1}: Success
  - 400: DELETE_ERROR: Own platform not found
*/
func (handler *Handler) deleteOwnPlatform(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")
	ownPlatformID := requestutil.ID(request, "ownPlatformId")

	removed, err := handler.controller.DeleteOwnPlatform(request.Context(), userID, categoryID, ownPlatformID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int64{"records_removed": removed})
}

// # Merge Workflow

type mergeRequest struct {
	OwnPlatformIDs []string `json:"own_platform_ids"`
	Name           string   `json:"name"`
	Color          string   `json:"color"`
	Icon           string   `json:"icon"`
}

/*
POST /api/v1/users/{userId}/categories/{categoryId}/own-platforms/merge.

Description: Collapses two or more own platforms into one. The first id in
the list survives and takes over the merged name, color and icon; media items
of the losing platforms are re-pointed at the survivor before the losers are
deleted.

Request (Body):
  - own_platform_ids: []string (survivor first, at least two)
  - name, color, icon: string (merged values)

Response:
  - 200: OwnPlatform: The surviving platform
  - 400: SAVE_ERROR: Fewer than two ids, or ids missing in scope
*/
func (handler *Handler) mergeOwnPlatforms(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")
	categoryID := requestutil.ID(request, "categoryId")

	var input mergeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	merged := OwnPlatform{Name: input.Name, Color: input.Color, Icon: input.Icon}
	if err := validateOwnPlatform(&merged); err != nil {
		respond.Error(writer, request, err)
		return
	}

	survivor, err := handler.controller.MergeOwnPlatforms(request.Context(), userID, categoryID, input.OwnPlatformIDs, merged)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, survivor)
}
