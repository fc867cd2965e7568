// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediashelf/mediashelf/internal/platform/apperr"
	"github.com/mediashelf/mediashelf/internal/platform/middleware"
	requestutil "github.com/mediashelf/mediashelf/internal/platform/request"
	"github.com/mediashelf/mediashelf/internal/platform/respond"
	"github.com/mediashelf/mediashelf/internal/platform/validate"
	"github.com/mediashelf/mediashelf/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for user accounts. It also anchors the
// per-user catalog subtree: everything below /{userId} requires the token to
// match that user.
type Handler struct {
	controller     *Controller
	categoryRoutes chi.Router
}

// NewHandler constructs a new user [Handler]. categoryRoutes is mounted under
// /{userId}/categories.
func NewHandler(controller *Controller, categoryRoutes chi.Router) *Handler {
	return &Handler{controller: controller, categoryRoutes: categoryRoutes}
}

// Routes returns a [chi.Router] configured with user endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Get("/", handler.listUsers)
	router.Post("/", handler.createUser)

	router.Route("/{userId}", func(subRouter chi.Router) {
		subRouter.Use(middleware.RequireUserMatch("userId"))
		subRouter.Get("/", handler.getUser)
		subRouter.Put("/", handler.updateUser)
		subRouter.Delete("/", handler.deleteUser)
		subRouter.Mount("/categories", handler.categoryRoutes)
	})

	return router
}

// # User Endpoints

/*
GET /api/v1/users.

Description: Lists all users sorted by name. Supports exact,
case-insensitive name lookup.

Request:
  - name: string (optional exact name filter)
  - page, limit: int (optional pagination)

Response:
  - 200: []User + pagination meta: Success
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	var name *string
	if raw := request.URL.Query().Get("name"); raw != "" {
		name = &raw
	}

	users, err := handler.controller.GetAllUsers(request.Context(), name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	total := len(users)
	start := min(params.Offset(), total)
	end := min(start+params.Limit, total)

	respond.Paginated(writer, users[start:end], pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/users.

Description: Creates a bare catalog user without login credentials.
Accounts with credentials are created through /auth/register instead.

Request (Body):
  - User JSON object

Response:
  - 201: User: Created object
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 409: SAVE_UNIQUENESS_ERROR: Name already taken
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input User
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 100)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = ""
	if err := handler.controller.SaveUser(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
GET /api/v1/users/{userId}.

Description: Retrieves one user account.

Response:
  - 200: User: Success
  - 404: ErrNotFound: User not found
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")

	account, err := handler.controller.GetUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if account == nil {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	respond.OK(writer, account)
}

/*
PUT /api/v1/users/{userId}.

Description: Renames a user. Name uniqueness is enforced across all users;
re-saving the unchanged name is not a conflict.

Request (Body):
  - User JSON object

Response:
  - 200: User: Updated entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 409: SAVE_UNIQUENESS_ERROR: Name already taken
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")

	var input User
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 100)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = userID
	if err := handler.controller.SaveUser(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, input)
}

/*
DELETE /api/v1/users/{userId}.

Description: Deletes the user and cascades through everything it owns:
categories, groups, own platforms and media items of every type.

Response:
  - 200: {"records_removed": N}: Success
  - 400: DELETE_ERROR: User not found
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userId")

	removed, err := handler.controller.DeleteUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int64{"records_removed": removed})
}
