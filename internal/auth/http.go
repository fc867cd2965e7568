// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediashelf/mediashelf/internal/platform/middleware"
	requestutil "github.com/mediashelf/mediashelf/internal/platform/request"
	"github.com/mediashelf/mediashelf/internal/platform/respond"
	"github.com/mediashelf/mediashelf/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register : Creates a catalog user with a login credential.
//   - POST /login    : Authenticates and returns a JWT.
//   - POST /logout   : Revokes the current session (auth required).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
POST /api/v1/auth/register.

Description: Validates input, checks for username conflicts, and creates the
catalog user together with its login credential.

Request:
  - Body: registerRequest (Username, Password, DisplayName)

Response:
  - 201: User: Created catalog user
  - 400: ErrInvalidJSON/Validation: Bad input
  - 409: SAVE_UNIQUENESS_ERROR: Username or display name already taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("username", input.Username).
		MinLen("username", input.Username, 3).
		MaxLen("username", input.Username, 50).
		Required("password", input.Password).
		MinLen("password", input.Password, 8).
		MaxLen("display_name", input.DisplayName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    input.Username,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
POST /api/v1/auth/login.

Description: Verifies credentials, opens a session and returns the signed
access token.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: Session: Access token and expiry
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("username", input.Username).
		Required("password", input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
POST /api/v1/auth/logout.

Description: Revokes the session carried by the presented token.

Response:
  - 204: No Content: Session revoked
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
