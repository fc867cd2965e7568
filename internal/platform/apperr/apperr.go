// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package apperr defines the centralized error handling framework for Mediashelf.

It provides a rich error type that bridges the gap between the persistence
core and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Core kinds: FIND_ERROR, SAVE_ERROR, SAVE_UNIQUENESS_ERROR, DELETE_ERROR,
    DELETE_NOT_EMPTY, GENERIC — the complete error vocabulary of the entity
    controllers and the query helper.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves a controller should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

// Canonical error codes of the persistence core.
const (
	CodeFind           = "FIND_ERROR"
	CodeSave           = "SAVE_ERROR"
	CodeSaveUniqueness = "SAVE_UNIQUENESS_ERROR"
	CodeDelete         = "DELETE_ERROR"
	CodeDeleteNotEmpty = "DELETE_NOT_EMPTY"
	CodeGeneric        = "GENERIC"
)

// AppError is the canonical error type for the Mediashelf API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional list of offending entity ids (uniqueness
// violations report the duplicates they found).
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal storage details.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "FIND_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// ConflictingIDs lists the duplicate record ids behind a
	// SAVE_UNIQUENESS_ERROR response.
	ConflictingIDs []string `json:"conflicting_ids,omitempty"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// # Core Error Kinds

// Find creates a FIND_ERROR: a store read failed, or a "find exactly one"
// call matched more than one record.
func Find(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeFind,
		Message:    msg,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Save creates a SAVE_ERROR: a store write failed, an update targeted a
// missing record, or a write precondition (existence, type compatibility)
// did not hold.
func Save(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeSave,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Cause:      cause,
	}
}

// SaveUniqueness creates a SAVE_UNIQUENESS_ERROR carrying the ids of the
// duplicate records that blocked the write.
func SaveUniqueness(msg string, duplicateIDs []string) *AppError {
	return &AppError{
		Code:           CodeSaveUniqueness,
		Message:        msg + " (conflicts: " + strings.Join(duplicateIDs, ", ") + ")",
		HTTPStatus:     http.StatusConflict,
		ConflictingIDs: duplicateIDs,
	}
}

// Delete creates a DELETE_ERROR: a store delete failed or targeted a record
// that does not exist.
func Delete(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeDelete,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Cause:      cause,
	}
}

// DeleteNotEmpty creates a DELETE_NOT_EMPTY: a non-forced delete was refused
// because dependent records still exist.
func DeleteNotEmpty(msg string) *AppError {
	return &AppError{
		Code:       CodeDeleteNotEmpty,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// Generic creates a GENERIC error for programmer/contract violations (e.g.
// an unhandled sort field). These are unexpected and never a normal
// user-facing outcome.
func Generic(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeGeneric,
		Message:    msg,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # HTTP Boundary Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Category") // Returns "Category not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
