// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Cardbase.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: Dedicated constructors for every stable failure kind the guard
    chain can surface (token failures, role failures, ownership failures).
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the Cardbase API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
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

// # Authentication Errors (401)

// MissingToken creates a 401 [AppError] for requests carrying no credential.
func MissingToken() *AppError {
	return &AppError{
		Code:       "TOKEN_MISSING",
		Message:    "Authentication required",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// MalformedToken creates a 401 [AppError] for unparseable credentials.
func MalformedToken() *AppError {
	return &AppError{
		Code:       "TOKEN_MALFORMED",
		Message:    "Credential could not be parsed",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidTokenSignature creates a 401 [AppError] for signature mismatches.
func InvalidTokenSignature() *AppError {
	return &AppError{
		Code:       "TOKEN_INVALID_SIGNATURE",
		Message:    "Credential signature is invalid",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ExpiredToken creates a 401 [AppError] for credentials past their expiry.
func ExpiredToken() *AppError {
	return &AppError{
		Code:       "TOKEN_EXPIRED",
		Message:    "Credential has expired",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Unauthorized creates a generic 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// # Authorization Errors (403)

// InsufficientRole creates a 403 [AppError] for role-set misses.
func InsufficientRole() *AppError {
	return &AppError{
		Code:       "INSUFFICIENT_ROLE",
		Message:    "Your role does not permit this action",
		HTTPStatus: http.StatusForbidden,
	}
}

// NotOwner creates a 403 [AppError] for ownership-check failures.
func NotOwner() *AppError {
	return &AppError{
		Code:       "NOT_OWNER",
		Message:    "Only the owner may modify this resource",
		HTTPStatus: http.StatusForbidden,
	}
}

// Forbidden creates a generic 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Card") // Returns "Card not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// AllocationExhausted creates a 409 [AppError] when the business-number
// allocator runs out of attempts without finding a free number.
func AllocationExhausted() *AppError {
	return &AppError{
		Code:       "ALLOCATION_EXHAUSTED",
		Message:    "Could not allocate a unique business number, try again",
		HTTPStatus: http.StatusConflict,
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

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
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

// IsNotFound reports whether err maps to a 404 response.
func IsNotFound(err error) bool {
	ae := As(err)
	return ae != nil && ae.HTTPStatus == http.StatusNotFound
}

// IsConflict reports whether err maps to a 409 response.
func IsConflict(err error) bool {
	ae := As(err)
	return ae != nil && ae.HTTPStatus == http.StatusConflict
}
