// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package middleware provides the HTTP middleware chain for the Cardbase API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/internal/platform/constants"
	"github.com/Sy2force/cardbase/internal/platform/ctxutil"
	"github.com/Sy2force/cardbase/internal/platform/respond"
	"github.com/Sy2force/cardbase/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the sec.TokenService
// implementation, allowing us to easily inject fakes during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the bearer token carried by the request.
//
// # Credential Sources
//
// The token may arrive in an 'Authorization: Bearer <token>' header or in the
// http-only access-token cookie. The header wins deterministically when both
// are present. A request carrying neither proceeds as anonymous; protected
// routes reject it later via [RequireAuth].
//
// # Flow
//  1. Extract the raw token (header first, then cookie).
//  2. Parse and verify via [TokenVerifier].
//  3. Any verification failure short-circuits with its own stable 401 kind.
//  4. Inject immutable [*sec.AuthClaims] into the request context. No store
//     lookup happens here: the role is trusted from the claim.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Credential Extraction ──────────────────────────────────────
			tokenStr, err := extractToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, mapVerificationError(err))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractToken returns the raw token string from the request, or "" when the
// request is anonymous. A present-but-malformed Authorization header is an
// error, not anonymity.
func extractToken(request *http.Request) (string, error) {
	authHeader := request.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", apperr.MalformedToken()
		}
		return parts[1], nil
	}

	// Cookie fallback for browser clients.
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", nil
}

// mapVerificationError converts sec sentinel errors into stable 401 kinds.
func mapVerificationError(err error) *apperr.AppError {
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		return apperr.ExpiredToken()
	case errors.Is(err, sec.ErrTokenSignature):
		return apperr.InvalidTokenSignature()
	default:
		return apperr.MalformedToken()
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 TOKEN_MISSING.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.MissingToken())
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose principal is not in the allowed role set.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both. The set is
// disjunctive: any listed role passes.
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context (implies AuthN).
//  2. Check if the principal's role is a member of the allowed set.
//  3. If not, abort with HTTP 403 INSUFFICIENT_ROLE.
func RequireRole(allowed ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := GetUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.MissingToken())
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sec.Role(claims.Role).In(allowed...) {
				respond.Error(writer, request, apperr.InsufficientRole())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAction blocks requests whose principal's role is not granted the
// action by the static role capability map.
func RequireAction(action sec.Action) func(http.Handler) http.Handler {
	return RequireRole(sec.AllowedRoles(action)...)
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}
